package models

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Period identifiers arrive as free-form labels ("FY2022", "As of Dec 31,
// 2022", "Q1 2023"). Consolidated statements order them chronologically, so
// each label is reduced to a sortable key: a year plus, when recognizable, a
// month and day. Labels with no recognizable year sort after dated ones, in
// label order, which keeps the output deterministic even for odd inputs.

var (
	yearPattern    = regexp.MustCompile(`(19|20)\d{2}`)
	quarterPattern = regexp.MustCompile(`(?i)\bq([1-4])\b`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var dayPattern = regexp.MustCompile(`\b([0-3]?\d)\b`)

// periodSortKey is the decomposed ordering key for one period label.
type periodSortKey struct {
	hasYear bool
	year    int
	month   int
	day     int
	label   string
}

func (k periodSortKey) less(other periodSortKey) bool {
	if k.hasYear != other.hasYear {
		return k.hasYear // dated periods sort before undated ones
	}
	if k.year != other.year {
		return k.year < other.year
	}
	if k.month != other.month {
		return k.month < other.month
	}
	if k.day != other.day {
		return k.day < other.day
	}
	return k.label < other.label
}

// parsePeriodKey extracts the sortable key from a period label.
func parsePeriodKey(label string) periodSortKey {
	key := periodSortKey{label: label}

	yearMatch := yearPattern.FindString(label)
	if yearMatch == "" {
		return key
	}
	key.hasYear = true
	for _, r := range yearMatch {
		key.year = key.year*10 + int(r-'0')
	}

	lower := strings.ToLower(label)
	for name, month := range monthsByName {
		if idx := strings.Index(lower, name); idx >= 0 {
			key.month = int(month)
			// Look for a day-of-month after the month name.
			rest := label[idx+len(name):]
			if m := dayPattern.FindStringSubmatch(rest); m != nil {
				day := 0
				for _, r := range m[1] {
					day = day*10 + int(r-'0')
				}
				if day >= 1 && day <= 31 {
					key.day = day
				}
			}
			break
		}
	}

	// Quarter labels order within the year when no month was found.
	if key.month == 0 {
		if m := quarterPattern.FindStringSubmatch(label); m != nil {
			key.month = int(m[1][0]-'0') * 3
		}
	}

	return key
}

// SortPeriods orders period labels chronologically, in place.
func SortPeriods(periods []string) {
	sort.SliceStable(periods, func(i, j int) bool {
		return parsePeriodKey(periods[i]).less(parsePeriodKey(periods[j]))
	})
}

// EarliestPeriod returns the chronologically earliest label from the slice,
// or the empty string for an empty slice. The merge engine uses this to pin
// the source fold order.
func EarliestPeriod(periods []string) string {
	if len(periods) == 0 {
		return ""
	}
	earliest := periods[0]
	earliestKey := parsePeriodKey(earliest)
	for _, p := range periods[1:] {
		if k := parsePeriodKey(p); k.less(earliestKey) {
			earliest = p
			earliestKey = k
		}
	}
	return earliest
}

// PeriodBefore reports whether period a sorts strictly before period b.
func PeriodBefore(a, b string) bool {
	return parsePeriodKey(a).less(parsePeriodKey(b))
}

// MergePeriods returns the chronologically sorted union of two period lists.
func MergePeriods(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, p := range existing {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	for _, p := range incoming {
		if !seen[p] {
			seen[p] = true
			merged = append(merged, p)
		}
	}
	SortPeriods(merged)
	return merged
}

package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from raw values before numeric parsing.
var currencySymbols = []string{"$", "€", "£", "¥"}

// ParseMonetaryValue converts a display value string into a decimal.
// It tolerates the formatting conventions of published financial statements:
// currency symbols, thousands separators, surrounding whitespace, and
// accounting-style parentheses for negative amounts.
func ParseMonetaryValue(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("value string cannot be empty")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" || s == "-" || s == "–" || s == "—" {
		return decimal.Zero, fmt.Errorf("value %q carries no numeric amount", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ValuesAgree reports whether two raw value strings denote the same amount
// after normalization. Unparseable values agree only on exact string
// equality, so garbled extractions do not silently count as matches.
func ValuesAgree(a, b string) bool {
	da, errA := ParseMonetaryValue(a)
	db, errB := ParseMonetaryValue(b)
	if errA != nil || errB != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return da.Equal(db)
}

// CompareWithTolerance reports whether two decimals differ by no more than
// the given absolute tolerance.
func CompareWithTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

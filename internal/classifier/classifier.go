// Package classifier assigns accounting sections to statement line items.
//
// Extracts arrive with candidate section-header rows tagged by the upstream
// extraction pipeline (header rows carry no values). The classifier matches
// header text against per-statement-type keyword patterns and propagates the
// recognized section onto every following row until a reset row ("Total
// <Section>") or another header appears. Sections assigned here are final:
// matching downstream never reclassifies an item.
package classifier

import (
	"regexp"
	"strings"

	"statement-consolidation-service/internal/models"
)

// sectionPattern binds a header regexp to the section it introduces.
type sectionPattern struct {
	re      *regexp.Regexp
	section models.Section
}

// headerPatterns maps each statement type to its recognized section headers.
// Patterns are matched against the full trimmed header text.
var headerPatterns = map[models.StatementType][]sectionPattern{
	models.StatementBalanceSheet: {
		{regexp.MustCompile(`(?i)^(current\s+)?assets$`), models.SectionAssets},
		{regexp.MustCompile(`(?i)^(current\s+)?liabilities$`), models.SectionLiabilities},
		{regexp.MustCompile(`(?i)^liabilities\s+and\s+(stockholders'?|shareholders'?)\s+equity$`), models.SectionLiabilities},
		{regexp.MustCompile(`(?i)^(stockholders'?|shareholders'?)\s+equity$`), models.SectionEquity},
		{regexp.MustCompile(`(?i)^equity$`), models.SectionEquity},
	},
	models.StatementCashFlow: {
		{regexp.MustCompile(`(?i)operating\s+activities`), models.SectionOperating},
		{regexp.MustCompile(`(?i)investing\s+activities`), models.SectionInvesting},
		{regexp.MustCompile(`(?i)financing\s+activities`), models.SectionFinancing},
	},
	models.StatementIncome: {
		{regexp.MustCompile(`(?i)^(net\s+)?(revenues?|sales)$`), models.SectionRevenue},
		{regexp.MustCompile(`(?i)^(operating\s+)?(costs\s+and\s+)?expenses$`), models.SectionExpense},
		{regexp.MustCompile(`(?i)^other\s+income(\s*\(expense\))?`), models.SectionIncome},
	},
	models.StatementEquity: {
		{regexp.MustCompile(`(?i)(stockholders'?|shareholders'?)\s+equity`), models.SectionEquity},
		{regexp.MustCompile(`(?i)^equity$`), models.SectionEquity},
	},
	models.StatementComprehensiveIncome: {
		{regexp.MustCompile(`(?i)comprehensive\s+income`), models.SectionIncome},
		{regexp.MustCompile(`(?i)^net\s+income$`), models.SectionIncome},
	},
}

// resetPatterns terminate section propagation. A reset row still belongs to
// the section it totals; rows after it fall back to Unclassified until a new
// header appears.
var resetPatterns = map[models.Section][]*regexp.Regexp{
	models.SectionAssets: {
		regexp.MustCompile(`(?i)^total\s+assets$`),
	},
	models.SectionLiabilities: {
		regexp.MustCompile(`(?i)^total\s+liabilities$`),
		regexp.MustCompile(`(?i)^total\s+liabilities\s+and\s+(stockholders'?|shareholders'?)\s+equity$`),
	},
	models.SectionEquity: {
		regexp.MustCompile(`(?i)^total\s+(stockholders'?|shareholders'?)?\s*equity$`),
	},
	models.SectionOperating: {
		regexp.MustCompile(`(?i)^net\s+cash\s+(provided\s+by|used\s+in|from)\s+operating\s+activities$`),
	},
	models.SectionInvesting: {
		regexp.MustCompile(`(?i)^net\s+cash\s+(provided\s+by|used\s+in|from)\s+investing\s+activities$`),
	},
	models.SectionFinancing: {
		regexp.MustCompile(`(?i)^net\s+cash\s+(provided\s+by|used\s+in|from)\s+financing\s+activities$`),
	},
	models.SectionRevenue: {
		regexp.MustCompile(`(?i)^total\s+(net\s+)?(revenues?|sales)$`),
	},
	models.SectionExpense: {
		regexp.MustCompile(`(?i)^total\s+(operating\s+)?(costs\s+and\s+)?expenses$`),
	},
}

// Classify returns a copy of the line items with sections assigned from
// header context. The input slice is never mutated. Classification is
// idempotent: the output depends only on header structure and row order,
// so re-classifying already-classified items yields identical results.
func Classify(statementType models.StatementType, items []models.LineItem) []models.LineItem {
	patterns := headerPatterns[statementType]

	classified := make([]models.LineItem, len(items))
	current := models.SectionUnclassified

	for i, item := range items {
		out := item

		if isHeaderRow(&item) {
			current = matchHeader(patterns, item.AccountName)
			out.Section = current
			classified[i] = out
			continue
		}

		out.Section = current
		classified[i] = out

		if current != models.SectionUnclassified && isResetRow(current, item.AccountName) {
			// The total row keeps the parent section but ends propagation.
			current = models.SectionUnclassified
		}
	}

	return classified
}

// ClassifyExtract returns a copy of the extract with classified line items.
func ClassifyExtract(extract *models.StatementExtract) *models.StatementExtract {
	out := *extract
	out.LineItems = Classify(extract.StatementType, extract.LineItems)
	return &out
}

// isHeaderRow reports whether the row is a candidate section header. The
// upstream extractor tags headers explicitly; a row with no values and the
// header flag set is the only thing treated as a header.
func isHeaderRow(item *models.LineItem) bool {
	return item.IsHeader && !item.HasValues()
}

func matchHeader(patterns []sectionPattern, name string) models.Section {
	name = strings.TrimSpace(name)
	for _, p := range patterns {
		if p.re.MatchString(name) {
			return p.section
		}
	}
	return models.SectionUnclassified
}

func isResetRow(section models.Section, name string) bool {
	name = strings.TrimSpace(name)
	for _, re := range resetPatterns[section] {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

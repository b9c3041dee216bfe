// Package models defines the core data structures for financial statement
// consolidation.
//
// The model distinguishes three stages of data:
//   - StatementExtract: one statement type from one source document, produced
//     by an upstream extraction pipeline and never mutated here
//   - LineItem: one row of an extract, carrying its verbatim account name,
//     a section assignment, a nesting depth, and per-period raw values
//   - ConsolidatedStatement / ConsolidatedEntry: the merged multi-period
//     output, with per-period provenance back to the contributing sources
//
// Monetary values are kept as the original display strings for audit
// purposes; ParseMonetaryValue converts them to decimals on demand.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatementType identifies which financial statement an extract belongs to.
type StatementType string

const (
	StatementBalanceSheet        StatementType = "balance_sheet"
	StatementIncome              StatementType = "income_statement"
	StatementCashFlow            StatementType = "cash_flow"
	StatementEquity              StatementType = "equity"
	StatementComprehensiveIncome StatementType = "comprehensive_income"
)

// AllStatementTypes lists every supported statement type in a fixed order.
// Consolidation jobs fan out over this list.
var AllStatementTypes = []StatementType{
	StatementBalanceSheet,
	StatementIncome,
	StatementCashFlow,
	StatementEquity,
	StatementComprehensiveIncome,
}

// IsValid checks whether the statement type is one of the supported variants.
func (st StatementType) IsValid() bool {
	switch st {
	case StatementBalanceSheet, StatementIncome, StatementCashFlow,
		StatementEquity, StatementComprehensiveIncome:
		return true
	default:
		return false
	}
}

// String returns the string representation of the statement type
func (st StatementType) String() string {
	return string(st)
}

// ParseStatementType parses and validates a statement type from string
func ParseStatementType(s string) (StatementType, error) {
	st := StatementType(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid statement type %q", s)
	}
	return st, nil
}

// Section is the coarse accounting category of a line item. It is a closed
// set: matching on Section is exhaustive, and two classified items with
// different sections are never the same account no matter how similar their
// names are.
type Section int

const (
	// SectionUnclassified marks items whose section could not be determined
	// from source-document structure. Unclassified items participate in
	// matching at reduced confidence only.
	SectionUnclassified Section = iota
	SectionAssets
	SectionLiabilities
	SectionEquity
	SectionOperating
	SectionInvesting
	SectionFinancing
	SectionRevenue
	SectionExpense
	SectionIncome
)

// String returns the string representation of the section
func (s Section) String() string {
	switch s {
	case SectionUnclassified:
		return "Unclassified"
	case SectionAssets:
		return "Assets"
	case SectionLiabilities:
		return "Liabilities"
	case SectionEquity:
		return "Equity"
	case SectionOperating:
		return "Operating"
	case SectionInvesting:
		return "Investing"
	case SectionFinancing:
		return "Financing"
	case SectionRevenue:
		return "Revenue"
	case SectionExpense:
		return "Expense"
	case SectionIncome:
		return "Income"
	default:
		return "Unknown"
	}
}

// ParseSection parses a section from its string representation
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unclassified":
		return SectionUnclassified, nil
	case "assets":
		return SectionAssets, nil
	case "liabilities":
		return SectionLiabilities, nil
	case "equity":
		return SectionEquity, nil
	case "operating":
		return SectionOperating, nil
	case "investing":
		return SectionInvesting, nil
	case "financing":
		return SectionFinancing, nil
	case "revenue":
		return SectionRevenue, nil
	case "expense":
		return SectionExpense, nil
	case "income":
		return SectionIncome, nil
	default:
		return SectionUnclassified, fmt.Errorf("invalid section %q", s)
	}
}

// MarshalJSON encodes the section as its string name
func (s Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a section from its string name
func (s *Section) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSection(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// LineItem represents one row of a financial statement extract.
//
// AccountName is preserved verbatim, including original punctuation and
// spacing, so that consolidated output can be traced back to the source
// document text. Values maps fiscal-period identifiers to the raw value
// strings as they appeared in the source ("(514)", "$5,261", ...).
type LineItem struct {
	AccountName string            `json:"account_name"`
	Section     Section           `json:"section"`
	Depth       int               `json:"depth"`
	IsHeader    bool              `json:"is_header,omitempty"`
	Values      map[string]string `json:"values,omitempty"`
}

// HasValues reports whether the item carries at least one period value.
// Section-header rows carry none.
func (li *LineItem) HasValues() bool {
	return len(li.Values) > 0
}

// StatementExtract is one statement type extracted from one source document.
// Extracts are created by the upstream extraction pipeline, are immutable,
// and are consumed whole by the merge engine.
type StatementExtract struct {
	SourceID      string        `json:"source_id"`
	StatementType StatementType `json:"statement_type"`
	Periods       []string      `json:"periods"`
	LineItems     []LineItem    `json:"line_items"`
}

// Validate checks the structural preconditions the merge engine relies on.
// A malformed extract is rejected before any fold begins.
func (se *StatementExtract) Validate() error {
	if se.SourceID == "" {
		return fmt.Errorf("statement extract has no source id")
	}
	if !se.StatementType.IsValid() {
		return fmt.Errorf("statement extract %s has invalid statement type %q", se.SourceID, se.StatementType)
	}
	if len(se.Periods) == 0 {
		return fmt.Errorf("statement extract %s covers zero periods", se.SourceID)
	}
	seen := make(map[string]bool, len(se.Periods))
	for _, p := range se.Periods {
		if p == "" {
			return fmt.Errorf("statement extract %s contains an empty period identifier", se.SourceID)
		}
		if seen[p] {
			return fmt.Errorf("statement extract %s lists period %q twice", se.SourceID, p)
		}
		seen[p] = true
	}
	for i, li := range se.LineItems {
		if strings.TrimSpace(li.AccountName) == "" {
			return fmt.Errorf("statement extract %s line %d has an empty account name", se.SourceID, i)
		}
		if li.Depth < 0 {
			return fmt.Errorf("statement extract %s line %d has negative depth %d", se.SourceID, i, li.Depth)
		}
		for period := range li.Values {
			if !seen[period] {
				return fmt.Errorf("statement extract %s line %d references undeclared period %q", se.SourceID, i, period)
			}
		}
	}
	return nil
}

// ConsolidatedEntry is one merged account across the full consolidated
// timeline. Values accumulate across sources under a first-writer-wins rule;
// Provenance records which source supplied each period's value.
type ConsolidatedEntry struct {
	IdentityKey   string            `json:"identity_key"`
	CanonicalName string            `json:"canonical_name"`
	Section       Section           `json:"section"`
	Depth         int               `json:"depth"`
	Values        map[string]string `json:"values"`
	Provenance    map[string]string `json:"provenance"`
}

// HasValue reports whether the entry already holds a value for the period.
func (ce *ConsolidatedEntry) HasValue(period string) bool {
	_, ok := ce.Values[period]
	return ok
}

// ConsolidatedStatement is the merged multi-period output for one statement
// type. Periods holds the chronologically sorted union of all contributing
// periods. Entries preserve first-seen order.
type ConsolidatedStatement struct {
	StatementType StatementType        `json:"statement_type"`
	Periods       []string             `json:"periods"`
	Entries       []*ConsolidatedEntry `json:"entries"`
	Report        *ValidationReport    `json:"validation_report"`
}

// FindEntry returns the entry with the given identity key, or nil.
func (cs *ConsolidatedStatement) FindEntry(identityKey string) *ConsolidatedEntry {
	for _, e := range cs.Entries {
		if e.IdentityKey == identityKey {
			return e
		}
	}
	return nil
}

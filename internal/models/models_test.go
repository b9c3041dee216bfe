package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMonetaryValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain integer", "5261", "5261", false},
		{"thousands separators", "5,261", "5261", false},
		{"currency symbol", "$1,234.56", "1234.56", false},
		{"parenthesized negative", "(514)", "-514", false},
		{"parenthesized with symbol", "($2,000)", "-2000", false},
		{"leading whitespace", "  42 ", "42", false},
		{"explicit negative", "-17.5", "-17.5", false},
		{"euro symbol", "€9,000", "9000", false},
		{"empty string", "", "", true},
		{"dash placeholder", "-", "", true},
		{"em dash placeholder", "—", "", true},
		{"garbage", "n/a", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonetaryValue(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonetaryValue(%q) expected error, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonetaryValue(%q) unexpected error: %v", tt.input, err)
			}
			expected, _ := decimal.NewFromString(tt.expected)
			if !got.Equal(expected) {
				t.Errorf("ParseMonetaryValue(%q) = %s, expected %s", tt.input, got, expected)
			}
		})
	}
}

func TestValuesAgree(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"identical", "5,261", "5,261", true},
		{"formatting differs", "$5,261", "5261", true},
		{"parenthesized equals negative", "(514)", "-514", true},
		{"different amounts", "5,261", "514", false},
		{"unparseable exact match", "n/a", "n/a", true},
		{"unparseable mismatch", "n/a", "514", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValuesAgree(tt.a, tt.b); got != tt.expected {
				t.Errorf("ValuesAgree(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSortPeriods(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			"fiscal years",
			[]string{"FY2023", "FY2021", "FY2022"},
			[]string{"FY2021", "FY2022", "FY2023"},
		},
		{
			"balance sheet dates",
			[]string{"As of Dec 31, 2023", "As of Dec 31, 2021", "As of Jun 30, 2022"},
			[]string{"As of Dec 31, 2021", "As of Jun 30, 2022", "As of Dec 31, 2023"},
		},
		{
			"quarters within a year",
			[]string{"Q3 2022", "Q1 2022", "FY2021"},
			[]string{"FY2021", "Q1 2022", "Q3 2022"},
		},
		{
			"days within a month",
			[]string{"Mar 31, 2022", "Mar 1, 2022"},
			[]string{"Mar 1, 2022", "Mar 31, 2022"},
		},
		{
			"undated labels sort last",
			[]string{"Restated", "FY2022"},
			[]string{"FY2022", "Restated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods := append([]string(nil), tt.input...)
			SortPeriods(periods)
			for i := range tt.expected {
				if periods[i] != tt.expected[i] {
					t.Fatalf("SortPeriods(%v) = %v, expected %v", tt.input, periods, tt.expected)
				}
			}
		})
	}
}

func TestEarliestPeriod(t *testing.T) {
	if got := EarliestPeriod([]string{"FY2023", "FY2021", "FY2022"}); got != "FY2021" {
		t.Errorf("EarliestPeriod = %q, expected FY2021", got)
	}
	if got := EarliestPeriod(nil); got != "" {
		t.Errorf("EarliestPeriod(nil) = %q, expected empty", got)
	}
}

func TestMergePeriods(t *testing.T) {
	merged := MergePeriods([]string{"FY2022", "FY2021"}, []string{"FY2023", "FY2022"})
	expected := []string{"FY2021", "FY2022", "FY2023"}
	if len(merged) != len(expected) {
		t.Fatalf("MergePeriods returned %v, expected %v", merged, expected)
	}
	for i := range expected {
		if merged[i] != expected[i] {
			t.Fatalf("MergePeriods returned %v, expected %v", merged, expected)
		}
	}
}

func TestStatementExtractValidate(t *testing.T) {
	valid := StatementExtract{
		SourceID:      "10K-2022",
		StatementType: StatementBalanceSheet,
		Periods:       []string{"FY2022"},
		LineItems: []LineItem{
			{AccountName: "Cash", Values: map[string]string{"FY2022": "100"}},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid extract rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*StatementExtract)
	}{
		{"missing source id", func(se *StatementExtract) { se.SourceID = "" }},
		{"invalid statement type", func(se *StatementExtract) { se.StatementType = "ledger" }},
		{"zero periods", func(se *StatementExtract) { se.Periods = nil }},
		{"duplicate period", func(se *StatementExtract) { se.Periods = []string{"FY2022", "FY2022"} }},
		{"empty period id", func(se *StatementExtract) { se.Periods = []string{""} }},
		{"empty account name", func(se *StatementExtract) { se.LineItems[0].AccountName = "  " }},
		{"negative depth", func(se *StatementExtract) { se.LineItems[0].Depth = -1 }},
		{"undeclared period value", func(se *StatementExtract) {
			se.LineItems[0].Values = map[string]string{"FY2019": "9"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract := valid
			extract.Periods = append([]string(nil), valid.Periods...)
			extract.LineItems = []LineItem{{
				AccountName: valid.LineItems[0].AccountName,
				Values:      map[string]string{"FY2022": "100"},
			}}
			tt.mutate(&extract)
			if err := extract.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestParseStatementType(t *testing.T) {
	if st, err := ParseStatementType(" Balance_Sheet "); err != nil || st != StatementBalanceSheet {
		t.Errorf("ParseStatementType(balance_sheet) = %v, %v", st, err)
	}
	if _, err := ParseStatementType("ledger"); err == nil {
		t.Error("expected error for unknown statement type")
	}
}

func TestSectionRoundTrip(t *testing.T) {
	sections := []Section{
		SectionUnclassified, SectionAssets, SectionLiabilities, SectionEquity,
		SectionOperating, SectionInvesting, SectionFinancing,
		SectionRevenue, SectionExpense, SectionIncome,
	}
	for _, section := range sections {
		parsed, err := ParseSection(section.String())
		if err != nil {
			t.Fatalf("ParseSection(%q) failed: %v", section.String(), err)
		}
		if parsed != section {
			t.Errorf("round trip for %s returned %s", section, parsed)
		}
	}
}

package classifier

import (
	"testing"

	"statement-consolidation-service/internal/models"
)

func header(name string) models.LineItem {
	return models.LineItem{AccountName: name, IsHeader: true}
}

func row(name string, depth int) models.LineItem {
	return models.LineItem{
		AccountName: name,
		Depth:       depth,
		Values:      map[string]string{"FY2022": "1"},
	}
}

func sectionsOf(items []models.LineItem) []models.Section {
	sections := make([]models.Section, len(items))
	for i, item := range items {
		sections[i] = item.Section
	}
	return sections
}

func TestClassifyBalanceSheet(t *testing.T) {
	items := []models.LineItem{
		header("Assets"),
		row("Cash and cash equivalents", 1),
		row("Deferred income taxes", 1),
		row("Total assets", 0),
		header("Liabilities"),
		row("Accounts payable", 1),
		row("Deferred income taxes", 1),
		row("Total liabilities", 0),
		header("Stockholders' Equity"),
		row("Common stock", 1),
		row("Total stockholders' equity", 0),
	}

	classified := Classify(models.StatementBalanceSheet, items)

	expected := []models.Section{
		models.SectionAssets, // header carries the section it introduces
		models.SectionAssets,
		models.SectionAssets,
		models.SectionAssets, // reset row keeps parent section
		models.SectionLiabilities,
		models.SectionLiabilities,
		models.SectionLiabilities,
		models.SectionLiabilities,
		models.SectionEquity,
		models.SectionEquity,
		models.SectionEquity,
	}

	got := sectionsOf(classified)
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("item %d (%s): section %s, expected %s",
				i, classified[i].AccountName, got[i], expected[i])
		}
	}
}

func TestClassifyResetStopsPropagation(t *testing.T) {
	items := []models.LineItem{
		header("Assets"),
		row("Cash", 1),
		row("Total assets", 0),
		row("Commitments and contingencies", 0), // after reset, before any new header
	}

	classified := Classify(models.StatementBalanceSheet, items)

	if classified[2].Section != models.SectionAssets {
		t.Errorf("reset row classified %s, expected Assets", classified[2].Section)
	}
	if classified[3].Section != models.SectionUnclassified {
		t.Errorf("post-reset row classified %s, expected Unclassified", classified[3].Section)
	}
}

func TestClassifyCashFlow(t *testing.T) {
	items := []models.LineItem{
		header("Cash flows from operating activities"),
		row("Net income", 1),
		row("Net cash provided by operating activities", 0),
		header("Cash flows from investing activities"),
		row("Purchases of property and equipment", 1),
		row("Net cash used in investing activities", 0),
		header("Cash flows from financing activities"),
		row("Repayments of debt", 1),
	}

	classified := Classify(models.StatementCashFlow, items)

	expected := []models.Section{
		models.SectionOperating,
		models.SectionOperating,
		models.SectionOperating,
		models.SectionInvesting,
		models.SectionInvesting,
		models.SectionInvesting,
		models.SectionFinancing,
		models.SectionFinancing,
	}
	got := sectionsOf(classified)
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("item %d (%s): section %s, expected %s",
				i, classified[i].AccountName, got[i], expected[i])
		}
	}
}

func TestClassifyNoHeaders(t *testing.T) {
	items := []models.LineItem{
		row("Cash", 0),
		row("Accounts payable", 0),
	}

	classified := Classify(models.StatementBalanceSheet, items)

	for i, item := range classified {
		if item.Section != models.SectionUnclassified {
			t.Errorf("item %d classified %s, expected Unclassified with no headers", i, item.Section)
		}
	}
}

func TestClassifyUnrecognizedHeader(t *testing.T) {
	items := []models.LineItem{
		header("Supplemental disclosures"),
		row("Interest paid", 1),
	}

	classified := Classify(models.StatementBalanceSheet, items)

	if classified[1].Section != models.SectionUnclassified {
		t.Errorf("row under unrecognized header classified %s, expected Unclassified", classified[1].Section)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	items := []models.LineItem{
		header("Assets"),
		row("Cash", 1),
		row("Total assets", 0),
		header("Liabilities"),
		row("Accounts payable", 1),
	}

	once := Classify(models.StatementBalanceSheet, items)
	twice := Classify(models.StatementBalanceSheet, once)

	for i := range once {
		if once[i].Section != twice[i].Section {
			t.Errorf("item %d: first pass %s, second pass %s",
				i, once[i].Section, twice[i].Section)
		}
	}
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	items := []models.LineItem{
		header("Assets"),
		row("Cash", 1),
	}

	Classify(models.StatementBalanceSheet, items)

	if items[1].Section != models.SectionUnclassified {
		t.Error("Classify mutated its input slice")
	}
}

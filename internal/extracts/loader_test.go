package extracts

import (
	"os"
	"path/filepath"
	"testing"

	"statement-consolidation-service/internal/models"
	"statement-consolidation-service/pkg/errors"
)

const validExtractJSON = `{
	"source_id": "10K-2022",
	"statement_type": "balance_sheet",
	"periods": ["FY2022"],
	"line_items": [
		{"account_name": "Assets", "is_header": true},
		{"account_name": "Total assets", "values": {"FY2022": "1,000"}}
	]
}`

func writeExtract(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeExtract(t, t.TempDir(), "extract.json", validExtractJSON)

	extract, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if extract.SourceID != "10K-2022" {
		t.Errorf("source id = %q", extract.SourceID)
	}
	if extract.StatementType != models.StatementBalanceSheet {
		t.Errorf("statement type = %q", extract.StatementType)
	}
	if len(extract.LineItems) != 2 {
		t.Errorf("line items = %d, expected 2", len(extract.LineItems))
	}
	if !extract.LineItems[0].IsHeader {
		t.Error("header flag lost in decode")
	}
	if extract.LineItems[1].Values["FY2022"] != "1,000" {
		t.Errorf("values = %v", extract.LineItems[1].Values)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.IsCategory(err, errors.CategoryFile) {
		t.Errorf("expected a file error, got: %v", err)
	}
}

func TestParseRejectsBadJSON(t *testing.T) {
	_, err := Parse([]byte(`{"source_id": `), "stdin")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !errors.IsCategory(err, errors.CategoryParse) {
		t.Errorf("expected a parse error, got: %v", err)
	}
}

func TestParseRejectsMalformedExtracts(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "missing source id",
			json: `{"statement_type": "balance_sheet", "periods": ["FY2022"], "line_items": []}`,
		},
		{
			name: "unknown statement type",
			json: `{"source_id": "x", "statement_type": "ledger", "periods": ["FY2022"], "line_items": []}`,
		},
		{
			name: "no periods",
			json: `{"source_id": "x", "statement_type": "balance_sheet", "periods": [], "line_items": []}`,
		},
		{
			name: "duplicate periods",
			json: `{"source_id": "x", "statement_type": "balance_sheet", "periods": ["FY2022", "FY2022"], "line_items": []}`,
		},
		{
			name: "undeclared period reference",
			json: `{"source_id": "x", "statement_type": "balance_sheet", "periods": ["FY2022"],
				"line_items": [{"account_name": "Total assets", "values": {"FY2021": "1"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json), tt.name)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.IsCategory(err, errors.CategoryValidation) {
				t.Errorf("expected a validation error, got: %v", err)
			}
		})
	}
}

func TestLoadFilesPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeExtract(t, dir, "a.json", validExtractJSON)
	second := writeExtract(t, dir, "b.json", `{
		"source_id": "10K-2021",
		"statement_type": "balance_sheet",
		"periods": ["FY2021"],
		"line_items": [{"account_name": "Total assets", "values": {"FY2021": "900"}}]
	}`)

	loaded, err := LoadFiles([]string{first, second})
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d extracts, expected 2", len(loaded))
	}
	if loaded[0].SourceID != "10K-2022" || loaded[1].SourceID != "10K-2021" {
		t.Errorf("ingestion order not preserved: %s, %s", loaded[0].SourceID, loaded[1].SourceID)
	}
}

func TestLoadFilesStopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	good := writeExtract(t, dir, "good.json", validExtractJSON)
	bad := writeExtract(t, dir, "bad.json", `not json`)

	_, err := LoadFiles([]string{good, bad})
	if err == nil {
		t.Fatal("expected the malformed file to fail the load")
	}
}

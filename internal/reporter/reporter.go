// Package reporter renders consolidation job results for downstream
// consumers.
//
// Three formats are supported:
//   - Console: human-readable summary for terminal display
//   - JSON: the complete job result for review tooling
//   - CSV: consolidated entries as rows for spreadsheet import
//
// The console and JSON formats carry the full validation report: every
// period conflict, every warning-band merge, every check result. Review
// depends on that completeness; the reporter never summarizes it away.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"statement-consolidation-service/internal/consolidator"
	"statement-consolidation-service/internal/models"
	"statement-consolidation-service/pkg/errors"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Write renders the job result to w in the requested format.
func Write(w io.Writer, result *consolidator.JobResult, format OutputFormat) error {
	switch format {
	case FormatConsole:
		return writeConsole(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	default:
		return errors.ConfigError(fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

func writeJSON(w io.Writer, result *consolidator.JobResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeConsole(w io.Writer, result *consolidator.JobResult) error {
	var b strings.Builder

	b.WriteString("Consolidation Job " + result.JobID + "\n")
	b.WriteString("Verdict: " + result.Verdict.String() + "\n")
	b.WriteString(strings.Repeat("=", 64) + "\n")

	for _, statementType := range sortedTypes(result) {
		outcome := result.Statements[statementType]
		stmt := outcome.Statement
		fmt.Fprintf(&b, "\n%s: %s\n", statementType, outcome.Verdict)
		if stmt == nil {
			continue
		}
		fmt.Fprintf(&b, "  periods: %s\n", strings.Join(stmt.Periods, ", "))
		fmt.Fprintf(&b, "  entries: %d\n", len(stmt.Entries))

		report := stmt.Report
		if report == nil {
			continue
		}

		for _, r := range report.Results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			label := r.Check
			if r.Period != "" {
				label += " [" + r.Period + "]"
			}
			fmt.Fprintf(&b, "  check %-40s %s (%s) %s\n", label, status, r.Severity, r.Message)
		}

		if len(report.Conflicts) > 0 {
			fmt.Fprintf(&b, "  period conflicts (%d):\n", len(report.Conflicts))
			for _, c := range report.Conflicts {
				fmt.Fprintf(&b, "    %s [%s]: %q from %s vs %q from %s\n",
					c.AccountName, c.Period,
					c.ExistingValue, c.ExistingSource,
					c.IncomingValue, c.IncomingSource)
			}
		}

		warningMerges := report.WarningBandMerges()
		if len(warningMerges) > 0 {
			fmt.Fprintf(&b, "  merges needing review (%d):\n", len(warningMerges))
			for _, m := range warningMerges {
				fmt.Fprintf(&b, "    %q -> %s at %.2f (name %.2f, section %.2f, depth %.2f, values %.2f)\n",
					m.AccountName, m.IdentityKey, m.Confidence,
					m.Breakdown.NameSimilarity, m.Breakdown.Section,
					m.Breakdown.Depth, m.Breakdown.ValueOverlap)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCSV emits one row per consolidated entry, with one column per
// period, grouped by statement type.
func writeCSV(w io.Writer, result *consolidator.JobResult) error {
	writer := csv.NewWriter(w)

	for _, statementType := range sortedTypes(result) {
		outcome := result.Statements[statementType]
		stmt := outcome.Statement
		if stmt == nil {
			continue
		}

		header := []string{"statement_type", "account_name", "section", "depth"}
		header = append(header, stmt.Periods...)
		if err := writer.Write(header); err != nil {
			return err
		}

		for _, entry := range stmt.Entries {
			row := []string{
				string(statementType),
				entry.CanonicalName,
				entry.Section.String(),
				fmt.Sprintf("%d", entry.Depth),
			}
			for _, period := range stmt.Periods {
				row = append(row, entry.Values[period])
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func sortedTypes(result *consolidator.JobResult) []models.StatementType {
	types := make([]models.StatementType, 0, len(result.Statements))
	for t := range result.Statements {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

package models

import "fmt"

// Severity grades a validation result.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes the severity as its string name
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// ValidationResult is the outcome of a single accounting check.
type ValidationResult struct {
	Check    string   `json:"check"`
	Period   string   `json:"period,omitempty"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// PeriodConflict records two sources supplying a value for the same account
// and the same fiscal period. Conflicts are never resolved automatically;
// the first-written value stands and the conflict is surfaced for manual
// resolution.
type PeriodConflict struct {
	IdentityKey    string `json:"identity_key"`
	AccountName    string `json:"account_name"`
	Period         string `json:"period"`
	ExistingValue  string `json:"existing_value"`
	ExistingSource string `json:"existing_source"`
	IncomingValue  string `json:"incoming_value"`
	IncomingSource string `json:"incoming_source"`
}

// ValuesDiffer reports whether the two conflicting values actually denote
// different amounts. Identical re-supplies are still conflicts, but review
// tooling may rank them lower.
func (pc *PeriodConflict) ValuesDiffer() bool {
	return !ValuesAgree(pc.ExistingValue, pc.IncomingValue)
}

// FactorBreakdown is the per-factor decomposition of a match confidence.
// Each field holds the weighted contribution of that factor; the breakdown
// accompanies every merge decision and is never discarded.
type FactorBreakdown struct {
	NameSimilarity float64 `json:"name_similarity"`
	Section        float64 `json:"section"`
	Depth          float64 `json:"depth"`
	ValueOverlap   float64 `json:"value_overlap"`
}

// MergeRecord documents one merge decision made by the merge engine.
type MergeRecord struct {
	SourceID    string          `json:"source_id"`
	AccountName string          `json:"account_name"`
	IdentityKey string          `json:"identity_key"`
	Confidence  float64         `json:"confidence"`
	Breakdown   FactorBreakdown `json:"breakdown"`
	ExactKey    bool            `json:"exact_key"`
	WarningBand bool            `json:"warning_band"`
}

// ValidationReport aggregates everything downstream review tooling needs:
// accounting check results, unresolved period conflicts, and the confidence
// breakdown of every merge. The report is append-only during a fold and
// complete by construction; nothing is summarized away.
type ValidationReport struct {
	Results   []ValidationResult `json:"results"`
	Conflicts []PeriodConflict   `json:"conflicts"`
	Merges    []MergeRecord      `json:"merges"`
}

// NewValidationReport creates an empty validation report
func NewValidationReport() *ValidationReport {
	return &ValidationReport{}
}

// AddResult appends an accounting check result
func (vr *ValidationReport) AddResult(result ValidationResult) {
	vr.Results = append(vr.Results, result)
}

// AddConflict appends an unresolved period conflict
func (vr *ValidationReport) AddConflict(conflict PeriodConflict) {
	vr.Conflicts = append(vr.Conflicts, conflict)
}

// AddMerge appends a merge decision record
func (vr *ValidationReport) AddMerge(record MergeRecord) {
	vr.Merges = append(vr.Merges, record)
}

// HasCriticalFailure reports whether any check failed at critical severity.
func (vr *ValidationReport) HasCriticalFailure() bool {
	for _, r := range vr.Results {
		if !r.Passed && r.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any check failed at warning severity.
func (vr *ValidationReport) HasWarnings() bool {
	for _, r := range vr.Results {
		if !r.Passed && r.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// HasConflicts reports whether any period conflict was recorded.
func (vr *ValidationReport) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// WarningBandMerges returns the merge records that fell into the warning
// confidence band.
func (vr *ValidationReport) WarningBandMerges() []MergeRecord {
	var records []MergeRecord
	for _, m := range vr.Merges {
		if m.WarningBand {
			records = append(records, m)
		}
	}
	return records
}

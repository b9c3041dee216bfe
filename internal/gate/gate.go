// Package gate turns a finished validation report into a graduated run
// verdict.
//
// A consolidation that ran without errors is not the same thing as correct
// data. The gate separates the two: it inspects the complete validation
// report and grades the run SUCCESS, SUCCESS_WITH_WARNINGS, NEEDS_REVIEW,
// or FAILED. Consolidated data is returned in every case so it can be
// inspected; the verdict decides whether it is publishable.
package gate

import "statement-consolidation-service/internal/models"

// JobStatus tracks a consolidation job through its lifecycle. The terminal
// states mirror the verdicts; there are no transitions out of a terminal
// state.
type JobStatus int

const (
	StatusPending JobStatus = iota
	StatusMerging
	StatusValidating
	StatusSuccess
	StatusSuccessWithWarnings
	StatusNeedsReview
	StatusFailed
)

// String returns the string representation of the job status
func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusMerging:
		return "MERGING"
	case StatusValidating:
		return "VALIDATING"
	case StatusSuccess:
		return "SUCCESS"
	case StatusSuccessWithWarnings:
		return "SUCCESS_WITH_WARNINGS"
	case StatusNeedsReview:
		return "NEEDS_REVIEW"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusSuccessWithWarnings, StatusNeedsReview, StatusFailed:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the status as its string name
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// CanTransition reports whether the status may move to the target state.
// The only legal path is PENDING, MERGING, VALIDATING, then a terminal state.
func (s JobStatus) CanTransition(to JobStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return to == StatusMerging
	case StatusMerging:
		return to == StatusValidating
	case StatusValidating:
		return to.Terminal()
	default:
		return false
	}
}

// Verdict is the graduated outcome of a consolidation run.
type Verdict int

const (
	VerdictSuccess Verdict = iota
	VerdictSuccessWithWarnings
	VerdictNeedsReview
	VerdictFailed
)

// String returns the string representation of the verdict
func (v Verdict) String() string {
	switch v {
	case VerdictSuccess:
		return "SUCCESS"
	case VerdictSuccessWithWarnings:
		return "SUCCESS_WITH_WARNINGS"
	case VerdictNeedsReview:
		return "NEEDS_REVIEW"
	case VerdictFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Status returns the terminal job status corresponding to the verdict.
func (v Verdict) Status() JobStatus {
	switch v {
	case VerdictSuccess:
		return StatusSuccess
	case VerdictSuccessWithWarnings:
		return StatusSuccessWithWarnings
	case VerdictNeedsReview:
		return StatusNeedsReview
	default:
		return StatusFailed
	}
}

// MarshalJSON encodes the verdict as its string name
func (v Verdict) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// Evaluate grades a validation report. Rules apply in order and the first
// match wins:
//  1. any critical check failure grades FAILED
//  2. any unresolved period conflict grades NEEDS_REVIEW
//  3. any merge below the auto-merge threshold, or any warning-severity
//     check failure, grades SUCCESS_WITH_WARNINGS
//  4. otherwise SUCCESS
func Evaluate(report *models.ValidationReport) Verdict {
	if report == nil {
		return VerdictSuccess
	}
	if report.HasCriticalFailure() {
		return VerdictFailed
	}
	if report.HasConflicts() {
		return VerdictNeedsReview
	}
	if len(report.WarningBandMerges()) > 0 || report.HasWarnings() {
		return VerdictSuccessWithWarnings
	}
	return VerdictSuccess
}

// Worst returns the more severe of two verdicts. Job-level verdicts
// aggregate per-statement verdicts with this.
func Worst(a, b Verdict) Verdict {
	if b > a {
		return b
	}
	return a
}

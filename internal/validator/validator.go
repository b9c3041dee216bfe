// Package validator runs statement-type-specific arithmetic checks against
// a consolidated statement.
//
// The checks are independent of how entries were produced: they locate
// "Total ..." line items by name pattern and verify the accounting
// identities that must hold in any correctly merged statement. A violated
// identity beyond tolerance is a critical failure; a check that cannot run
// because its total lines are missing degrades to a warning, never a
// failure. Statement types with no defined check (equity, comprehensive
// income) pass at info severity as a documented gap, not an assumed pass.
package validator

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"statement-consolidation-service/internal/models"
)

// Config holds the tunable parameters of the accounting checks.
type Config struct {
	// Tolerance is the absolute difference allowed when comparing the two
	// sides of an accounting identity, in currency units
	Tolerance decimal.Decimal `json:"tolerance"`

	// MaxNetIncomeToRevenueRatio bounds |net income / revenue| on income
	// statements. Beyond it the figures indicate a merge or extraction
	// error rather than a real margin.
	MaxNetIncomeToRevenueRatio decimal.Decimal `json:"max_net_income_to_revenue_ratio"`
}

// DefaultConfig returns the documented defaults: tolerance of 1.0 currency
// unit, margin bound of 100%.
func DefaultConfig() *Config {
	return &Config{
		Tolerance:                  decimal.NewFromInt(1),
		MaxNetIncomeToRevenueRatio: decimal.NewFromInt(1),
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Tolerance.IsNegative() {
		return fmt.Errorf("tolerance must be non-negative, got %s", c.Tolerance)
	}
	if c.MaxNetIncomeToRevenueRatio.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("net-income-to-revenue bound must be positive, got %s", c.MaxNetIncomeToRevenueRatio)
	}
	return nil
}

// Validator runs accounting checks. It is a pure function over immutable
// inputs and safe for concurrent use.
type Validator struct {
	Config *Config
}

// NewValidator creates a validator with the given configuration, falling
// back to defaults when nil.
func NewValidator(config *Config) *Validator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Validator{Config: config}
}

// Line-item name patterns used to locate the figures each check needs.
// Grounded in the conventions of published US filings.
var (
	totalAssetsPattern      = regexp.MustCompile(`(?i)^total\s+assets$`)
	totalLiabilitiesPattern = regexp.MustCompile(`(?i)^total\s+liabilities$`)
	totalEquityPattern      = regexp.MustCompile(`(?i)^total\s+(stockholders'?|shareholders'?)?\s*equity$`)

	beginningCashPattern = regexp.MustCompile(`(?i)cash(\s+and\s+cash\s+equivalents)?([,\s]+|\s+at\s+)beginning\s+of\s+(year|period)`)
	endingCashPattern    = regexp.MustCompile(`(?i)cash(\s+and\s+cash\s+equivalents)?([,\s]+|\s+at\s+)end\s+of\s+(year|period)`)
	netChangePattern     = regexp.MustCompile(`(?i)^net\s+(increase|decrease|change)(\s*\(decrease\))?\s+in\s+cash`)

	netIncomePattern = regexp.MustCompile(`(?i)^net\s+(income|loss|earnings)`)
	revenuePattern   = regexp.MustCompile(`(?i)^(total\s+)?(net\s+)?(revenues?|sales)$`)
)

// Validate runs the checks for the statement's type and returns one result
// per check per period. Statement types without defined checks return a
// single info-level pass.
func (v *Validator) Validate(stmt *models.ConsolidatedStatement) []models.ValidationResult {
	switch stmt.StatementType {
	case models.StatementBalanceSheet:
		return v.validateBalanceSheet(stmt)
	case models.StatementCashFlow:
		return v.validateCashFlow(stmt)
	case models.StatementIncome:
		return v.validateIncomeStatement(stmt)
	default:
		return []models.ValidationResult{{
			Check:    "none_defined",
			Passed:   true,
			Severity: models.SeverityInfo,
			Message:  fmt.Sprintf("no arithmetic check defined for %s statements", stmt.StatementType),
		}}
	}
}

// validateBalanceSheet checks Total assets = Total liabilities + Total
// equity for every period, within tolerance.
func (v *Validator) validateBalanceSheet(stmt *models.ConsolidatedStatement) []models.ValidationResult {
	const check = "balance_sheet_equation"

	assets := findEntry(stmt, totalAssetsPattern)
	liabilities := findEntry(stmt, totalLiabilitiesPattern)
	equity := findEntry(stmt, totalEquityPattern)

	if assets == nil || liabilities == nil || equity == nil {
		return []models.ValidationResult{{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: missing " + missingTotals(assets, liabilities, equity),
		}}
	}

	var results []models.ValidationResult
	for _, period := range stmt.Periods {
		a, okA := entryValue(assets, period)
		l, okL := entryValue(liabilities, period)
		e, okE := entryValue(equity, period)
		if !okA || !okL || !okE {
			continue // period not covered by all three totals
		}

		sum := l.Add(e)
		diff := a.Sub(sum).Abs()
		if diff.LessThanOrEqual(v.Config.Tolerance) {
			results = append(results, models.ValidationResult{
				Check:    check,
				Period:   period,
				Passed:   true,
				Severity: models.SeverityInfo,
				Message:  fmt.Sprintf("assets %s = liabilities %s + equity %s", a, l, e),
			})
			continue
		}
		results = append(results, models.ValidationResult{
			Check:    check,
			Period:   period,
			Passed:   false,
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("assets %s != liabilities %s + equity %s (diff %s exceeds tolerance %s)",
				a, l, e, diff, v.Config.Tolerance),
		})
	}

	if len(results) == 0 {
		results = append(results, models.ValidationResult{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: no period is covered by all three total lines",
		})
	}
	return results
}

// validateCashFlow checks beginning cash + net change = ending cash for
// every period, within tolerance.
func (v *Validator) validateCashFlow(stmt *models.ConsolidatedStatement) []models.ValidationResult {
	const check = "cash_flow_continuity"

	beginning := findEntry(stmt, beginningCashPattern)
	ending := findEntry(stmt, endingCashPattern)
	change := findEntry(stmt, netChangePattern)

	if beginning == nil || ending == nil || change == nil {
		return []models.ValidationResult{{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: beginning cash, ending cash, or net change line not found",
		}}
	}

	var results []models.ValidationResult
	for _, period := range stmt.Periods {
		b, okB := entryValue(beginning, period)
		e, okE := entryValue(ending, period)
		c, okC := entryValue(change, period)
		if !okB || !okE || !okC {
			continue
		}

		expected := b.Add(c)
		diff := e.Sub(expected).Abs()
		if diff.LessThanOrEqual(v.Config.Tolerance) {
			results = append(results, models.ValidationResult{
				Check:    check,
				Period:   period,
				Passed:   true,
				Severity: models.SeverityInfo,
				Message:  fmt.Sprintf("beginning %s + change %s = ending %s", b, c, e),
			})
			continue
		}
		results = append(results, models.ValidationResult{
			Check:    check,
			Period:   period,
			Passed:   false,
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("beginning %s + change %s != ending %s (diff %s exceeds tolerance %s)",
				b, c, e, diff, v.Config.Tolerance),
		})
	}

	if len(results) == 0 {
		results = append(results, models.ValidationResult{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: no period is covered by all three cash lines",
		})
	}
	return results
}

// validateIncomeStatement bounds the net-income-to-revenue ratio per
// period. A magnitude beyond the bound indicates a merge or extraction
// error, not a real margin.
func (v *Validator) validateIncomeStatement(stmt *models.ConsolidatedStatement) []models.ValidationResult {
	const check = "net_income_to_revenue_ratio"

	netIncome := findEntry(stmt, netIncomePattern)
	revenue := findEntry(stmt, revenuePattern)

	if netIncome == nil || revenue == nil {
		return []models.ValidationResult{{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: net income or revenue line not found",
		}}
	}

	var results []models.ValidationResult
	for _, period := range stmt.Periods {
		ni, okN := entryValue(netIncome, period)
		rev, okR := entryValue(revenue, period)
		if !okN || !okR || rev.IsZero() {
			continue
		}

		ratio := ni.Div(rev).Abs()
		if ratio.LessThanOrEqual(v.Config.MaxNetIncomeToRevenueRatio) {
			results = append(results, models.ValidationResult{
				Check:    check,
				Period:   period,
				Passed:   true,
				Severity: models.SeverityInfo,
				Message:  fmt.Sprintf("net income %s over revenue %s (ratio %s)", ni, rev, ratio.StringFixed(2)),
			})
			continue
		}
		results = append(results, models.ValidationResult{
			Check:    check,
			Period:   period,
			Passed:   false,
			Severity: models.SeverityCritical,
			Message: fmt.Sprintf("net income %s over revenue %s: magnitude %s exceeds bound %s",
				ni, rev, ratio.StringFixed(2), v.Config.MaxNetIncomeToRevenueRatio),
		})
	}

	if len(results) == 0 {
		results = append(results, models.ValidationResult{
			Check:    check,
			Passed:   false,
			Severity: models.SeverityWarning,
			Message:  "check skipped: no period carries both net income and revenue",
		})
	}
	return results
}

// findEntry returns the first entry whose canonical name matches the
// pattern, or nil.
func findEntry(stmt *models.ConsolidatedStatement, pattern *regexp.Regexp) *models.ConsolidatedEntry {
	for _, entry := range stmt.Entries {
		if pattern.MatchString(entry.CanonicalName) {
			return entry
		}
	}
	return nil
}

// entryValue parses the entry's value for the period, if present and
// numeric.
func entryValue(entry *models.ConsolidatedEntry, period string) (decimal.Decimal, bool) {
	raw, ok := entry.Values[period]
	if !ok {
		return decimal.Zero, false
	}
	d, err := models.ParseMonetaryValue(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func missingTotals(assets, liabilities, equity *models.ConsolidatedEntry) string {
	missing := ""
	appendName := func(name string) {
		if missing != "" {
			missing += ", "
		}
		missing += name
	}
	if assets == nil {
		appendName("total assets")
	}
	if liabilities == nil {
		appendName("total liabilities")
	}
	if equity == nil {
		appendName("total equity")
	}
	return missing + " line item(s)"
}

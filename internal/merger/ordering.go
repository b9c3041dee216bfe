package merger

import (
	"sort"

	"statement-consolidation-service/internal/models"
)

// Source order is part of the merge contract, not an implementation detail:
// first-writer-wins makes the result order-dependent, so the order is
// pinned here. Extracts fold earliest-period-start first; extracts whose
// earliest periods tie keep their ingestion order.

// OrderExtracts returns the extracts in the pinned fold order. The input
// slice is not modified.
func OrderExtracts(extracts []*models.StatementExtract) []*models.StatementExtract {
	ordered := make([]*models.StatementExtract, len(extracts))
	copy(ordered, extracts)

	sort.SliceStable(ordered, func(i, j int) bool {
		a := models.EarliestPeriod(ordered[i].Periods)
		b := models.EarliestPeriod(ordered[j].Periods)
		return models.PeriodBefore(a, b)
	})
	return ordered
}

// Package merger folds per-document statement extracts into one
// consolidated multi-period statement per statement type.
//
// The fold is deterministic and order-dependent by contract: sources are
// processed earliest-period-first (ingestion order breaks ties), each
// source's line items first to last, and a period value, once written, is
// never overwritten. A second source supplying a value for an
// already-written identity+period is recorded as a period conflict for
// manual resolution. The engine itself never fails a job; it only emits
// conflicts and warnings into the validation report. Escalation is the
// quality gate's responsibility. Only malformed input is rejected with a
// hard error, before any fold begins.
package merger

import (
	"fmt"

	"statement-consolidation-service/internal/matcher"
	"statement-consolidation-service/internal/models"
	"statement-consolidation-service/pkg/errors"
	"statement-consolidation-service/pkg/logger"
)

// Engine folds statement extracts into a consolidated statement.
type Engine struct {
	scorer *matcher.Scorer
	log    logger.Logger
}

// NewEngine creates a merge engine with the given scoring configuration,
// falling back to defaults when nil.
func NewEngine(config *matcher.ScoringConfig) *Engine {
	return &Engine{
		scorer: matcher.NewScorer(config),
		log:    logger.GetGlobalLogger().WithComponent("merge_engine"),
	}
}

// Accumulator is the mutable state of one in-progress consolidation. It is
// owned by a single fold sequence and must not be shared across goroutines.
type Accumulator struct {
	statementType models.StatementType
	periods       []string
	entries       []*models.ConsolidatedEntry
	byKey         map[string]*models.ConsolidatedEntry
	report        *models.ValidationReport
	finalized     bool
}

// NewAccumulator creates an empty accumulator for one statement type.
func NewAccumulator(statementType models.StatementType) *Accumulator {
	return &Accumulator{
		statementType: statementType,
		byKey:         make(map[string]*models.ConsolidatedEntry),
		report:        models.NewValidationReport(),
	}
}

// Report exposes the report being accumulated, for inspection mid-fold.
func (a *Accumulator) Report() *models.ValidationReport {
	return a.report
}

// Consolidate folds the given extracts into one consolidated statement.
// Extracts are reordered into the pinned fold order (earliest period start
// first, ingestion order as tiebreak) before folding. All extracts are
// checked up front; a malformed extract rejects the whole job before any
// fold begins.
func (e *Engine) Consolidate(statementType models.StatementType, extracts []*models.StatementExtract) (*models.ConsolidatedStatement, error) {
	for _, extract := range extracts {
		if err := e.checkExtract(statementType, extract); err != nil {
			return nil, err
		}
	}

	ordered := OrderExtracts(extracts)
	acc := NewAccumulator(statementType)
	for _, extract := range ordered {
		if err := e.Fold(acc, extract); err != nil {
			return nil, err
		}
	}
	return acc.Finalize(), nil
}

// Fold merges one extract into the accumulator. The extract is validated at
// the boundary; a malformed extract is rejected before any of its items are
// processed. Items are folded first to last, and already-placed entries are
// never revisited or re-scored.
func (e *Engine) Fold(acc *Accumulator, extract *models.StatementExtract) error {
	if acc.finalized {
		return errors.ConsolidationError(errors.CodeProcessingError,
			"cannot fold into a finalized consolidated statement", nil)
	}
	if err := e.checkExtract(acc.statementType, extract); err != nil {
		return err
	}
	if err := acc.checkInvariants(); err != nil {
		return err
	}

	log := e.log.WithFields(logger.Fields{
		"source_id":      extract.SourceID,
		"statement_type": extract.StatementType,
	})
	log.Debugf("folding %d line items across %d periods", len(extract.LineItems), len(extract.Periods))

	acc.periods = models.MergePeriods(acc.periods, extract.Periods)

	for i := range extract.LineItems {
		item := &extract.LineItems[i]
		if item.IsHeader || !item.HasValues() {
			continue
		}
		e.foldItem(acc, extract, item)
	}
	return nil
}

// Finalize seals the accumulator and returns the consolidated statement.
// Further folds are rejected.
func (a *Accumulator) Finalize() *models.ConsolidatedStatement {
	a.finalized = true
	return &models.ConsolidatedStatement{
		StatementType: a.statementType,
		Periods:       a.periods,
		Entries:       a.entries,
		Report:        a.report,
	}
}

// foldItem places one line item: exact identity-key hit, scored fuzzy
// match, or a brand-new entry.
func (e *Engine) foldItem(acc *Accumulator, extract *models.StatementExtract, item *models.LineItem) {
	key := matcher.ItemIdentityKey(item)

	// Exact key hits bypass scoring: the key already encodes name, section,
	// and depth bucket.
	if entry, ok := acc.byKey[key]; ok {
		e.mergeValues(acc, extract, item, entry)
		acc.report.AddMerge(models.MergeRecord{
			SourceID:    extract.SourceID,
			AccountName: item.AccountName,
			IdentityKey: entry.IdentityKey,
			Confidence:  1.0,
			Breakdown:   exactKeyBreakdown(e.scorer.Config),
			ExactKey:    true,
		})
		return
	}

	if entry, score, ok := e.bestCandidate(acc, item); ok {
		e.mergeValues(acc, extract, item, entry)
		acc.report.AddMerge(models.MergeRecord{
			SourceID:    extract.SourceID,
			AccountName: item.AccountName,
			IdentityKey: entry.IdentityKey,
			Confidence:  score.Confidence,
			Breakdown:   score.Breakdown,
			WarningBand: score.Confidence < e.scorer.Config.AutoMergeThreshold,
		})
		if score.Confidence < e.scorer.Config.AutoMergeThreshold {
			e.log.Warnf("merged %q into %q at confidence %.2f (below auto-merge threshold)",
				item.AccountName, entry.CanonicalName, score.Confidence)
		}
		return
	}

	acc.addEntry(extract, item, key)
}

// bestCandidate scores the item against every section-compatible entry and
// returns the highest-scoring one at or above the no-match floor.
func (e *Engine) bestCandidate(acc *Accumulator, item *models.LineItem) (*models.ConsolidatedEntry, matcher.MatchScore, bool) {
	var best *models.ConsolidatedEntry
	var bestScore matcher.MatchScore

	for _, entry := range acc.entries {
		if !matcher.SectionsCompatible(item.Section, entry.Section) {
			continue
		}
		score := e.scorer.Score(item, entry)
		if score.Disqualified {
			e.log.Debugf("disqualified %q vs %q: %s", item.AccountName, entry.CanonicalName, score.Reason)
			continue
		}
		if score.Confidence > bestScore.Confidence {
			best = entry
			bestScore = score
		}
	}

	if best == nil || bestScore.Confidence < e.scorer.Config.NoMatchFloor {
		return nil, matcher.MatchScore{}, false
	}
	return best, bestScore, true
}

// mergeValues writes the item's period values into the entry under
// first-writer-wins. Second writes become period conflicts, never
// overwrites.
func (e *Engine) mergeValues(acc *Accumulator, extract *models.StatementExtract, item *models.LineItem, entry *models.ConsolidatedEntry) {
	for _, period := range extract.Periods {
		value, ok := item.Values[period]
		if !ok {
			continue
		}
		if !entry.HasValue(period) {
			entry.Values[period] = value
			entry.Provenance[period] = extract.SourceID
			continue
		}
		acc.report.AddConflict(models.PeriodConflict{
			IdentityKey:    entry.IdentityKey,
			AccountName:    entry.CanonicalName,
			Period:         period,
			ExistingValue:  entry.Values[period],
			ExistingSource: entry.Provenance[period],
			IncomingValue:  value,
			IncomingSource: extract.SourceID,
		})
	}
}

// addEntry creates a new consolidated entry seeded from the line item.
func (a *Accumulator) addEntry(extract *models.StatementExtract, item *models.LineItem, key string) {
	entry := &models.ConsolidatedEntry{
		IdentityKey:   key,
		CanonicalName: item.AccountName,
		Section:       item.Section,
		Depth:         item.Depth,
		Values:        make(map[string]string, len(item.Values)),
		Provenance:    make(map[string]string, len(item.Values)),
	}
	for _, period := range extract.Periods {
		if value, ok := item.Values[period]; ok {
			entry.Values[period] = value
			entry.Provenance[period] = extract.SourceID
		}
	}
	a.entries = append(a.entries, entry)
	a.byKey[key] = entry
}

// checkExtract enforces the merge boundary preconditions.
func (e *Engine) checkExtract(statementType models.StatementType, extract *models.StatementExtract) error {
	if extract == nil {
		return errors.ValidationError(errors.CodeMalformedExtract,
			"statement extract is nil", nil)
	}
	if err := extract.Validate(); err != nil {
		return errors.ValidationError(errors.CodeMalformedExtract,
			"malformed statement extract", err).
			WithContext("source_id", extract.SourceID)
	}
	if extract.StatementType != statementType {
		return errors.ConsolidationError(errors.CodeTypeMismatch,
			fmt.Sprintf("extract %s has statement type %s, consolidation expects %s",
				extract.SourceID, extract.StatementType, statementType), nil)
	}
	return nil
}

// checkInvariants verifies the accumulator's identity keys are still
// unique. Duplicate keys in pre-existing state mean the accumulator was
// tampered with; folding into it would corrupt provenance.
func (a *Accumulator) checkInvariants() error {
	seen := make(map[string]bool, len(a.entries))
	for _, entry := range a.entries {
		if seen[entry.IdentityKey] {
			return errors.ValidationError(errors.CodeDuplicateKey,
				fmt.Sprintf("duplicate identity key %q in consolidated state", entry.IdentityKey), nil)
		}
		seen[entry.IdentityKey] = true
	}
	return nil
}

// exactKeyBreakdown reports full weight on every factor for exact-key hits.
func exactKeyBreakdown(config *matcher.ScoringConfig) models.FactorBreakdown {
	return models.FactorBreakdown{
		NameSimilarity: config.Weights.NameWeight,
		Section:        config.Weights.SectionWeight,
		Depth:          config.Weights.DepthWeight,
		ValueOverlap:   config.Weights.ValueWeight,
	}
}

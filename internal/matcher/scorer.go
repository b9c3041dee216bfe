package matcher

import (
	"statement-consolidation-service/internal/models"
)

// Scorer computes weighted match confidence between a candidate line item
// and an existing consolidated entry. Scoring is pure: it reads immutable
// inputs, has no side effects, and is safe to call concurrently.
type Scorer struct {
	Config *ScoringConfig
}

// MatchScore is the outcome of scoring one candidate pair. The breakdown is
// always populated, including for disqualified pairs, so diagnostics can
// show why a pair was rejected.
type MatchScore struct {
	Confidence   float64
	Breakdown    models.FactorBreakdown
	Disqualified bool
	Reason       string
}

// NewScorer creates a scorer with the given configuration, falling back to
// defaults when nil.
func NewScorer(config *ScoringConfig) *Scorer {
	if config == nil {
		config = DefaultScoringConfig()
	}
	return &Scorer{Config: config}
}

// SectionsCompatible reports whether two sections may belong to the same
// account: equal sections always; an Unclassified side is compatible with
// anything at reduced confidence; two different classified sections never.
func SectionsCompatible(a, b models.Section) bool {
	if a == b {
		return true
	}
	return a == models.SectionUnclassified || b == models.SectionUnclassified
}

// Score computes the confidence that item and entry denote the same
// account. Disqualifying conditions (cross-section pair, name similarity
// below the floor) force the total below any merge threshold regardless of
// the remaining factors.
func (s *Scorer) Score(item *models.LineItem, entry *models.ConsolidatedEntry) MatchScore {
	weights := s.Config.Weights
	score := MatchScore{}

	// Section compatibility is checked first: a cross-section pair is not a
	// weak match, it is a different account.
	if !SectionsCompatible(item.Section, entry.Section) {
		score.Disqualified = true
		score.Reason = "section mismatch: " + item.Section.String() + " vs " + entry.Section.String()
		return score
	}

	similarity := NameSimilarity(item.AccountName, entry.CanonicalName)
	if similarity < s.Config.NameSimilarityFloor {
		score.Disqualified = true
		score.Reason = "name similarity below floor"
		return score
	}
	score.Breakdown.NameSimilarity = similarity * weights.NameWeight

	if item.Section == entry.Section && item.Section != models.SectionUnclassified {
		score.Breakdown.Section = weights.SectionWeight
	} else {
		// An Unclassified side cannot confirm the match; such pairs are
		// plausible on name alone but never reach full confidence.
		score.Breakdown.Section = weights.SectionWeight * 0.5
	}

	score.Breakdown.Depth = s.depthScore(item.Depth, entry.Depth) * weights.DepthWeight
	score.Breakdown.ValueOverlap = s.valueOverlapScore(item, entry) * weights.ValueWeight

	score.Confidence = score.Breakdown.NameSimilarity +
		score.Breakdown.Section +
		score.Breakdown.Depth +
		score.Breakdown.ValueOverlap
	return score
}

// depthScore decays linearly with the depth difference.
func (s *Scorer) depthScore(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	score := 1.0 - float64(diff)*s.Config.DepthDecayPerLevel
	if score < 0 {
		return 0
	}
	return score
}

// valueOverlapScore compares normalized numeric values for periods present
// on both sides and returns the agreement fraction. With no overlapping
// periods the factor is neutral at 0.5: the values can neither confirm nor
// deny the match.
func (s *Scorer) valueOverlapScore(item *models.LineItem, entry *models.ConsolidatedEntry) float64 {
	overlap := 0
	agreed := 0
	for period, itemValue := range item.Values {
		entryValue, ok := entry.Values[period]
		if !ok {
			continue
		}
		overlap++
		if models.ValuesAgree(itemValue, entryValue) {
			agreed++
		}
	}
	if overlap == 0 {
		return 0.5
	}
	return float64(agreed) / float64(overlap)
}

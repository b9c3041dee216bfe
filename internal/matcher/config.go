// Package matcher provides account-identity resolution for statement
// consolidation: identity keys, fuzzy name similarity, and the weighted
// confidence scorer that decides whether a line item and a consolidated
// entry denote the same account.
//
// The scorer is deliberately section-aware. The same account name can denote
// two economically distinct accounts depending on the statement section it
// appears in ("Deferred income taxes" exists as both an asset and a
// liability), so two classified items in different sections are disqualified
// outright regardless of how similar their names are. Name-only matching is
// reserved for items whose section could not be determined, and only at
// reduced confidence.
//
// Example usage:
//
//	scorer := matcher.NewScorer(matcher.DefaultScoringConfig())
//	score := scorer.Score(item, entry)
//	if score.Confidence >= scorer.Config.AutoMergeThreshold {
//		// safe to merge without review
//	}
package matcher

import "fmt"

// ScoringWeights defines the relative importance of each match factor.
// Weights must sum to 1.0.
type ScoringWeights struct {
	NameWeight    float64 `json:"name_weight"`
	SectionWeight float64 `json:"section_weight"`
	DepthWeight   float64 `json:"depth_weight"`
	ValueWeight   float64 `json:"value_weight"`
}

// ScoringConfig holds the tunable parameters of the confidence scorer and
// the merge thresholds derived from its output.
type ScoringConfig struct {
	// Weights are the per-factor contributions to the total confidence
	Weights ScoringWeights `json:"weights"`

	// NameSimilarityFloor disqualifies a pair outright when the fuzzy name
	// similarity falls below it, regardless of the other factors
	NameSimilarityFloor float64 `json:"name_similarity_floor"`

	// AutoMergeThreshold is the confidence at or above which a merge needs
	// no review
	AutoMergeThreshold float64 `json:"auto_merge_threshold"`

	// NoMatchFloor is the confidence below which a candidate is treated as
	// no match and a new entry is created. Merges between NoMatchFloor and
	// AutoMergeThreshold are performed but flagged as warnings.
	NoMatchFloor float64 `json:"no_match_floor"`

	// DepthDecayPerLevel is the score lost per level of depth difference
	DepthDecayPerLevel float64 `json:"depth_decay_per_level"`
}

// DefaultScoringConfig returns the documented default configuration:
// name 0.40 (floor 0.85), section 0.30, depth 0.10, value overlap 0.20,
// auto-merge at 0.90, no-match floor at 0.70.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Weights: ScoringWeights{
			NameWeight:    0.40,
			SectionWeight: 0.30,
			DepthWeight:   0.10,
			ValueWeight:   0.20,
		},
		NameSimilarityFloor: 0.85,
		AutoMergeThreshold:  0.90,
		NoMatchFloor:        0.70,
		DepthDecayPerLevel:  0.2,
	}
}

// StrictScoringConfig returns a configuration that only auto-merges
// near-exact pairs and refuses fuzzy merges entirely.
func StrictScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Weights: ScoringWeights{
			NameWeight:    0.40,
			SectionWeight: 0.30,
			DepthWeight:   0.10,
			ValueWeight:   0.20,
		},
		NameSimilarityFloor: 0.95,
		AutoMergeThreshold:  0.95,
		NoMatchFloor:        0.90,
		DepthDecayPerLevel:  0.4,
	}
}

// RelaxedScoringConfig returns a configuration for exploratory consolidation
// of noisy extractions. Cross-section disqualification still applies; only
// the floors move.
func RelaxedScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Weights: ScoringWeights{
			NameWeight:    0.40,
			SectionWeight: 0.30,
			DepthWeight:   0.10,
			ValueWeight:   0.20,
		},
		NameSimilarityFloor: 0.75,
		AutoMergeThreshold:  0.85,
		NoMatchFloor:        0.60,
		DepthDecayPerLevel:  0.1,
	}
}

// Validate checks the configuration for internal consistency.
func (c *ScoringConfig) Validate() error {
	sum := c.Weights.NameWeight + c.Weights.SectionWeight + c.Weights.DepthWeight + c.Weights.ValueWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", sum)
	}
	for name, w := range map[string]float64{
		"name":    c.Weights.NameWeight,
		"section": c.Weights.SectionWeight,
		"depth":   c.Weights.DepthWeight,
		"value":   c.Weights.ValueWeight,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("%s weight must be in [0.0, 1.0], got %.3f", name, w)
		}
	}
	if c.NameSimilarityFloor < 0 || c.NameSimilarityFloor > 1 {
		return fmt.Errorf("name similarity floor must be in [0.0, 1.0], got %.3f", c.NameSimilarityFloor)
	}
	if c.AutoMergeThreshold < 0 || c.AutoMergeThreshold > 1 {
		return fmt.Errorf("auto-merge threshold must be in [0.0, 1.0], got %.3f", c.AutoMergeThreshold)
	}
	if c.NoMatchFloor < 0 || c.NoMatchFloor > 1 {
		return fmt.Errorf("no-match floor must be in [0.0, 1.0], got %.3f", c.NoMatchFloor)
	}
	if c.NoMatchFloor > c.AutoMergeThreshold {
		return fmt.Errorf("no-match floor %.2f must not exceed auto-merge threshold %.2f",
			c.NoMatchFloor, c.AutoMergeThreshold)
	}
	if c.DepthDecayPerLevel < 0 {
		return fmt.Errorf("depth decay must be non-negative, got %.3f", c.DepthDecayPerLevel)
	}
	return nil
}

// Clone returns a copy of the configuration
func (c *ScoringConfig) Clone() *ScoringConfig {
	clone := *c
	return &clone
}

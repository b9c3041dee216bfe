// Package config builds engine configurations from CLI options.
package config

import (
	"github.com/shopspring/decimal"

	"statement-consolidation-service/internal/consolidator"
	"statement-consolidation-service/internal/matcher"
	"statement-consolidation-service/internal/validator"
	"statement-consolidation-service/pkg/errors"
)

// Options are the user-tunable consolidation parameters exposed by the CLI.
type Options struct {
	AutoMergeThreshold float64
	NoMatchFloor       float64
	Tolerance          float64
	Strict             bool
}

// BuildServiceConfig assembles and validates a service configuration from
// CLI options. The strict profile takes precedence over individual
// threshold flags.
func BuildServiceConfig(opts Options) (*consolidator.Config, error) {
	scoring := matcher.DefaultScoringConfig()
	if opts.Strict {
		scoring = matcher.StrictScoringConfig()
	} else {
		scoring.AutoMergeThreshold = opts.AutoMergeThreshold
		scoring.NoMatchFloor = opts.NoMatchFloor
	}

	if opts.Tolerance < 0 {
		return nil, errors.ConfigError("tolerance must be non-negative", nil)
	}
	validation := validator.DefaultConfig()
	validation.Tolerance = decimal.NewFromFloat(opts.Tolerance)

	cfg := &consolidator.Config{
		Scoring:    scoring,
		Validation: validation,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

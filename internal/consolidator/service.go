// Package consolidator orchestrates complete consolidation jobs.
//
// A job takes every statement extract produced for a filing set, groups the
// extracts by statement type, and runs one consolidation per type: section
// classification, the merge fold, accounting validation, and the quality
// gate. Statement types share no mutable state, so their consolidations run
// as parallel tasks; within one type the fold is strictly sequential, since
// the first-writer-wins rule depends on deterministic processing order.
//
// Example usage:
//
//	service := consolidator.NewService(nil)
//	result, err := service.Run(ctx, &consolidator.JobRequest{Extracts: extracts})
//	if err != nil {
//		// malformed input; nothing was consolidated
//	}
//	if result.Verdict == gate.VerdictSuccess {
//		// publishable without review
//	}
package consolidator

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"statement-consolidation-service/internal/classifier"
	"statement-consolidation-service/internal/gate"
	"statement-consolidation-service/internal/matcher"
	"statement-consolidation-service/internal/merger"
	"statement-consolidation-service/internal/models"
	"statement-consolidation-service/internal/validator"
	"statement-consolidation-service/pkg/errors"
	"statement-consolidation-service/pkg/logger"
)

// Config holds the engine configuration for a consolidation service.
type Config struct {
	Scoring    *matcher.ScoringConfig
	Validation *validator.Config

	// MaxParallelStatements bounds how many statement types consolidate
	// concurrently. Zero means no bound beyond the number of types.
	MaxParallelStatements int
}

// DefaultConfig returns a configuration with documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring:    matcher.DefaultScoringConfig(),
		Validation: validator.DefaultConfig(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return errors.ConfigError("invalid scoring configuration", err)
	}
	if err := c.Validation.Validate(); err != nil {
		return errors.ConfigError("invalid validation configuration", err)
	}
	if c.MaxParallelStatements < 0 {
		return errors.ConfigError("max parallel statements must be non-negative", nil)
	}
	return nil
}

// Service runs consolidation jobs.
type Service struct {
	config *Config
	log    logger.Logger
}

// NewService creates a consolidation service, falling back to defaults when
// config is nil.
func NewService(config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		config: config,
		log:    logger.GetGlobalLogger().WithComponent("consolidation_service"),
	}
}

// JobRequest is one consolidation job: every extract produced for a filing
// set, any mix of statement types, in ingestion order.
type JobRequest struct {
	Extracts []*models.StatementExtract
}

// StatementOutcome is the per-statement-type result of a job.
type StatementOutcome struct {
	Statement *models.ConsolidatedStatement `json:"statement"`
	Status    gate.JobStatus                `json:"status"`
	Verdict   gate.Verdict                  `json:"verdict"`
}

// JobResult is the complete outcome of one consolidation job. The job-level
// verdict is the worst per-statement verdict; the orchestrator uses it to
// decide whether results publish automatically or hold for review.
type JobResult struct {
	JobID      string                                      `json:"job_id"`
	Statements map[models.StatementType]*StatementOutcome  `json:"statements"`
	Verdict    gate.Verdict                                `json:"verdict"`
}

// Run executes a consolidation job. All extracts are checked up front; any
// malformed extract rejects the whole job before consolidation begins.
// Statement types consolidate in parallel. The returned error is non-nil
// only for malformed input or configuration; data-quality problems surface
// through the verdict and validation reports instead.
func (s *Service) Run(ctx context.Context, req *JobRequest) (*JobResult, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if req == nil || len(req.Extracts) == 0 {
		return nil, errors.ValidationError(errors.CodeMalformedExtract,
			"consolidation job has no statement extracts", nil)
	}
	for _, extract := range req.Extracts {
		if extract == nil {
			return nil, errors.ValidationError(errors.CodeMalformedExtract,
				"consolidation job contains a nil extract", nil)
		}
		if err := extract.Validate(); err != nil {
			return nil, errors.ValidationError(errors.CodeMalformedExtract,
				"malformed statement extract", err).
				WithContext("source_id", extract.SourceID)
		}
	}

	jobID := uuid.NewString()
	log := s.log.WithField("job_id", jobID)

	grouped := groupByType(req.Extracts)
	log.Infof("consolidating %d extracts across %d statement types", len(req.Extracts), len(grouped))

	result := &JobResult{
		JobID:      jobID,
		Statements: make(map[models.StatementType]*StatementOutcome, len(grouped)),
	}

	// Statement types are independent; consolidate them as parallel tasks.
	// Each task writes only its own pre-allocated outcome slot.
	group, ctx := errgroup.WithContext(ctx)
	if s.config.MaxParallelStatements > 0 {
		group.SetLimit(s.config.MaxParallelStatements)
	}
	for _, statementType := range sortedTypes(grouped) {
		statementType := statementType
		outcome := &StatementOutcome{Status: gate.StatusPending}
		result.Statements[statementType] = outcome

		extracts := grouped[statementType]
		group.Go(func() error {
			return s.consolidateType(ctx, statementType, extracts, outcome)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result.Verdict = gate.VerdictSuccess
	for _, outcome := range result.Statements {
		result.Verdict = gate.Worst(result.Verdict, outcome.Verdict)
	}
	log.Infof("job verdict: %s", result.Verdict)
	return result, nil
}

// consolidateType runs the full pipeline for one statement type. The fold
// itself is never interrupted mid-source; cancellation is honored between
// pipeline stages only.
func (s *Service) consolidateType(ctx context.Context, statementType models.StatementType, extracts []*models.StatementExtract, outcome *StatementOutcome) error {
	log := s.log.WithField("statement_type", statementType)

	if err := ctx.Err(); err != nil {
		return err
	}

	outcome.Status = gate.StatusMerging
	classified := make([]*models.StatementExtract, len(extracts))
	for i, extract := range extracts {
		classified[i] = classifier.ClassifyExtract(extract)
	}

	engine := merger.NewEngine(s.config.Scoring)
	stmt, err := engine.Consolidate(statementType, classified)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	outcome.Status = gate.StatusValidating
	results := validator.NewValidator(s.config.Validation).Validate(stmt)
	for _, r := range results {
		stmt.Report.AddResult(r)
	}

	outcome.Statement = stmt
	outcome.Verdict = gate.Evaluate(stmt.Report)
	outcome.Status = outcome.Verdict.Status()
	log.Infof("consolidated %d entries over %d periods: %s",
		len(stmt.Entries), len(stmt.Periods), outcome.Verdict)
	return nil
}

// groupByType partitions extracts by statement type, preserving ingestion
// order within each group.
func groupByType(extracts []*models.StatementExtract) map[models.StatementType][]*models.StatementExtract {
	grouped := make(map[models.StatementType][]*models.StatementExtract)
	for _, extract := range extracts {
		grouped[extract.StatementType] = append(grouped[extract.StatementType], extract)
	}
	return grouped
}

// sortedTypes returns the map keys in a fixed order so task scheduling is
// deterministic.
func sortedTypes(grouped map[models.StatementType][]*models.StatementExtract) []models.StatementType {
	types := make([]models.StatementType, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// internal/pipeline/router/router.go
// Package router orchestrates the resolution tiers: template catalog first,
// temporal enrichment when the question calls for it, then LLM generation
// with structural validation. Every outcome, including failure, is
// normalized into the same result envelope with per-stage timings.
package router

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	stderrors "finquery/internal/common/errors"
	"finquery/internal/common/logger"
	"finquery/internal/common/metrics"
	"finquery/internal/common/observability"
	"finquery/internal/llm"
	"finquery/internal/models"
	"finquery/internal/pipeline/generator"
)

// Matcher is the template catalog contract.
type Matcher interface {
	Match(question string) (*models.SQLCandidate, bool)
}

// ContextProvider is the temporal enrichment contract.
type ContextProvider interface {
	NeedsMetadata(question string) bool
	FetchMetadata(ctx context.Context) (*models.TemporalMetadata, error)
}

// SQLGenerator is the LLM generation contract.
type SQLGenerator interface {
	Generate(ctx context.Context, question string, meta *models.TemporalMetadata, conversation []models.ConversationTurn) (*models.SQLCandidate, error)
}

// PreValidator runs structural checks on generated SQL.
type PreValidator interface {
	ValidateSQL(question, sql string) *models.Verdict
}

// Resolver routes a question through the tiers and produces one result
// envelope. It is stateless across calls and safe for concurrent use.
type Resolver struct {
	catalog   Matcher
	temporal  ContextProvider
	generator SQLGenerator
	validator PreValidator
	obs       *observability.Observability
	logger    logger.Logger
}

func NewResolver(catalog Matcher, temporal ContextProvider, gen SQLGenerator, validator PreValidator, obs *observability.Observability, log logger.Logger) *Resolver {
	return &Resolver{
		catalog:   catalog,
		temporal:  temporal,
		generator: gen,
		validator: validator,
		obs:       obs,
		logger:    log.With(map[string]interface{}{"component": "router"}),
	}
}

// Resolve turns a question into SQL. Template hits never reach the LLM;
// generated SQL always passes structural validation, whose findings ride
// along as warnings and never trigger a silent re-route.
func (r *Resolver) Resolve(ctx context.Context, question string, conversation []models.ConversationTurn) *models.ResolutionResult {
	requestID := uuid.New().String()
	log := r.logger.With(map[string]interface{}{"request_id": requestID})
	start := time.Now()

	result := &models.ResolutionResult{
		Method:  models.MethodNone,
		Timings: make(map[string]int64),
		Metadata: map[string]interface{}{
			"request_id": requestID,
		},
	}

	templateStart := time.Now()
	candidate, matched := r.catalog.Match(question)
	result.Timings["template_ms"] = time.Since(templateStart).Milliseconds()

	if matched {
		result.Success = true
		result.SQL = candidate.Text
		result.Method = models.MethodTemplate
		r.finish(ctx, log, result, start)
		return result
	}

	meta := r.enrich(ctx, log, question, result)

	generationStart := time.Now()
	candidate, err := r.generator.Generate(ctx, question, meta, conversation)
	result.Timings["generation_ms"] = time.Since(generationStart).Milliseconds()

	if err != nil {
		result.Success = false
		result.Error = describeGenerationError(err)
		log.Error("generation failed", map[string]interface{}{
			"error": err,
		})
		r.finish(ctx, log, result, start)
		return result
	}

	result.Success = true
	result.SQL = candidate.Text
	if meta != nil {
		result.Method = models.MethodChainOfThought
	} else {
		result.Method = models.MethodLLM
	}

	validationStart := time.Now()
	result.PreValidation = r.validator.ValidateSQL(question, candidate.Text)
	result.Timings["validation_ms"] = time.Since(validationStart).Milliseconds()

	r.finish(ctx, log, result, start)
	return result
}

// enrich fetches temporal metadata when the question needs it. A fetch
// failure degrades to plain generation rather than failing the question.
func (r *Resolver) enrich(ctx context.Context, log logger.Logger, question string, result *models.ResolutionResult) *models.TemporalMetadata {
	if !r.temporal.NeedsMetadata(question) {
		return nil
	}

	temporalStart := time.Now()
	meta, err := r.temporal.FetchMetadata(ctx)
	result.Timings["temporal_ms"] = time.Since(temporalStart).Milliseconds()

	if err != nil {
		log.Warn("temporal enrichment unavailable", map[string]interface{}{
			"error": err,
		})
		return nil
	}
	return meta
}

func (r *Resolver) finish(ctx context.Context, log logger.Logger, result *models.ResolutionResult, start time.Time) {
	result.Timings["total_ms"] = time.Since(start).Milliseconds()

	outcome := "success"
	if !result.Success {
		outcome = "error"
	}
	metrics.ResolutionsTotal.WithLabelValues(string(result.Method), outcome).Inc()
	for stage, ms := range result.Timings {
		metrics.StageDuration.WithLabelValues(stage).Observe(float64(ms) / 1000)
	}
	if r.obs != nil {
		r.obs.RecordResolution(ctx, string(result.Method))
		r.obs.RecordResolutionDuration(ctx, time.Since(start), string(result.Method))
	}

	log.Info("resolution finished", map[string]interface{}{
		"method":   string(result.Method),
		"outcome":  outcome,
		"total_ms": result.Timings["total_ms"],
	})
}

// describeGenerationError maps generation failures to the standard error
// taxonomy so callers see stable codes.
func describeGenerationError(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return stderrors.NewLLMTimeoutError().Message
	case errors.Is(err, llm.ErrUnavailable):
		return stderrors.NewLLMUnreachableError(err).Message
	case errors.Is(err, llm.ErrEmptyCompletion):
		return stderrors.NewEmptyCompletionError().Message
	case errors.Is(err, generator.ErrNoExtractableSQL):
		return stderrors.NewNoExtractableSQLError(err.Error()).Message
	default:
		return err.Error()
	}
}

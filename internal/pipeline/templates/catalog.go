// internal/pipeline/templates/catalog.go
// Package templates recognizes common, high-value question shapes and
// returns deterministic, audited SQL without invoking the completion
// service.
package templates

import (
	"time"

	"finquery/internal/common/logger"
	"finquery/internal/models"
)

// tier is one matching stage: a name for logs plus a generator that
// returns SQL or "" on miss.
type tier struct {
	name     string
	generate func(question string) string
}

// Catalog evaluates its tiers in fixed priority order; the first match wins
// and there is no backtracking across tiers. The tier list is read-only
// after construction and safe for concurrent use.
type Catalog struct {
	tiers  []tier
	logger logger.Logger
}

func NewCatalog(log logger.Logger) *Catalog {
	c := &Catalog{
		logger: log.With(map[string]interface{}{"component": "templates"}),
	}
	c.tiers = []tier{
		{name: "executive_report", generate: matchExecutiveReport},
		{name: "temporal_comparison", generate: matchTemporalComparison},
		{name: "single_year_report", generate: matchSingleYear},
		{name: "area_comparison", generate: matchAreaComparison},
		{name: "compound_static", generate: matchCompoundStatic},
		{name: "simple_static", generate: matchSimpleStatic},
	}
	return c
}

// Match returns an audited SQL candidate for the question, or (nil, false)
// when no tier recognizes it. A miss is a signal to continue to LLM
// generation, not an error.
func (c *Catalog) Match(question string) (*models.SQLCandidate, bool) {
	start := time.Now()
	for _, t := range c.tiers {
		sql := t.generate(question)
		if sql == "" {
			continue
		}
		c.logger.Info("template matched", map[string]interface{}{
			"tier": t.name,
		})
		return &models.SQLCandidate{
			Text:             sql,
			Origin:           models.OriginTemplate,
			GenerationTimeMs: time.Since(start).Milliseconds(),
		}, true
	}
	return nil, false
}

// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_resolutions_total",
			Help: "Total number of question resolutions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "resolver_stage_duration_seconds",
			Help: "Duration of each resolution stage in seconds",
		},
		[]string{"stage"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_validation_failures_total",
			Help: "Total number of failed validation checks by phase and check",
		},
		[]string{"phase", "check"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_llm_calls_total",
			Help: "Total number of completion service calls by outcome",
		},
		[]string{"outcome"},
	)
)

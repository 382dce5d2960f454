// internal/pipeline/validator/validator.go
// Package validator runs the two validation phases: structural checks on
// generated SQL before execution, and semantic plausibility checks on the
// rows a query returned. All findings are advisory; the validator never
// blocks execution or re-routes a question on its own.
package validator

import (
	"finquery/internal/common/config"
	"finquery/internal/common/logger"
	"finquery/internal/common/metrics"
	"finquery/internal/models"
)

// Validator holds the limits table and the cached exchange rate used by the
// semantic phase.
type Validator struct {
	limits *models.BusinessLimits
	rates  *RateCache
	logger logger.Logger
}

func New(cfg config.LimitsConfig, rates *RateCache, log logger.Logger) *Validator {
	return &Validator{
		limits: limitsFromConfig(cfg),
		rates:  rates,
		logger: log.With(map[string]interface{}{"component": "validator"}),
	}
}

// limitsFromConfig starts from the built-in table and applies the ceiling
// overrides config provides. Zero values mean "keep the default".
func limitsFromConfig(cfg config.LimitsConfig) *models.BusinessLimits {
	limits := models.DefaultBusinessLimits()
	if cfg.MaxSingleDistribution > 0 {
		limits.MaxSingleDistribution = cfg.MaxSingleDistribution
	}
	if cfg.MaxDailyRevenue > 0 {
		limits.MaxDailyRevenue = cfg.MaxDailyRevenue
	}
	if cfg.MaxMonthlyRevenue > 0 {
		limits.MaxMonthlyRevenue = cfg.MaxMonthlyRevenue
	}
	if cfg.MaxDailyExpense > 0 {
		limits.MaxDailyExpense = cfg.MaxDailyExpense
	}
	if cfg.MaxMonthlyExpense > 0 {
		limits.MaxMonthlyExpense = cfg.MaxMonthlyExpense
	}
	if cfg.MaxSingleWithdrawal > 0 {
		limits.MaxSingleWithdrawal = cfg.MaxSingleWithdrawal
	}
	if cfg.ExchangeRateMin > 0 {
		limits.ExchangeRateMin = cfg.ExchangeRateMin
	}
	if cfg.ExchangeRateMax > 0 {
		limits.ExchangeRateMax = cfg.ExchangeRateMax
	}
	return limits
}

func (v *Validator) recordFailure(phase, check string) {
	metrics.ValidationFailures.WithLabelValues(phase, check).Inc()
}

// internal/models/limits.go
package models

// BusinessLimits maps each intent to the numeric band a plausible result for
// a firm of this size must fall into. Read-only after process start, shared
// without locking.
type BusinessLimits struct {
	ProfitabilityMin float64
	ProfitabilityMax float64

	PercentageSumTolerance float64

	ExchangeRateMin float64
	ExchangeRateMax float64

	MaxSingleDistribution float64
	MaxDailyRevenue       float64
	MaxMonthlyRevenue     float64
	MaxDailyExpense       float64
	MaxMonthlyExpense     float64
	MaxSingleWithdrawal   float64
}

// DefaultBusinessLimits returns the built-in limits table. Config may
// override individual ceilings but the bounded ranges are fixed business
// facts, not tunables.
func DefaultBusinessLimits() *BusinessLimits {
	return &BusinessLimits{
		ProfitabilityMin:       -100,
		ProfitabilityMax:       100,
		PercentageSumTolerance: 5,
		ExchangeRateMin:        30,
		ExchangeRateMax:        50,
		MaxSingleDistribution:  500_000,
		MaxDailyRevenue:        200_000,
		MaxMonthlyRevenue:      2_000_000,
		MaxDailyExpense:        150_000,
		MaxMonthlyExpense:      1_500_000,
		MaxSingleWithdrawal:    300_000,
	}
}

// internal/pipeline/validator/semantic.go
package validator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"finquery/internal/models"
	"finquery/internal/pipeline/intent"
)

// ValidateResults runs the semantic plausibility checks on executed rows.
// The intent of the question decides which band applies; an empty result is
// always plausible and only gets an informational note.
func (v *Validator) ValidateResults(ctx context.Context, question, sql string, rows []map[string]interface{}) *models.Verdict {
	queryType := intent.Classify(question, sql)
	verdict := models.NewVerdict(queryType)

	if len(rows) == 0 {
		verdict.Applied("empty_result")
		verdict.Note("Sin datos para el período consultado")
		return verdict
	}

	switch queryType {
	case models.IntentProfitability:
		v.checkProfitability(verdict, rows)
	case models.IntentPercentage:
		v.checkPercentageSum(verdict, rows)
	case models.IntentRevenue:
		v.checkAmountCeiling(verdict, rows, "revenue_ceiling", v.revenueCeiling(question))
	case models.IntentExpense:
		v.checkAmountCeiling(verdict, rows, "expense_ceiling", v.expenseCeiling(question))
	case models.IntentDistribution:
		v.checkAmountCeiling(verdict, rows, "distribution_ceiling", v.limits.MaxSingleDistribution)
	case models.IntentWithdrawal:
		v.checkAmountCeiling(verdict, rows, "withdrawal_ceiling", v.limits.MaxSingleWithdrawal)
	case models.IntentExchangeRate:
		v.checkExchangeRate(ctx, verdict, rows)
	default:
		verdict.Applied("no_semantic_rule")
	}

	if !verdict.Valid {
		v.logger.Warn("semantic findings", map[string]interface{}{
			"query_type": string(queryType),
			"reasons":    verdict.Reasons,
		})
	}
	return verdict
}

func (v *Validator) revenueCeiling(question string) float64 {
	if intent.IsDaily(question) {
		return v.limits.MaxDailyRevenue
	}
	return v.limits.MaxMonthlyRevenue
}

func (v *Validator) expenseCeiling(question string) float64 {
	if intent.IsDaily(question) {
		return v.limits.MaxDailyExpense
	}
	return v.limits.MaxMonthlyExpense
}

// checkProfitability verifies every percentage-looking value sits inside the
// plausible margin band.
func (v *Validator) checkProfitability(verdict *models.Verdict, rows []map[string]interface{}) {
	verdict.Applied("profitability_range")
	for _, row := range rows {
		for column, raw := range row {
			if !isPercentColumn(column) {
				continue
			}
			value, ok := asNumeric(raw)
			if !ok {
				continue
			}
			if value < v.limits.ProfitabilityMin || value > v.limits.ProfitabilityMax {
				verdict.Flag(fmt.Sprintf(
					"Rentabilidad de %.2f%% fuera de rango razonable (%.0f%% a %.0f%%)",
					value, v.limits.ProfitabilityMin, v.limits.ProfitabilityMax))
				v.recordFailure("semantic", "profitability_range")
			}
		}
	}
}

// checkPercentageSum verifies every percentage sits in [0,100] and that a
// multi-row breakdown sums to roughly 100. Single-row results are partial
// percentages and exempt from the sum check.
func (v *Validator) checkPercentageSum(verdict *models.Verdict, rows []map[string]interface{}) {
	verdict.Applied("percentage_sum")
	var sum float64
	var found bool
	for _, row := range rows {
		for column, raw := range row {
			if !isPercentColumn(column) {
				continue
			}
			value, ok := asNumeric(raw)
			if !ok {
				continue
			}
			if value < 0 || value > 100 {
				verdict.Flag(fmt.Sprintf(
					"Porcentaje de %.2f fuera de rango razonable (0 a 100)", value))
				v.recordFailure("semantic", "percentage_range")
			}
			sum += value
			found = true
		}
	}
	if !found || len(rows) < 2 {
		return
	}
	if math.Abs(sum-100) > v.limits.PercentageSumTolerance {
		verdict.Flag(fmt.Sprintf(
			"Los porcentajes suman %.2f en lugar de 100 (tolerancia ±%.0f)",
			sum, v.limits.PercentageSumTolerance))
		v.recordFailure("semantic", "percentage_sum")
	}
}

// checkAmountCeiling verifies every aggregated amount is non-negative and
// below the ceiling for the question's intent and granularity.
func (v *Validator) checkAmountCeiling(verdict *models.Verdict, rows []map[string]interface{}, check string, ceiling float64) {
	verdict.Applied(check)
	for _, row := range rows {
		for column, raw := range row {
			if isPercentColumn(column) {
				continue
			}
			value, ok := asNumeric(raw)
			if !ok {
				continue
			}
			if value < 0 {
				verdict.Flag(fmt.Sprintf("Monto negativo de %.2f USD en un agregado que debería ser positivo", value))
				v.recordFailure("semantic", check)
				continue
			}
			if value > ceiling {
				verdict.Flag(fmt.Sprintf(
					"Monto de %.2f USD fuera de rango razonable (máximo esperado %.0f)",
					value, ceiling))
				v.recordFailure("semantic", check)
			}
		}
	}
}

// checkExchangeRate verifies rate values fall in the plausible band and,
// when a cached reference rate is available, notes large deviations from it.
func (v *Validator) checkExchangeRate(ctx context.Context, verdict *models.Verdict, rows []map[string]interface{}) {
	verdict.Applied("exchange_rate_range")
	reference, hasReference := 0.0, false
	if v.rates != nil {
		reference, hasReference = v.rates.Current(ctx)
	}

	for _, row := range rows {
		for _, raw := range row {
			value, ok := asNumeric(raw)
			if !ok {
				continue
			}
			if value < v.limits.ExchangeRateMin || value > v.limits.ExchangeRateMax {
				verdict.Flag(fmt.Sprintf(
					"Tipo de cambio %.2f fuera de rango razonable (%.0f a %.0f)",
					value, v.limits.ExchangeRateMin, v.limits.ExchangeRateMax))
				v.recordFailure("semantic", "exchange_rate_range")
				continue
			}
			if hasReference && reference > 0 && math.Abs(value-reference)/reference > 0.20 {
				verdict.Note(fmt.Sprintf(
					"Tipo de cambio %.2f se aparta más de 20%% de la referencia %.2f",
					value, reference))
			}
		}
	}
}

// isPercentColumn identifies columns holding percentages by naming
// convention.
func isPercentColumn(column string) bool {
	lowered := strings.ToLower(column)
	return strings.Contains(lowered, "porcentaje") || strings.Contains(lowered, "pct") ||
		strings.Contains(lowered, "percent") || strings.Contains(lowered, "rentabilidad") ||
		strings.Contains(lowered, "margen")
}

func asNumeric(v interface{}) (float64, bool) {
	f := toFloat(v)
	if f == 0 {
		// Distinguish a genuine zero from an unparseable value.
		switch t := v.(type) {
		case float64, int64, int, float32:
			return 0, true
		case string:
			_, err := strconv.ParseFloat(t, 64)
			return 0, err == nil
		default:
			return 0, false
		}
	}
	return f, true
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

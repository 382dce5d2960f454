// internal/pipeline/intent/classify.go
package intent

import (
	"strings"

	"finquery/internal/models"
)

// Classify tags a question/SQL pair with the intent that decides which
// semantic range-check applies. Rules run in priority order; the first hit
// wins.
func Classify(question, sql string) models.Intent {
	q := Normalize(question)
	s := strings.ToLower(sql)

	switch {
	case strings.Contains(q, "distribu") || isPartnerAmountQuestion(q):
		return models.IntentDistribution
	case strings.Contains(q, "rentabilidad") || strings.Contains(q, "margen"):
		return models.IntentProfitability
	case strings.Contains(q, "porcentaje") || strings.Contains(q, "%") || hasPercentageArithmetic(s):
		return models.IntentPercentage
	case strings.Contains(q, "factur") || strings.Contains(q, "ingreso"):
		return models.IntentRevenue
	case strings.Contains(q, "gast"):
		return models.IntentExpense
	case strings.Contains(q, "retir"):
		return models.IntentWithdrawal
	case strings.Contains(q, "cambio") || strings.Contains(q, "cotizacion") || strings.Contains(q, "dolar"):
		return models.IntentExchangeRate
	default:
		return models.IntentGeneral
	}
}

// isPartnerAmountQuestion catches "¿cuánto recibió Bruno?" style questions
// that never say "distribución" but are about partner distributions.
func isPartnerAmountQuestion(normalized string) bool {
	if !ContainsAny(normalized, KnownPartners) {
		return false
	}
	return strings.Contains(normalized, "recibio") ||
		strings.Contains(normalized, "cobro") ||
		strings.Contains(normalized, "cuanto")
}

// hasPercentageArithmetic detects percentage computation in the SQL text
// itself (x * 100 / total patterns).
func hasPercentageArithmetic(sql string) bool {
	return strings.Contains(sql, "* 100") || strings.Contains(sql, "*100") ||
		strings.Contains(sql, "percent")
}

// IsDaily reports whether a revenue/expense question refers to a single day
// rather than a month.
func IsDaily(question string) bool {
	q := Normalize(question)
	return strings.Contains(q, "dia") || strings.Contains(q, "hoy") || strings.Contains(q, "ayer")
}

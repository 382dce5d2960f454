// internal/pipeline/validator/structural.go
package validator

import (
	"regexp"
	"strings"

	"finquery/internal/models"
	"finquery/internal/pipeline/intent"
)

var (
	limitOnePattern     = regexp.MustCompile(`(?i)\bLIMIT\s+1\b`)
	extractFechaPattern = regexp.MustCompile(`extract\s*\(\s*\w+\s+from\s+fecha\b`)
)

// ValidateSQL runs the structural pre-execution checks on generated SQL.
// Every check runs independently; one finding never short-circuits the
// rest. Template SQL is trusted and never passes through here.
func (v *Validator) ValidateSQL(question, sql string) *models.Verdict {
	verdict := models.NewVerdict(intent.Classify(question, sql))
	normalized := intent.Normalize(question)
	lowered := strings.ToLower(sql)

	v.checkRankingShape(verdict, normalized, sql)
	v.checkProjectionComputed(verdict, normalized, lowered)
	v.checkCurrencyPercentage(verdict, normalized, lowered)
	v.checkTemporalScope(verdict, question, lowered)

	if !verdict.Valid {
		v.logger.Warn("structural findings", map[string]interface{}{
			"reasons": verdict.Reasons,
		})
	}
	return verdict
}

// checkRankingShape flags a plural ranking question answered with LIMIT 1.
// Explicit superlatives ("cuál es el mejor mes") legitimately want a single
// row and are exempt.
func (v *Validator) checkRankingShape(verdict *models.Verdict, normalized, sql string) {
	verdict.Applied("ranking_shape")
	if !intent.ContainsAny(normalized, intent.RankingKeywords) {
		return
	}
	if intent.ContainsAny(normalized, intent.SuperlativeKeywords) {
		return
	}
	if limitOnePattern.MatchString(sql) {
		verdict.Flag("La pregunta pide un ranking pero la consulta devuelve una sola fila (LIMIT 1)")
		v.recordFailure("structural", "ranking_shape")
	}
}

// checkProjectionComputed flags a projection question whose SQL only
// accumulates: a real projection either extrapolates arithmetically or
// anchors on the current date, instead of leaving the math to the reader.
func (v *Validator) checkProjectionComputed(verdict *models.Verdict, normalized, lowered string) {
	verdict.Applied("projection_computed")
	if !intent.ContainsAny(normalized, intent.ProjectionKeywords) {
		return
	}
	if strings.Contains(lowered, "* 12") || strings.Contains(lowered, "*12") ||
		strings.Contains(lowered, "proyeccion") || strings.Contains(lowered, "proyección") ||
		strings.Contains(lowered, "current_date") {
		return
	}
	verdict.Flag("Proyección sin calcular: la consulta devuelve el acumulado sin extrapolar a fin de año")
	v.recordFailure("structural", "projection_computed")
}

// checkCurrencyPercentage flags a currency-mix percentage computed over
// amounts instead of the original currency column.
func (v *Validator) checkCurrencyPercentage(verdict *models.Verdict, normalized, lowered string) {
	verdict.Applied("currency_percentage")
	asksCurrencyMix := (strings.Contains(normalized, "porcentaje") || strings.Contains(normalized, "%")) &&
		(strings.Contains(normalized, "moneda") || strings.Contains(normalized, "dolar") ||
			strings.Contains(normalized, "usd") || strings.Contains(normalized, "peso"))
	if !asksCurrencyMix {
		return
	}
	if strings.Contains(lowered, "moneda_original") {
		return
	}
	verdict.Flag("Porcentaje por moneda sin usar moneda_original: el desglose debe agrupar por moneda_original")
	v.recordFailure("structural", "currency_percentage")
}

// checkTemporalScope flags the silent all-time default: neither the question
// nor the SQL pins down a period, so the query aggregates the whole history
// without the user having asked for that.
func (v *Validator) checkTemporalScope(verdict *models.Verdict, question, lowered string) {
	verdict.Applied("temporal_scope")
	if intent.HasExplicitPeriod(question) {
		return
	}
	if hasDateConstraint(lowered) {
		return
	}
	verdict.Flag("Ni la pregunta ni la consulta acotan un período: el resultado cubre todo el histórico")
	v.recordFailure("structural", "temporal_scope")
}

// hasDateConstraint looks for fecha in a filtering or bucketing context.
// Merely selecting or ordering by the column does not scope the result.
func hasDateConstraint(lowered string) bool {
	if strings.Contains(lowered, "current_date") || strings.Contains(lowered, "date_trunc") {
		return true
	}
	if extractFechaPattern.MatchString(lowered) {
		return true
	}
	idx := strings.Index(lowered, "where")
	if idx < 0 {
		return false
	}
	clause := lowered[idx:]
	for _, stop := range []string{"group by", "order by", "limit"} {
		if cut := strings.Index(clause, stop); cut >= 0 {
			clause = clause[:cut]
		}
	}
	return strings.Contains(clause, "fecha")
}

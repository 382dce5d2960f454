// internal/pipeline/templates/yearly.go
package templates

import (
	"fmt"
	"strings"

	"finquery/internal/pipeline/intent"
)

// matchSingleYear handles questions about exactly one year. Specific
// keywords pick a specific template; any other single-year question with a
// totals-flavored keyword falls back to the plain totals template.
func matchSingleYear(question string) string {
	years := intent.ExtractYears(question)
	if len(years) != 1 {
		return ""
	}
	year := years[0]
	normalized := intent.Normalize(question)

	switch {
	case strings.Contains(normalized, "mes a mes") || strings.Contains(normalized, "mensual") || strings.Contains(normalized, "por mes"):
		return monthlyBreakdown(year)
	case strings.Contains(normalized, "rentabilidad") && strings.Contains(normalized, "area"):
		return profitabilityByArea(year)
	case strings.Contains(normalized, "anterior"):
		return yearOverYear(year)
	case intent.ContainsAny(normalized, []string{"total", "balance", "resultado", "como nos fue", "como le fue", "resumen"}):
		return yearTotals(year)
	default:
		return ""
	}
}

// monthlyBreakdown lists income, expense, and net per month of one year.
func monthlyBreakdown(year int) string {
	return fmt.Sprintf(`SELECT EXTRACT(MONTH FROM fecha) AS mes,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
GROUP BY EXTRACT(MONTH FROM fecha)
ORDER BY mes`, year)
}

// profitabilityByArea computes the margin percentage per practice area for
// one year. The percentage is computed over USD-normalized amounts and
// guarded against division by zero.
func profitabilityByArea(year int) string {
	return fmt.Sprintf(`SELECT area,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    ROUND(
        (SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
         SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END)) * 100.0 /
        NULLIF(SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END), 0),
    2) AS rentabilidad_pct
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
  AND area IS NOT NULL
GROUP BY area
ORDER BY rentabilidad_pct DESC`, year)
}

// yearOverYear compares the named year with the one before it.
func yearOverYear(year int) string {
	return yearSet([]int{year - 1, year})
}

// yearTotals is the plain totals template for one year.
func yearTotals(year int) string {
	return fmt.Sprintf(`SELECT
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false`, year)
}

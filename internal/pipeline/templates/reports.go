// internal/pipeline/templates/reports.go
package templates

import (
	"fmt"

	"finquery/internal/pipeline/intent"
)

// matchExecutiveReport recognizes full executive-report requests. One year
// yields a single-year report with per-area and per-partner sections; two
// years yield a side-by-side comparison report.
func matchExecutiveReport(question string) string {
	normalized := intent.Normalize(question)
	if !intent.ContainsAny(normalized, intent.ReportKeywords) {
		return ""
	}
	years := intent.ExtractYears(question)

	switch len(years) {
	case 1:
		return executiveSingleYear(years[0])
	case 2:
		return executiveComparison(years[0], years[1])
	default:
		return ""
	}
}

// executiveSingleYear produces the one-year executive report: overall
// totals, per-area profitability, and per-partner distributions, stitched
// together with UNION ALL over a shared column shape.
func executiveSingleYear(year int) string {
	return fmt.Sprintf(`SELECT 'totales' AS seccion, 'general' AS detalle,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
UNION ALL
SELECT 'por_area' AS seccion, area AS detalle,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
  AND area IS NOT NULL
GROUP BY area
UNION ALL
SELECT 'por_socio' AS seccion, socio AS detalle,
    0 AS ingresos,
    0 AS gastos,
    SUM(monto_usd) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND tipo = 'distribucion'
  AND eliminado = false
  AND socio IS NOT NULL
GROUP BY socio
ORDER BY seccion, detalle`, year, year, year)
}

// executiveComparison produces the two-year comparison report with overall
// totals and per-area results for both years.
func executiveComparison(year1, year2 int) string {
	totals := func(year int) string {
		return fmt.Sprintf(`SELECT %d AS anio, 'totales' AS seccion, 'general' AS detalle,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false`, year, year)
	}
	byArea := func(year int) string {
		return fmt.Sprintf(`SELECT %d AS anio, 'por_area' AS seccion, area AS detalle,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
  AND area IS NOT NULL
GROUP BY area`, year, year)
	}

	return totals(year1) + "\nUNION ALL\n" + totals(year2) +
		"\nUNION ALL\n" + byArea(year1) + "\nUNION ALL\n" + byArea(year2) +
		"\nORDER BY anio, seccion, detalle"
}

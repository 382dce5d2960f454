// internal/pipeline/templates/temporal.go
package templates

import (
	"fmt"
	"strings"

	"finquery/internal/pipeline/intent"
)

// matchTemporalComparison handles period-vs-period questions. Precedence is
// strict: specific month-pair > specific quarter-vs-quarter > generic
// quarter-set > generic semester-set > plain year-set (2 or 3 years).
func matchTemporalComparison(question string) string {
	years := intent.ExtractYears(question)
	months := intent.ExtractMonths(question)
	quarter, hasQuarter := intent.ExtractQuarter(question)

	if len(months) >= 2 {
		return monthPairComparison(months[0], months[1], years)
	}

	if hasQuarter && len(years) == 2 {
		return quarterAcrossYears(quarter, years[0], years[1])
	}

	if intent.HasQuarterKeyword(question) && len(years) >= 1 {
		return quarterSet(years[0])
	}

	if intent.HasSemesterKeyword(question) && len(years) >= 1 {
		return semesterSet(years[0])
	}

	if len(years) == 2 || len(years) == 3 {
		return yearSet(years)
	}

	return ""
}

// monthPairComparison compares two named months. When two years are present
// each month is pinned to its own year; with one year both months share it;
// with none the current year applies.
func monthPairComparison(month1, month2 int, years []int) string {
	yearExpr1 := "EXTRACT(YEAR FROM CURRENT_DATE)"
	yearExpr2 := yearExpr1
	switch len(years) {
	case 1:
		yearExpr1 = fmt.Sprintf("%d", years[0])
		yearExpr2 = yearExpr1
	case 2, 3:
		yearExpr1 = fmt.Sprintf("%d", years[0])
		yearExpr2 = fmt.Sprintf("%d", years[1])
	}

	branch := func(month int, yearExpr string) string {
		return fmt.Sprintf(`SELECT %d AS mes, %s AS anio,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(MONTH FROM fecha) = %d
  AND EXTRACT(YEAR FROM fecha) = %s
  AND eliminado = false`, month, yearExpr, month, yearExpr)
	}

	return branch(month1, yearExpr1) + "\nUNION ALL\n" + branch(month2, yearExpr2) + "\nORDER BY anio, mes"
}

// quarterAcrossYears compares the same quarter of two years.
func quarterAcrossYears(quarter, year1, year2 int) string {
	branch := func(year int) string {
		return fmt.Sprintf(`SELECT %d AS anio, %d AS trimestre,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(QUARTER FROM fecha) = %d
  AND EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false`, year, quarter, quarter, year)
	}

	return branch(year1) + "\nUNION ALL\n" + branch(year2) + "\nORDER BY anio"
}

// quarterSet breaks one year into its four quarters.
func quarterSet(year int) string {
	return fmt.Sprintf(`SELECT EXTRACT(QUARTER FROM fecha) AS trimestre,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
GROUP BY EXTRACT(QUARTER FROM fecha)
ORDER BY trimestre`, year)
}

// semesterSet breaks one year into its two semesters.
func semesterSet(year int) string {
	return fmt.Sprintf(`SELECT CASE WHEN EXTRACT(MONTH FROM fecha) <= 6 THEN 1 ELSE 2 END AS semestre,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false
GROUP BY CASE WHEN EXTRACT(MONTH FROM fecha) <= 6 THEN 1 ELSE 2 END
ORDER BY semestre`, year)
}

// yearSet compares two or three full years via one UNION ALL branch per
// year, each filtered by the database's native date-part extraction.
func yearSet(years []int) string {
	branches := make([]string, 0, len(years))
	for _, year := range years {
		branches = append(branches, fmt.Sprintf(`SELECT %d AS anio,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE EXTRACT(YEAR FROM fecha) = %d
  AND eliminado = false`, year, year))
	}
	return strings.Join(branches, "\nUNION ALL\n") + "\nORDER BY anio"
}

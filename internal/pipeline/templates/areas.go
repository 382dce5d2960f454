// internal/pipeline/templates/areas.go
package templates

import (
	"fmt"
	"strings"

	"finquery/internal/pipeline/intent"
)

// matchAreaComparison handles practice-area comparisons: two or more named
// areas, or an explicit "todas las áreas" request, combined with a
// comparison keyword.
func matchAreaComparison(question string) string {
	normalized := intent.Normalize(question)
	if !intent.ContainsAny(normalized, intent.ComparisonKeywords) {
		return ""
	}

	if strings.Contains(normalized, "todas las areas") || strings.Contains(normalized, "todas las lineas") {
		return allAreasComparison(intent.ExtractYears(question))
	}

	areas := intent.ExtractAreas(question)
	if len(areas) < 2 {
		return ""
	}
	return namedAreasComparison(areas, intent.ExtractYears(question))
}

func areaYearFilter(years []int) string {
	if len(years) == 1 {
		return fmt.Sprintf("\n  AND EXTRACT(YEAR FROM fecha) = %d", years[0])
	}
	return ""
}

// namedAreasComparison compares the explicitly named areas side by side.
func namedAreasComparison(areas []string, years []int) string {
	quoted := make([]string, len(areas))
	for i, area := range areas {
		quoted[i] = "'" + area + "'"
	}
	return fmt.Sprintf(`SELECT area,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE area IN (%s)
  AND eliminado = false%s
GROUP BY area
ORDER BY resultado DESC`, strings.Join(quoted, ", "), areaYearFilter(years))
}

// allAreasComparison compares every practice area.
func allAreasComparison(years []int) string {
	return fmt.Sprintf(`SELECT area,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS resultado
FROM movimientos
WHERE area IS NOT NULL
  AND eliminado = false%s
GROUP BY area
ORDER BY resultado DESC`, areaYearFilter(years))
}

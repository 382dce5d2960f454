// internal/pipeline/templates/statics.go
package templates

import (
	"fmt"
	"strings"

	"finquery/internal/pipeline/intent"
)

// compoundStatic matches when every keyword of the set appears in the
// normalized question. Entries are checked in order; more specific sets
// come first.
type compoundStatic struct {
	keywords []string
	sql      string
}

var compoundStatics = []compoundStatic{
	{
		keywords: []string{"retiro", "mercedes"},
		sql:      partnerMovements("Mercedes", "retiro"),
	},
	{
		keywords: []string{"retiro", "bruno"},
		sql:      partnerMovements("Bruno", "retiro"),
	},
	{
		keywords: []string{"distribu", "mercedes"},
		sql:      partnerMovements("Mercedes", "distribucion"),
	},
	{
		keywords: []string{"distribu", "bruno"},
		sql:      partnerMovements("Bruno", "distribucion"),
	},
	{
		keywords: []string{"gasto", "localidad"},
		sql: `SELECT localidad,
    SUM(monto_usd) AS gastos
FROM movimientos
WHERE tipo = 'gasto'
  AND eliminado = false
  AND localidad IS NOT NULL
GROUP BY localidad
ORDER BY gastos DESC`,
	},
	{
		keywords: []string{"ingreso", "localidad"},
		sql: `SELECT localidad,
    SUM(monto_usd) AS ingresos
FROM movimientos
WHERE tipo = 'ingreso'
  AND eliminado = false
  AND localidad IS NOT NULL
GROUP BY localidad
ORDER BY ingresos DESC`,
	},
}

// simpleStatics map a single pinned phrase to fixed SQL. First match wins.
type simpleStatic struct {
	phrase string
	sql    string
}

var simpleStatics = []simpleStatic{
	{
		phrase: "rentabilidad por area",
		sql: `SELECT area,
    SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) AS ingresos,
    SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END) AS gastos,
    ROUND(
        (SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END) -
         SUM(CASE WHEN tipo = 'gasto' THEN monto_usd ELSE 0 END)) * 100.0 /
        NULLIF(SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END), 0),
    2) AS rentabilidad_pct
FROM movimientos
WHERE eliminado = false
  AND area IS NOT NULL
GROUP BY area
ORDER BY rentabilidad_pct DESC`,
	},
	{
		phrase: "distribucion por socio",
		sql: `SELECT socio,
    SUM(monto_usd) AS distribuido
FROM movimientos
WHERE tipo = 'distribucion'
  AND eliminado = false
  AND socio IS NOT NULL
GROUP BY socio
ORDER BY distribuido DESC`,
	},
	{
		phrase: "retiros por socio",
		sql: `SELECT socio,
    SUM(monto_usd) AS retirado
FROM movimientos
WHERE tipo = 'retiro'
  AND eliminado = false
  AND socio IS NOT NULL
GROUP BY socio
ORDER BY retirado DESC`,
	},
	{
		phrase: "facturacion por moneda",
		sql: `SELECT moneda_original,
    COUNT(*) AS operaciones,
    SUM(monto_usd) AS total_usd,
    ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS porcentaje
FROM movimientos
WHERE tipo = 'ingreso'
  AND eliminado = false
GROUP BY moneda_original
ORDER BY total_usd DESC`,
	},
	{
		phrase: "ultimo movimiento",
		sql: `SELECT fecha, tipo, monto, moneda_original, monto_usd, socio, area, localidad
FROM movimientos
WHERE eliminado = false
ORDER BY fecha DESC
LIMIT 1`,
	},
}

// matchCompoundStatic matches keyword-pair templates; every keyword of an
// entry must appear.
func matchCompoundStatic(question string) string {
	normalized := intent.Normalize(question)
	for _, entry := range compoundStatics {
		all := true
		for _, kw := range entry.keywords {
			if !strings.Contains(normalized, kw) {
				all = false
				break
			}
		}
		if all {
			return entry.sql
		}
	}
	return ""
}

// matchSimpleStatic matches single-phrase templates.
func matchSimpleStatic(question string) string {
	normalized := intent.Normalize(question)
	for _, entry := range simpleStatics {
		if strings.Contains(normalized, entry.phrase) {
			return entry.sql
		}
	}
	return ""
}

// partnerMovements lists one partner's movements of one type with a running
// total.
func partnerMovements(partner, tipo string) string {
	return fmt.Sprintf(`SELECT fecha, monto, moneda_original, monto_usd,
    SUM(monto_usd) OVER (ORDER BY fecha) AS acumulado_usd
FROM movimientos
WHERE socio = '%s'
  AND tipo = '%s'
  AND eliminado = false
ORDER BY fecha`, partner, tipo)
}

// internal/pipeline/generator/prompt.go
package generator

import (
	"fmt"
	"strings"

	"finquery/internal/models"
	"finquery/internal/pipeline/temporal"
)

const systemPrompt = `Eres un experto en SQL para PostgreSQL. Respondes únicamente con una consulta SQL, sin explicaciones ni formato markdown.`

const schemaContext = `Tabla: movimientos
Columnas:
- fecha (date): fecha del movimiento
- tipo (text): 'ingreso', 'gasto', 'retiro' o 'distribucion'
- monto (numeric): monto en la moneda original
- moneda_original (text): moneda del movimiento ('USD', 'UYU', etc.)
- monto_usd (numeric): monto normalizado a dólares
- socio (text, nullable): socio asociado al retiro o distribución
- area (text, nullable): 'Jurídica', 'Contable', 'Notarial' o 'Consultoría'
- localidad (text, nullable): sucursal donde se registró
- eliminado (boolean): true si el movimiento fue anulado`

// businessRules are numbered and each carries a worked example; the model
// follows patterns far more reliably than abstract instructions.
const businessRules = `Reglas obligatorias:
1. SIEMPRE filtrar eliminado = false.
   Ejemplo: WHERE eliminado = false
2. Para filtrar por año usar EXTRACT(YEAR FROM fecha), nunca comparar fecha con un literal de año.
   Ejemplo: WHERE EXTRACT(YEAR FROM fecha) = 2024
3. Para montos agregados usar monto_usd, que ya está normalizado a dólares.
   Ejemplo: SUM(CASE WHEN tipo = 'ingreso' THEN monto_usd ELSE 0 END)
4. Para porcentajes por moneda usar moneda_original, no la columna monto.
   Ejemplo: SELECT moneda_original, COUNT(*) * 100.0 / SUM(COUNT(*)) OVER () AS porcentaje
            FROM movimientos WHERE tipo = 'ingreso' AND eliminado = false
            GROUP BY moneda_original
5. Para comparar períodos usar una rama por período unida con UNION ALL.
   Ejemplo: SELECT 2024 AS anio, SUM(monto_usd) FROM movimientos
            WHERE EXTRACT(YEAR FROM fecha) = 2024 AND eliminado = false
            UNION ALL
            SELECT 2025, SUM(monto_usd) FROM movimientos
            WHERE EXTRACT(YEAR FROM fecha) = 2025 AND eliminado = false
6. Para proyecciones calcular el resultado final en el SQL, no devolver solo el acumulado.
   Ejemplo: SELECT SUM(monto_usd) / meses_con_datos * 12 AS proyeccion ...
7. Evitar divisiones por cero con NULLIF.
   Ejemplo: x * 100.0 / NULLIF(total, 0)
8. Responder con UNA sola consulta que empiece con SELECT o WITH.`

// BuildPrompt assembles the generation prompt: schema, rules, optional
// temporal context, optional conversation context, and the user question
// verbatim at the end.
func BuildPrompt(question string, meta *models.TemporalMetadata, conversation []models.ConversationTurn) string {
	var b strings.Builder

	b.WriteString(schemaContext)
	b.WriteString("\n\n")
	b.WriteString(businessRules)
	b.WriteString("\n")

	if meta != nil {
		b.WriteString("\n")
		b.WriteString(temporal.FormatForPrompt(meta))
	}

	if len(conversation) > 0 {
		b.WriteString("\nConversación previa:\n")
		for _, turn := range conversation {
			fmt.Fprintf(&b, "[%s] %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&b, "\nPregunta: %s\nSQL:", question)
	return b.String()
}

// internal/pipeline/temporal/provider.go
// Package temporal enriches projection and trend questions with the fiscal
// calendar facts the completion service cannot know on its own: today's
// date, how far into the year we are, and which months actually hold data.
package temporal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finquery/internal/common/database"
	"finquery/internal/common/logger"
	"finquery/internal/models"
	"finquery/internal/pipeline/intent"
)

// metadataQuery gathers everything in a single round trip so enrichment
// costs one query regardless of how much context the prompt needs.
const metadataQuery = `SELECT
    CURRENT_DATE AS fecha_actual,
    EXTRACT(MONTH FROM CURRENT_DATE) AS mes_actual,
    (SELECT COUNT(DISTINCT EXTRACT(MONTH FROM fecha))
     FROM movimientos
     WHERE EXTRACT(YEAR FROM fecha) = EXTRACT(YEAR FROM CURRENT_DATE)
       AND eliminado = false) AS meses_con_datos`

// Provider decides when a question needs temporal grounding and fetches it.
type Provider struct {
	executor database.Executor
	logger   logger.Logger
}

func NewProvider(executor database.Executor, log logger.Logger) *Provider {
	return &Provider{
		executor: executor,
		logger:   log.With(map[string]interface{}{"component": "temporal"}),
	}
}

// NeedsMetadata reports whether the question depends on where we are in the
// fiscal year: projections, trends, "últimos N meses" and similar phrasings
// that are unanswerable without a current-date anchor.
func (p *Provider) NeedsMetadata(question string) bool {
	return intent.ContainsAny(intent.Normalize(question), intent.TemporalContextKeywords)
}

// FetchMetadata runs the single metadata query. An empty movimientos table
// is not an error: months-with-data comes back zero and the prompt still
// gets a usable date anchor.
func (p *Provider) FetchMetadata(ctx context.Context) (*models.TemporalMetadata, error) {
	rows, err := p.executor.QueryRows(ctx, metadataQuery)
	if err != nil {
		return nil, fmt.Errorf("fetching temporal metadata: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("temporal metadata query returned no rows")
	}
	row := rows[0]

	meta := &models.TemporalMetadata{
		CurrentDate:            asTime(row["fecha_actual"]),
		CurrentMonth:           asInt(row["mes_actual"]),
		MonthsWithDataThisYear: asInt(row["meses_con_datos"]),
	}
	meta.MonthsRemainingThisYear = 12 - meta.CurrentMonth

	p.logger.Debug("temporal metadata fetched", map[string]interface{}{
		"current_month":   meta.CurrentMonth,
		"months_with_data": meta.MonthsWithDataThisYear,
	})
	return meta, nil
}

// FormatForPrompt renders the metadata as the labelled Spanish block the
// generation prompt embeds verbatim.
func FormatForPrompt(meta *models.TemporalMetadata) string {
	var b strings.Builder
	b.WriteString("CONTEXTO TEMPORAL:\n")
	fmt.Fprintf(&b, "- Fecha actual: %s\n", meta.CurrentDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Mes actual: %d\n", meta.CurrentMonth)
	fmt.Fprintf(&b, "- Meses con datos este año: %d\n", meta.MonthsWithDataThisYear)
	fmt.Fprintf(&b, "- Meses restantes del año: %d\n", meta.MonthsRemainingThisYear)
	if meta.MonthsWithDataThisYear == 0 {
		b.WriteString("- ATENCIÓN: todavía no hay datos cargados este año.\n")
	} else {
		fmt.Fprintf(&b, "- Para proyectar fin de año: (total acumulado / %d) * 12\n", meta.MonthsWithDataThisYear)
	}
	return b.String()
}

func asTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case int:
		return t
	case float64:
		return int(t)
	case string:
		var n int
		fmt.Sscanf(t, "%d", &n)
		return n
	default:
		return 0
	}
}

// internal/pipeline/templates/catalog_test.go
package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquery/internal/common/logger/loggertest"
	"finquery/internal/models"
)

func newTestCatalog(t *testing.T) *Catalog {
	return NewCatalog(loggertest.NewLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCatalog_Match_YearComparison(t *testing.T) {
	catalog := newTestCatalog(t)

	candidate, matched := catalog.Match("Comparar facturación 2024 vs 2025")
	require.True(t, matched)
	assert.Equal(t, models.OriginTemplate, candidate.Origin)
	assert.Contains(t, candidate.Text, "EXTRACT(YEAR FROM fecha) = 2024")
	assert.Contains(t, candidate.Text, "EXTRACT(YEAR FROM fecha) = 2025")
	assert.Contains(t, candidate.Text, "UNION ALL")
	assert.Contains(t, candidate.Text, "eliminado = false")
}

func TestCatalog_Match_IsIdempotent(t *testing.T) {
	catalog := newTestCatalog(t)
	question := "Comparar facturación 2024 vs 2025"

	first, matched := catalog.Match(question)
	require.True(t, matched)
	second, matched := catalog.Match(question)
	require.True(t, matched)

	assert.Equal(t, first.Text, second.Text)
}

func TestCatalog_Match_TierPriority(t *testing.T) {
	catalog := newTestCatalog(t)

	// "informe" plus two years must hit the executive report tier, not the
	// plain year comparison.
	candidate, matched := catalog.Match("Informe ejecutivo comparando 2024 y 2025")
	require.True(t, matched)
	assert.Contains(t, candidate.Text, "seccion")
	assert.Contains(t, candidate.Text, "por_area")
}

func TestCatalog_Match_Misses(t *testing.T) {
	catalog := newTestCatalog(t)

	tests := []struct {
		name     string
		question string
	}{
		{name: "currency percentage needs the llm", question: "¿Qué porcentaje de facturación es en USD?"},
		{name: "no period no template", question: "¿Conviene abrir otra sucursal?"},
		{name: "projection question", question: "Proyección de fin de año al ritmo actual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, matched := catalog.Match(tt.question)
			assert.False(t, matched)
		})
	}
}

// ==========================
// Tier Tests
// ==========================

func TestMatchTemporalComparison_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		question string
		contains []string
	}{
		{
			name:     "month pair beats year set",
			question: "Comparar enero contra febrero de 2024",
			contains: []string{"EXTRACT(MONTH FROM fecha) = 1", "EXTRACT(MONTH FROM fecha) = 2", "UNION ALL"},
		},
		{
			name:     "specific quarter across years",
			question: "Comparar el Q1 de 2024 contra el de 2025",
			contains: []string{"EXTRACT(QUARTER FROM fecha) = 1", "EXTRACT(YEAR FROM fecha) = 2024", "EXTRACT(YEAR FROM fecha) = 2025"},
		},
		{
			name:     "generic quarter set",
			question: "Comparar los trimestres de 2024",
			contains: []string{"GROUP BY EXTRACT(QUARTER FROM fecha)"},
		},
		{
			name:     "generic semester set",
			question: "Comparar los semestres de 2024",
			contains: []string{"semestre", "EXTRACT(MONTH FROM fecha) <= 6"},
		},
		{
			name:     "three year set",
			question: "Comparar 2023, 2024 y 2025",
			contains: []string{"= 2023", "= 2024", "= 2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := matchTemporalComparison(tt.question)
			require.NotEmpty(t, sql)
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
		})
	}
}

func TestMatchTemporalComparison_MonthsWithoutYearUseCurrentDate(t *testing.T) {
	sql := matchTemporalComparison("Comparar marzo contra abril")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "EXTRACT(YEAR FROM CURRENT_DATE)")
}

func TestMatchSingleYear(t *testing.T) {
	tests := []struct {
		name     string
		question string
		contains string
	}{
		{
			name:     "monthly breakdown",
			question: "Facturación mes a mes de 2024",
			contains: "GROUP BY EXTRACT(MONTH FROM fecha)",
		},
		{
			name:     "profitability by area",
			question: "Rentabilidad por área en 2024",
			contains: "rentabilidad_pct",
		},
		{
			name:     "year over year",
			question: "¿Cómo fue 2025 respecto al anterior?",
			contains: "= 2024",
		},
		{
			name:     "plain totals",
			question: "Resultado total de 2024",
			contains: "EXTRACT(YEAR FROM fecha) = 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := matchSingleYear(tt.question)
			require.NotEmpty(t, sql)
			assert.Contains(t, sql, tt.contains)
		})
	}

	t.Run("bare year mention is not enough", func(t *testing.T) {
		assert.Empty(t, matchSingleYear("algo pasó en 2024 con un cliente"))
	})
}

func TestMatchAreaComparison(t *testing.T) {
	sql := matchAreaComparison("Comparar el área legal contra la contable")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "'Jurídica'")
	assert.Contains(t, sql, "'Contable'")
	assert.Contains(t, sql, "GROUP BY area")

	sql = matchAreaComparison("Comparar todas las áreas en 2024")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "EXTRACT(YEAR FROM fecha) = 2024")

	assert.Empty(t, matchAreaComparison("Comparar el área legal"), "one area is not a comparison")
	assert.Empty(t, matchAreaComparison("resultados del área legal y notarial"), "no comparison keyword")
}

func TestMatchStatics(t *testing.T) {
	sql := matchCompoundStatic("¿Cuánto retiró Mercedes?")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "socio = 'Mercedes'")
	assert.Contains(t, sql, "tipo = 'retiro'")

	sql = matchSimpleStatic("Mostrame la rentabilidad por área")
	require.NotEmpty(t, sql)
	assert.Contains(t, sql, "rentabilidad_pct")

	assert.Empty(t, matchCompoundStatic("gastos de oficina"))
	assert.Empty(t, matchSimpleStatic("¿Conviene invertir más?"))
}

// ==========================
// Invariant Tests
// ==========================

// Every template the catalog can emit filters soft-deleted rows.
func TestAllTemplatesFilterDeleted(t *testing.T) {
	catalog := newTestCatalog(t)
	questions := []string{
		"Comparar facturación 2024 vs 2025",
		"Informe ejecutivo de 2024",
		"Facturación mes a mes de 2024",
		"Comparar el área legal contra la contable",
		"¿Cuánto retiró Mercedes?",
		"Distribución por socio",
		"Comparar los trimestres de 2024",
	}

	for _, question := range questions {
		candidate, matched := catalog.Match(question)
		require.True(t, matched, question)
		assert.Contains(t, candidate.Text, "eliminado = false", question)
		upper := strings.ToUpper(strings.TrimSpace(candidate.Text))
		assert.True(t, strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH"), question)
	}
}

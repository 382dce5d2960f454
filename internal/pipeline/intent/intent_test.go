// internal/pipeline/intent/intent_test.go
package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finquery/internal/models"
)

// ==========================
// Extraction Tests
// ==========================

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []int
	}{
		{
			name:     "two years ascending",
			question: "Comparar facturación 2025 vs 2024",
			expected: []int{2024, 2025},
		},
		{
			name:     "duplicate years collapse",
			question: "gastos de 2024 contra ingresos de 2024",
			expected: []int{2024},
		},
		{
			name:     "no years",
			question: "¿Cuánto facturamos este mes?",
			expected: nil,
		},
		{
			name:     "amounts are not years",
			question: "movimientos mayores a 1500 dólares",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractYears(tt.question))
		})
	}
}

func TestExtractMonths(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected []int
	}{
		{
			name:     "two months in order of appearance",
			question: "Comparar marzo contra enero",
			expected: []int{3, 1},
		},
		{
			name:     "setiembre variant",
			question: "gastos de setiembre",
			expected: []int{9},
		},
		{
			name:     "no months",
			question: "facturación de 2024",
			expected: nil,
		},
		{
			name:     "month name inside another word does not count",
			question: "los mayores gastos del estudio",
			expected: nil,
		},
		{
			name:     "whole word next to a lookalike still counts",
			question: "los mayores gastos de mayo",
			expected: []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMonths(tt.question))
		})
	}
}

func TestExtractQuarter(t *testing.T) {
	tests := []struct {
		name     string
		question string
		quarter  int
		found    bool
	}{
		{name: "q notation", question: "resultados del Q2 2024", quarter: 2, found: true},
		{name: "ordinal phrase", question: "el tercer trimestre fue flojo", quarter: 3, found: true},
		{name: "generic trimestre has no number", question: "comparar trimestres de 2024", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quarter, found := ExtractQuarter(tt.question)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.quarter, quarter)
			}
		})
	}
}

func TestExtractAreas(t *testing.T) {
	areas := ExtractAreas("Comparar el área legal con contabilidad")
	assert.Equal(t, []string{"Jurídica", "Contable"}, areas)

	assert.Empty(t, ExtractAreas("facturación total de 2024"))
}

func TestExtractPartner(t *testing.T) {
	partner, found := ExtractPartner("¿Cuánto recibió Mercedes este año?")
	assert.True(t, found)
	assert.Equal(t, "Mercedes", partner)

	_, found = ExtractPartner("¿Cuánto facturamos en enero?")
	assert.False(t, found)
}

func TestHasExplicitPeriod(t *testing.T) {
	assert.True(t, HasExplicitPeriod("gastos de 2024"))
	assert.True(t, HasExplicitPeriod("gastos de marzo"))
	assert.True(t, HasExplicitPeriod("gastos del mes pasado"))
	assert.False(t, HasExplicitPeriod("gastos por localidad"))
}

// ==========================
// Classification Tests
// ==========================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		sql      string
		expected models.Intent
	}{
		{
			name:     "explicit distribution",
			question: "¿Cuánto se distribuyó en 2024?",
			expected: models.IntentDistribution,
		},
		{
			name:     "partner amount without the word distribution",
			question: "¿Cuánto recibió Bruno?",
			expected: models.IntentDistribution,
		},
		{
			name:     "profitability",
			question: "rentabilidad del área contable",
			expected: models.IntentProfitability,
		},
		{
			name:     "percentage from question",
			question: "¿Qué porcentaje de facturación es en USD?",
			expected: models.IntentPercentage,
		},
		{
			name:     "percentage from sql arithmetic",
			question: "desglose de facturación por moneda",
			sql:      "SELECT moneda_original, COUNT(*) * 100 / total FROM movimientos",
			expected: models.IntentPercentage,
		},
		{
			name:     "revenue",
			question: "facturación de enero",
			expected: models.IntentRevenue,
		},
		{
			name:     "expense",
			question: "gastos del mes pasado",
			expected: models.IntentExpense,
		},
		{
			name:     "withdrawal",
			question: "retiros de socios en 2024",
			expected: models.IntentWithdrawal,
		},
		{
			name:     "exchange rate",
			question: "¿A cuánto está el tipo de cambio?",
			expected: models.IntentExchangeRate,
		},
		{
			name:     "general fallback",
			question: "¿Cuál fue el último movimiento?",
			expected: models.IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.question, tt.sql))
		})
	}
}

func TestIsDaily(t *testing.T) {
	assert.True(t, IsDaily("¿Cuánto facturamos hoy?"))
	assert.True(t, IsDaily("gastos de ayer"))
	assert.False(t, IsDaily("facturación de enero"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "proyeccion de fin de ano", Normalize("Proyección de fin de AÑO"))
}

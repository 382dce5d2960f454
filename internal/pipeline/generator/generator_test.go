// internal/pipeline/generator/generator_test.go
package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquery/internal/common/config"
	"finquery/internal/common/logger/loggertest"
	"finquery/internal/llm"
	"finquery/internal/models"
)

// fakeCompleter records the request and returns a canned completion.
type fakeCompleter struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGenerator(t *testing.T, completer *fakeCompleter) *Generator {
	return NewGenerator(completer, config.LLMConfig{MaxTokens: 1200}, loggertest.NewLogger(t))
}

// ==========================
// Extraction Tests
// ==========================

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare statement",
			text:     "SELECT 1",
			expected: "SELECT 1",
		},
		{
			name:     "fenced sql block",
			text:     "Aquí está la consulta:\n```sql\nSELECT monto_usd FROM movimientos\n```\nEspero que sirva.",
			expected: "SELECT monto_usd FROM movimientos",
		},
		{
			name:     "unfenced with leading prose",
			text:     "La consulta sería:\nSELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false",
			expected: "SELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false",
		},
		{
			name:     "statement mid-line after prose",
			text:     "La consulta es: SELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false",
			expected: "SELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false",
		},
		{
			name:     "trailing semicolon and prose stripped",
			text:     "SELECT 1;\nEsta consulta devuelve un uno.",
			expected: "SELECT 1",
		},
		{
			name:     "cte statement",
			text:     "WITH totales AS (SELECT SUM(monto_usd) AS total FROM movimientos) SELECT total FROM totales",
			expected: "WITH totales AS (SELECT SUM(monto_usd) AS total FROM movimientos) SELECT total FROM totales",
		},
		{
			name:    "no sql at all",
			text:    "No puedo generar una consulta para esa pregunta.",
			wantErr: true,
		},
		{
			name:    "empty completion",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := ExtractSQL(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoExtractableSQL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sql)
		})
	}
}

// ==========================
// Generation Tests
// ==========================

func TestGenerator_Generate(t *testing.T) {
	completer := &fakeCompleter{response: "SELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false;"}
	gen := newTestGenerator(t, completer)

	candidate, err := gen.Generate(context.Background(), "¿Cuánto facturamos?", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OriginLLM, candidate.Origin)
	assert.Equal(t, "SELECT SUM(monto_usd) FROM movimientos WHERE eliminado = false", candidate.Text)
	assert.GreaterOrEqual(t, candidate.GenerationTimeMs, int64(0))

	// SQL generation is always deterministic.
	assert.Zero(t, completer.lastReq.Temperature)
	assert.Equal(t, 1200, completer.lastReq.MaxTokens)
	assert.NotEmpty(t, completer.lastReq.SystemPrompt)
}

func TestGenerator_Generate_CompleterError(t *testing.T) {
	completer := &fakeCompleter{err: llm.ErrUnavailable}
	gen := newTestGenerator(t, completer)

	_, err := gen.Generate(context.Background(), "¿Cuánto facturamos?", nil, nil)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestGenerator_Generate_NoExtractableSQL(t *testing.T) {
	completer := &fakeCompleter{response: "No tengo suficiente información."}
	gen := newTestGenerator(t, completer)

	_, err := gen.Generate(context.Background(), "¿Cuánto facturamos?", nil, nil)
	assert.ErrorIs(t, err, ErrNoExtractableSQL)
}

// ==========================
// Prompt Tests
// ==========================

func TestBuildPrompt(t *testing.T) {
	meta := &models.TemporalMetadata{
		CurrentDate:             time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		CurrentMonth:            8,
		MonthsWithDataThisYear:  7,
		MonthsRemainingThisYear: 4,
	}
	conversation := []models.ConversationTurn{
		{Role: "user", Content: "¿Cuánto facturamos en 2024?"},
		{Role: "assistant", Content: "SELECT ..."},
	}

	prompt := BuildPrompt("¿Y en 2025?", meta, conversation)

	assert.Contains(t, prompt, "Tabla: movimientos")
	assert.Contains(t, prompt, "eliminado = false")
	assert.Contains(t, prompt, "EXTRACT(YEAR FROM fecha)")
	assert.Contains(t, prompt, "moneda_original")
	assert.Contains(t, prompt, "UNION ALL")
	assert.Contains(t, prompt, "CONTEXTO TEMPORAL")
	assert.Contains(t, prompt, "Conversación previa")
	assert.Contains(t, prompt, "[user] ¿Cuánto facturamos en 2024?")
	assert.Contains(t, prompt, "Pregunta: ¿Y en 2025?")
}

func TestBuildPrompt_MinimalQuestion(t *testing.T) {
	prompt := BuildPrompt("¿Cuánto facturamos?", nil, nil)

	assert.NotContains(t, prompt, "CONTEXTO TEMPORAL")
	assert.NotContains(t, prompt, "Conversación previa")
	assert.Contains(t, prompt, "Pregunta: ¿Cuánto facturamos?")
}

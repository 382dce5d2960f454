// internal/pipeline/generator/generator.go
// Package generator turns a question the template catalog could not answer
// into SQL via the completion service, then extracts a clean statement from
// whatever text came back.
package generator

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"finquery/internal/common/config"
	"finquery/internal/common/logger"
	"finquery/internal/llm"
	"finquery/internal/models"
)

// ErrNoExtractableSQL means the completion held no SELECT/WITH statement.
var ErrNoExtractableSQL = errors.New("NO_EXTRACTABLE_SQL")

var (
	codeFencePattern = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")
	sqlStartPattern  = regexp.MustCompile(`(?i)\b(?:SELECT|WITH)\b`)
)

// Generator produces LLM-backed SQL candidates. Generation always runs at
// temperature zero; reproducibility matters more than variety here.
type Generator struct {
	completer llm.Completer
	maxTokens int
	logger    logger.Logger
}

func NewGenerator(completer llm.Completer, cfg config.LLMConfig, log logger.Logger) *Generator {
	return &Generator{
		completer: completer,
		maxTokens: cfg.MaxTokens,
		logger:    log.With(map[string]interface{}{"component": "generator"}),
	}
}

// Generate builds the prompt, calls the completion service, and extracts the
// statement. The returned candidate text always starts with SELECT or WITH
// and never ends with a semicolon.
func (g *Generator) Generate(ctx context.Context, question string, meta *models.TemporalMetadata, conversation []models.ConversationTurn) (*models.SQLCandidate, error) {
	start := time.Now()

	text, err := g.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:       BuildPrompt(question, meta, conversation),
		SystemPrompt: systemPrompt,
		Temperature:  0,
		MaxTokens:    g.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	sql, err := ExtractSQL(text)
	if err != nil {
		g.logger.Warn("completion held no SQL", map[string]interface{}{
			"chars": len(text),
		})
		return nil, err
	}

	g.logger.Info("sql generated", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &models.SQLCandidate{
		Text:             sql,
		Origin:           models.OriginLLM,
		GenerationTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// ExtractSQL pulls a single statement out of raw completion text. It prefers
// fenced code blocks, otherwise cuts everything before the first SELECT/WITH
// token, even mid-line, and strips any trailing semicolon and prose.
func ExtractSQL(text string) (string, error) {
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	loc := sqlStartPattern.FindStringIndex(text)
	if loc == nil {
		return "", ErrNoExtractableSQL
	}
	sql := strings.TrimSpace(text[loc[0]:])

	// Prose after the statement: cut at the first semicolon if one exists.
	if idx := strings.Index(sql, ";"); idx >= 0 {
		sql = sql[:idx]
	}
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return "", ErrNoExtractableSQL
	}
	return sql, nil
}

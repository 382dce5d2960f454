// cmd/resolver/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"finquery/internal/common/config"
	"finquery/internal/common/database"
	"finquery/internal/common/logger"
	"finquery/internal/common/session"
	"finquery/internal/models"
	"finquery/internal/pipeline/router"
	"finquery/internal/pipeline/validator"
)

type resolveRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

type server struct {
	resolver *router.Resolver
	checks   *validator.Validator
	executor database.Executor
	store    *session.Store
	cfg      *config.Config
	logger   logger.Logger
}

func newServer(resolver *router.Resolver, checks *validator.Validator, executor database.Executor, store *session.Store, cfg *config.Config, log logger.Logger) *server {
	return &server{
		resolver: resolver,
		checks:   checks,
		executor: executor,
		store:    store,
		cfg:      cfg,
		logger:   log.With(map[string]interface{}{"component": "http"}),
	}
}

// handleResolve runs the full pipeline: resolve the question to SQL, execute
// it, validate the rows, and persist the exchange into the session history.
func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	conversation := s.loadConversation(ctx, req.SessionID)

	result := s.resolver.Resolve(ctx, req.Question, conversation)

	if result.Success {
		s.executeAndValidate(ctx, req.Question, result)
	}

	if req.SessionID != "" {
		s.persistTurns(ctx, req.SessionID, req.Question, result)
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

// executeAndValidate runs the resolved SQL under the query timeout and
// attaches rows plus the post-execution verdict. Execution errors flip the
// result to failure with the typed error message.
func (s *server) executeAndValidate(ctx context.Context, question string, result *models.ResolutionResult) {
	queryCtx, cancel := context.WithTimeout(ctx, config.GetDuration(s.cfg.Pipeline.QueryTimeout))
	defer cancel()

	executionStart := time.Now()
	rows, err := s.executor.QueryRows(queryCtx, result.SQL)
	result.Timings["execution_ms"] = time.Since(executionStart).Milliseconds()

	if err != nil {
		stdErr := database.ToStandardError(err)
		result.Success = false
		result.Error = stdErr.Message
		s.logger.Error("query execution failed", map[string]interface{}{
			"code":  string(stdErr.Code),
			"error": err,
		})
		return
	}

	result.Rows = rows
	result.PostValidation = s.checks.ValidateResults(ctx, question, result.SQL, rows)
}

// loadConversation returns the trimmed recent history for the session, or
// nil when there is no session or the store is unavailable.
func (s *server) loadConversation(ctx context.Context, sessionID string) []models.ConversationTurn {
	if sessionID == "" {
		return nil
	}
	history, err := s.store.History(ctx, sessionID)
	if err != nil {
		s.logger.Warn("conversation history unavailable", map[string]interface{}{
			"error": err,
		})
		return nil
	}
	if max := s.cfg.Pipeline.MaxConversational; max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}

func (s *server) persistTurns(ctx context.Context, sessionID, question string, result *models.ResolutionResult) {
	answer := result.SQL
	if !result.Success {
		answer = result.Error
	}
	err := s.store.Append(ctx, sessionID,
		models.ConversationTurn{Role: "user", Content: question},
		models.ConversationTurn{Role: "assistant", Content: answer},
	)
	if err != nil {
		s.logger.Warn("conversation persist failed", map[string]interface{}{
			"error": err,
		})
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if _, err := s.executor.QueryRows(ctx, "SELECT 1"); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

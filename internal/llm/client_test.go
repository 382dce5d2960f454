// internal/llm/client_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finquery/internal/common/config"
	"finquery/internal/common/logger/loggertest"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	return NewClient(config.LLMConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "gpt-4o-mini",
		Timeout:    5000,
		MaxRetries: maxRetries,
		RetryDelay: 1,
	}, loggertest.NewLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestClient_Complete_Success(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{"text": "SELECT 1"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	text, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:       "pregunta",
		SystemPrompt: "sistema",
		MaxTokens:    100,
	})

	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, "sistema", captured["system"])
}

func TestClient_Complete_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "SELECT 1"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	text, err := client.Complete(context.Background(), CompletionRequest{Prompt: "pregunta"})

	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)
	assert.Equal(t, 3, attempts)
}

func TestClient_Complete_EmptyCompletionRetriesThenFails(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "pregunta"})

	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.Equal(t, 3, attempts, "empty completions are retried")
}

func TestClient_Complete_BadRequestIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "pregunta"})

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, 1, attempts, "auth failures never retry")
}

func TestClient_Complete_Unreachable(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", 0)
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "pregunta"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finquery/internal/common/config"
	"finquery/internal/common/logger"
	"finquery/internal/common/metrics"
	"finquery/internal/common/retry"
)

var (
	ErrTimeout         = errors.New("LLM_TIMEOUT")
	ErrUnavailable     = errors.New("LLM_UNREACHABLE")
	ErrEmptyCompletion = errors.New("EMPTY_COMPLETION")
	ErrBadRequest      = errors.New("LLM_BAD_REQUEST")
)

// CompletionRequest is the completion-service contract: prompt in, text out.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// Completer is implemented by anything that can turn a prompt into text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Client calls the external completion service over HTTP. Transport errors
// and empty completions are retried with a fixed delay; malformed-request
// errors are not.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	policy     retry.Policy
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.LLMConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: config.GetDuration(cfg.Timeout),
		policy: retry.Policy{
			MaxAttempts: cfg.MaxRetries + 1,
			Delay:       config.GetDuration(cfg.RetryDelay),
			Retryable:   isRetryable,
		},
		// No client-level timeout; the per-call context bounds each attempt.
		httpClient: &http.Client{},
		logger:     log.With(map[string]interface{}{"component": "llm"}),
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrEmptyCompletion)
}

// Complete sends the prompt and returns the completion text. The context
// bounds the whole call including retries; cancellation abandons the loop.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var text string
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var attemptErr error
		text, attemptErr = c.complete(ctx, req)
		return attemptErr
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			metrics.LLMCalls.WithLabelValues("timeout").Inc()
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		metrics.LLMCalls.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.LLMCalls.WithLabelValues("success").Inc()
	return text, nil
}

func (c *Client) complete(ctx context.Context, req CompletionRequest) (string, error) {
	requestBody := map[string]interface{}{
		"model":       c.model,
		"prompt":      req.Prompt,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}
	if req.SystemPrompt != "" {
		requestBody["system"] = req.SystemPrompt
	}

	body, _ := json.Marshal(requestBody)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"chars": len(apiResponse.Text),
	})

	return apiResponse.Text, nil
}

// internal/common/errors/errors.go
// Package errors provides the standardized failure taxonomy of the
// query-resolution pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Generation failures terminate the pipeline without usable SQL.
	ErrCodeLLMUnreachable  ErrorCode = "LLM_UNREACHABLE"
	ErrCodeLLMTimeout      ErrorCode = "LLM_TIMEOUT"
	ErrCodeEmptyCompletion ErrorCode = "EMPTY_COMPLETION"
	ErrCodeNoExtractableSQL ErrorCode = "NO_EXTRACTABLE_SQL"

	// Execution failures come from the database collaborator and are
	// propagated as-is, never retried by this subsystem.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeMalformedSQL             ErrorCode = "MALFORMED_SQL"
	ErrCodePermissionDenied         ErrorCode = "PERMISSION_DENIED"

	// Warnings are advisory: the best-effort result still flows to the
	// caller with the verdict attached.
	ErrCodeStructuralWarning ErrorCode = "STRUCTURAL_WARNING"
	ErrCodeSemanticWarning   ErrorCode = "SEMANTIC_WARNING"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewLLMUnreachableError creates a retryable completion-service transport error.
// The original exception text is preserved in Details for logs.
func NewLLMUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnreachable,
		Message:   "Completion service unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable completion-service timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Completion service call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyCompletionError creates a retryable empty-completion error. An
// empty completion is a hard failure, not "no SQL needed".
func NewEmptyCompletionError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyCompletion,
		Message:   "Completion service returned empty text",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoExtractableSQLError creates a non-retryable extraction error.
func NewNoExtractableSQLError(completion string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoExtractableSQL,
		Message:   "No SELECT or WITH statement found in completion",
		Details:   truncate(completion, 300),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection/timeout error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedSQLError creates a non-retryable malformed-statement error.
func NewMalformedSQLError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedSQL,
		Message:   "Database rejected the statement",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionDeniedError creates a non-retryable permission error.
func NewPermissionDeniedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePermissionDenied,
		Message:   "Database permission denied",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsTerminal reports whether the code ends the pipeline without usable SQL.
// Warnings never terminate; the envelope carries them to the caller.
func IsTerminal(code ErrorCode) bool {
	switch code {
	case ErrCodeStructuralWarning, ErrCodeSemanticWarning:
		return false
	default:
		return true
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "COMPLETION") || strings.Contains(codeStr, "EXTRACTABLE"):
		return "GENERATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "SQL") || strings.Contains(codeStr, "PERMISSION"):
		return "EXECUTION"
	case strings.Contains(codeStr, "WARNING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// internal/common/database/executor.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	stderrors "finquery/internal/common/errors"
)

var (
	ErrConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrQueryTimeout     = errors.New("QUERY_TIMEOUT")
	ErrMalformedSQL     = errors.New("MALFORMED_SQL")
	ErrPermissionDenied = errors.New("PERMISSION_DENIED")
)

// Executor is the database collaborator contract: a single read-only
// statement in, an ordered list of row-mappings out, or a typed error
// distinguishing connection/timeout from malformed SQL from permission
// denied.
type Executor interface {
	QueryRows(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
}

// SQLExecutor runs statements against a *sql.DB and maps driver errors to
// the typed taxonomy.
type SQLExecutor struct {
	db *sql.DB
}

func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

func (e *SQLExecutor) QueryRows(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(ctx, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSQL, err)
	}

	result := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSQL, err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(ctx, err)
	}

	return result, nil
}

// classifyError maps driver and context errors to the typed sentinels.
func classifyError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42501" || pqErr.Code.Class() == "28":
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case pqErr.Code == "57014":
			return fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		case pqErr.Code.Class() == "42":
			return fmt.Errorf("%w: %v", ErrMalformedSQL, err)
		case pqErr.Code.Class() == "08" || pqErr.Code.Class() == "53" || pqErr.Code.Class() == "57":
			return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
		default:
			return fmt.Errorf("%w: %v", ErrMalformedSQL, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
}

// ToStandardError converts a typed executor error to the shared taxonomy.
func ToStandardError(err error) *stderrors.StandardError {
	switch {
	case errors.Is(err, ErrQueryTimeout):
		return stderrors.NewQueryTimeoutError(err)
	case errors.Is(err, ErrMalformedSQL):
		return stderrors.NewMalformedSQLError(err)
	case errors.Is(err, ErrPermissionDenied):
		return stderrors.NewPermissionDeniedError(err)
	default:
		return stderrors.NewDatabaseConnectionFailedError(err)
	}
}

// normalizeValue converts driver types to JSON-friendly values. lib/pq
// returns []byte for text and numeric columns read through interface{}.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

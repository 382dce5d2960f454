// internal/common/logger/loggertest/loggertest.go
// Package loggertest provides a Logger that writes through testing.TB. It
// lives outside the logger package so production binaries never link the
// testing framework.
package loggertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"finquery/internal/common/logger"
)

// NewLogger creates a Logger whose output goes to t.
func NewLogger(t testing.TB) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

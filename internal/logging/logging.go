// Package logging provides the engine's single structured logger. Every
// degrade-instead-of-fail decision described in spec.md's error taxonomy
// (config coercion, ingestion failure, skip conditions) is logged through
// here at Warn so a caller can distinguish "result is smaller than
// expected" from "result is silently wrong".
package logging

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Production builds use zap's JSON
// encoder so audit runs can be piped straight into a log aggregator;
// callers that want human-readable output during development should wrap
// this with zap.NewDevelopment() themselves.
func New() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails on a broken sink configuration,
		// which can't happen with the defaults used here.
		panic(err)
	}
	return logger
}

// Nop returns a logger that discards everything, for tests that don't
// want to assert on log output.
func Nop() *zap.Logger {
	return zap.NewNop()
}

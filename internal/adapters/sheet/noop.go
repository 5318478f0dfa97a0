package sheet

import (
	"context"
	"log/slog"
)

// NoopAppender is a no-op sheet appender for development and testing.
// It logs appends but does not persist anything.
type NoopAppender struct {
	headers []string
}

// NewNoopAppender creates a new NoopAppender with the given headers.
func NewNoopAppender(headers []string) *NoopAppender {
	return &NoopAppender{headers: headers}
}

// Headers returns the configured header row.
func (a *NoopAppender) Headers(_ context.Context) ([]string, error) {
	return a.headers, nil
}

// AppendRow logs the row but does not persist it.
// PRE: row is a valid row
// POST: Returns nil without writing anywhere
func (a *NoopAppender) AppendRow(_ context.Context, row []string) error {
	slog.Info("noop_sheet_append", "cells", len(row))
	return nil
}

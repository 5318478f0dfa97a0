package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// SQLDB is what the entity stores need from a database handle. Both *sql.DB
// and *TimedDB satisfy it, so stores never care whether timing is on.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQueryThreshold applies when no threshold is configured.
const DefaultSlowQueryThreshold = 50 * time.Millisecond

// TimedDB wraps a *sql.DB and logs any call that runs past the threshold.
// Results and errors pass through untouched.
type TimedDB struct {
	db        *sql.DB
	threshold time.Duration
}

// NewTimedDB wraps db. A non-positive threshold falls back to the default.
func NewTimedDB(db *sql.DB, threshold time.Duration) *TimedDB {
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	return &TimedDB{db: db, threshold: threshold}
}

// RawDB exposes the wrapped *sql.DB for schema init and pool configuration.
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

func (t *TimedDB) observe(op string, start time.Time) {
	if elapsed := time.Since(start); elapsed >= t.threshold {
		slog.Warn("slow_query", "op", op, "duration_ms", float64(elapsed.Microseconds())/1000.0)
	}
}

// ExecContext runs a statement, logging it when slow.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer t.observe("ExecContext", time.Now())
	return t.db.ExecContext(ctx, query, args...)
}

// QueryContext runs a query, logging it when slow.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer t.observe("QueryContext", time.Now())
	return t.db.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query, logging it when slow.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer t.observe("QueryRowContext", time.Now())
	return t.db.QueryRowContext(ctx, query, args...)
}

// BeginTx opens a transaction, logging the open when slow.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	defer t.observe("BeginTx", time.Now())
	return t.db.BeginTx(ctx, opts)
}

// Close closes the wrapped connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// Ping checks the wrapped connection.
func (t *TimedDB) Ping() error {
	return t.db.Ping()
}

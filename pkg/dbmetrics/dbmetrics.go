// Package dbmetrics instruments database access and carries transaction
// executors through context.
//
// Repositories call GetExecutor(ctx, fallback): when a transaction manager has
// attached a transaction to the context, queries run on it; otherwise they run
// on the fallback (the wrapped or plain *sql.DB).
package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// DBExecutor is the query surface repositories depend on
type DBExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TxExecutor is the transaction surface used by transaction managers
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// Recorder receives query timings and pool gauges
type Recorder interface {
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBConnections(open, idle, inUse int)
}

// NopRecorder discards all observations; used when metrics are disabled
type NopRecorder struct{}

func (NopRecorder) ObserveDBQuery(string, time.Duration) {}
func (NopRecorder) SetDBConnections(int, int, int)       {}

type ctxKey struct{}

// WithExecutor returns a context carrying the transaction executor
func WithExecutor(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// GetExecutor returns the transaction executor attached to the context, or the
// fallback when the context carries none
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(ctxKey{}).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction reports whether the context carries a transaction executor
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(TxExecutor)
	return ok
}

// DB wraps *sql.DB and reports query timings to a Recorder
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap instruments a database handle
func Wrap(db *sql.DB, recorder Recorder) *DB {
	return &DB{db: db, recorder: recorder}
}

// WrapWithDefault instruments a database handle and starts a goroutine
// publishing connection pool gauges every poolStatsInterval until stop closes
func WrapWithDefault(db *sql.DB, recorder Recorder, _ string, stop <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder)
	go wrapped.collectPoolStats(stop)
	return wrapped
}

const poolStatsInterval = 15 * time.Second

func (d *DB) collectPoolStats(stop <-chan struct{}) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.recorder.SetDBConnections(stats.OpenConnections, stats.Idle, stats.InUse)
		}
	}
}

// QueryContext runs a query and records its duration
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.recorder.ObserveDBQuery("query", time.Since(start))
	return rows, err
}

// QueryRowContext runs a single-row query and records its duration
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.recorder.ObserveDBQuery("query_row", time.Since(start))
	return row
}

// ExecContext runs a statement and records its duration
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.recorder.ObserveDBQuery("exec", time.Since(start))
	return res, err
}

// BeginTx starts a transaction on the underlying handle
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	return d.db.BeginTx(ctx, opts)
}

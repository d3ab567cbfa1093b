package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is used when NewTimedDB is given a non-positive threshold.
const DefaultSlowQuery = 50 * time.Millisecond

// TimedDB wraps a *sql.DB to log slow statements and feed the query latency histogram.
// Each statement is labelled "<verb> <table>", e.g. "select member" or "insert finance".
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	slowAfter time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid database connection; collector may be nil
// POST: Returns a TimedDB that warns on statements slower than slowAfter
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowAfter time.Duration) *TimedDB {
	if slowAfter <= 0 {
		slowAfter = DefaultSlowQuery
	}
	return &TimedDB{db: db, collector: collector, slowAfter: slowAfter}
}

// statementLabel reduces a SQL statement to its verb and first table so the
// histogram stays at a handful of series per table.
func statementLabel(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return "unknown"
	}
	verb := fields[0]
	if verb == "with" {
		// CTEs are only used by read models.
		return "with"
	}
	var marker string
	switch verb {
	case "select", "delete":
		marker = "from"
	case "insert":
		marker = "into"
	case "update":
		if len(fields) > 1 {
			return verb + " " + trimIdent(fields[1])
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields[:len(fields)-1] {
		if f == marker {
			return verb + " " + trimIdent(fields[i+1])
		}
	}
	return verb
}

func trimIdent(s string) string {
	if i := strings.IndexAny(s, "(,;"); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, "`\"")
}

func (t *TimedDB) observe(query string, start time.Time, err error) {
	elapsed := time.Since(start)
	label := statementLabel(query)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		slog.Debug("query_failed", "op", label, "duration_ms", durationMs, "error", err)
	case elapsed >= t.slowAfter:
		slog.Warn("slow_query", "op", label, "duration_ms", durationMs)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: statement executed, timing recorded
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(query, start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(query, start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing. Scan errors are
// not visible here, so only the round trip is measured.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(query, start, row.Err())
	return row
}

// BeginTx wraps sql.DB.BeginTx. Statements run on the returned *sql.Tx are not timed.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe("begin", start, err)
	return tx, err
}

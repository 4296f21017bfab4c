package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sam171002/Text-2-SQL/internal/observability"
)

var (
	// ErrConnectionUnavailable means every connection attempt failed;
	// the statement was never sent to the backend.
	ErrConnectionUnavailable = errors.New("database connection unavailable")
	// ErrExecution means the statement reached the backend and was
	// rejected or failed there.
	ErrExecution = errors.New("statement execution failed")
)

// Result is the columnar outcome of one execution. Every row has
// exactly len(Columns) values, in backend-reported column order.
type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// Executor runs one validated statement per call over a connection
// scoped strictly to that call. Connection acquisition retries with a
// fixed delay; statement execution itself is never retried.
type Executor struct {
	Driver          string
	DSN             string
	MaxConnAttempts int
	RetryDelay      time.Duration
	Logger          *slog.Logger

	// Open and Sleep are seams for tests; nil means sql.Open and
	// time.Sleep.
	Open  func() (*sql.DB, error)
	Sleep func(time.Duration)
}

func (e *Executor) open() (*sql.DB, error) {
	if e.Open != nil {
		return e.Open()
	}
	return sql.Open(e.Driver, e.DSN)
}

func (e *Executor) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (e *Executor) maxAttempts() int {
	if e.MaxConnAttempts <= 0 {
		return 3
	}
	return e.MaxConnAttempts
}

func (e *Executor) retryDelay() time.Duration {
	if e.RetryDelay <= 0 {
		return 5 * time.Second
	}
	return e.RetryDelay
}

func (e *Executor) connect(ctx context.Context) (*sql.DB, error) {
	attempts := e.maxAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := e.open()
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		observability.IncrementConnectRetry()
		e.logger().Warn("database connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", err),
		)
		if attempt < attempts {
			e.sleep(e.retryDelay())
		}
	}
	return nil, fmt.Errorf("%w: %d attempts failed: %v", ErrConnectionUnavailable, attempts, lastErr)
}

// Execute acquires a connection, runs statement, and captures column
// names and all rows eagerly. The connection is released on every exit
// path before returning.
func (e *Executor) Execute(ctx context.Context, statement string) (Result, error) {
	db, err := e.connect(ctx)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = db.Close() }()

	start := time.Now()
	rows, err := db.QueryContext(ctx, statement)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("%w: read columns: %v", ErrExecution, err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("%w: scan row: %v", ErrExecution, err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: iterate rows: %v", ErrExecution, err)
	}

	duration := time.Since(start)
	observability.ObserveQueryDuration(duration)
	observability.ObserveQueryRows(len(resultRows))
	e.logger().Info("statement executed",
		slog.Int("rows", len(resultRows)),
		slog.String("duration", duration.String()),
	)

	return Result{Columns: columns, Rows: resultRows, Duration: duration}, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

package queryexec

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs validated, read-only SQL against a pool.
type Executor struct {
	pool *pgxpool.Pool
}

// New binds an Executor to pool. pool's connections should already carry
// default_transaction_read_only=on as defense in depth behind the firewall.
func New(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// Execute runs sql, which callers must have already passed through the
// firewall, inside an explicitly read-only transaction. Any driver error
// (including one raised by the read-only defense itself, should the
// firewall ever be wrong) is returned unwrapped for the caller to classify.
func (e *Executor) Execute(ctx context.Context, sql string) (*Result, error) {
	start := time.Now()

	tx, err := e.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, sql)
	if err != nil {
		return nil, err
	}

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	var resultRows [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			rows.Close()
			return nil, err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = coerceCell(v)
		}
		resultRows = append(resultRows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	slog.Info("query executed", "rows", len(resultRows), "execution_time_ms", elapsed)

	return &Result{
		Columns:         columns,
		Rows:            resultRows,
		RowCount:        len(resultRows),
		ExecutionTimeMs: elapsed,
	}, nil
}

// coerceCell maps a pgx-decoded value onto the fixed cell type set: null,
// bool, integer, floating, string. NUMERIC/DECIMAL columns arrive as
// pgtype.Numeric and are converted to float64 so chart series can consume
// them directly; dates/times render as strings in ISO-8601 via time.Time's
// RFC3339 form; anything else falls back to its default string form.
func coerceCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case float32:
		return float64(val)
	case float64:
		return val
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

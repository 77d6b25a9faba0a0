// Package audit persists a best-effort record of every query run for
// later inspection; a failure to persist never fails the run itself.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlpilot/orchestrator/pkg/masking"
	"github.com/sqlpilot/orchestrator/pkg/pipeline"
)

// RunRecord is one persisted row of the query_runs audit table.
type RunRecord struct {
	ID              string
	Question        string
	ClientID        string
	FinalState      string
	ErrorCode       string
	SafeSQL         string
	RowCount        int
	ExecutionTimeMs float64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Recorder implements pipeline.Recorder over a connection pool.
type Recorder struct {
	pool   *pgxpool.Pool
	masker *masking.Service
}

// New binds a Recorder to pool. Questions and SQL text are masked before
// persisting so secrets a user pastes into a question, or that leak into
// generated SQL (e.g. a literal connection string), never reach the table.
func New(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool, masker: masking.New()}
}

var _ pipeline.Recorder = (*Recorder)(nil)

// Record inserts one RunRecord derived from outcome. ctx should have had
// the originating request's cancellation stripped (see
// context.WithoutCancel) so a client disconnect does not also abort the
// audit write. Any insert failure is logged and swallowed.
func (r *Recorder) Record(ctx context.Context, outcome pipeline.RunOutcome) {
	record := RunRecord{
		ID:              uuid.NewString(),
		Question:        r.masker.Mask(outcome.Question),
		ClientID:        outcome.ClientID,
		FinalState:      outcome.FinalState,
		ErrorCode:       outcome.ErrorCode,
		SafeSQL:         r.masker.Mask(outcome.SafeSQL),
		RowCount:        outcome.RowCount,
		ExecutionTimeMs: float64(outcome.ExecutionTime) / float64(time.Millisecond),
		StartedAt:       outcome.StartedAt,
		FinishedAt:      outcome.FinishedAt,
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO query_runs
			(id, question, client_id, final_state, error_code, safe_sql, row_count, execution_time_ms, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		record.ID, record.Question, record.ClientID, record.FinalState,
		nullableString(record.ErrorCode), nullableString(record.SafeSQL), record.RowCount,
		record.ExecutionTimeMs, record.StartedAt, record.FinishedAt,
	)
	if err != nil {
		slog.Error("audit: failed to persist run record", "error", err, "client_id", record.ClientID)
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Package pipeline drives one query run through its stages — admission,
// schema retrieval, LLM generation, SQL validation, execution, and result
// streaming — emitting a typed event for every observable transition.
package pipeline

import (
	"context"
	"time"

	"github.com/sqlpilot/orchestrator/pkg/llmengine"
	"github.com/sqlpilot/orchestrator/pkg/queryexec"
)

// EventType names one kind of event on the run's event stream. The string
// values are the exact SSE event names in the external contract.
type EventType string

const (
	EventState     EventType = "state"
	EventThought   EventType = "thought"
	EventSQL       EventType = "sql"
	EventData      EventType = "data"
	EventChartType EventType = "chart_type"
	EventVizConfig EventType = "viz_config"
	EventError     EventType = "error"
	EventDone      EventType = "done"
)

// State names, each emitted as a StatePayload at stage entry.
const (
	StateInit            = "init"
	StateSchemaRetrieval = "schema_retrieval"
	StateLLMGeneration   = "llm_generation"
	StateSQLValidation   = "sql_validation"
	StateSQLExecution    = "sql_execution"
	StateResultStreaming = "result_streaming"
	StateCompleted       = "completed"
)

// Error codes, the external contract's taxonomy from SPEC_FULL §7.
const (
	ErrRateLimit    = "RATE_LIMIT"
	ErrNoSQL        = "NO_SQL"
	ErrQueryTimeout = "QUERY_TIMEOUT"
	ErrExecution    = "EXECUTION_ERROR"
)

// Event is one element of a run's output stream.
type Event struct {
	Type    EventType
	Payload any
}

type StatePayload struct {
	State string `json:"state"`
}

type ThoughtPayload struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

type SQLPayload struct {
	Content string `json:"content"`
	Raw     string `json:"raw"`
}

type DataPayload struct {
	Columns         []string `json:"columns"`
	Rows            [][]any  `json:"rows"`
	RowCount        int      `json:"row_count"`
	ExecutionTimeMs float64  `json:"execution_time_ms"`
}

type ChartTypePayload struct {
	Type string `json:"type"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DonePayload struct {
	Message string `json:"message"`
}

func dataPayloadFrom(r *queryexec.Result) DataPayload {
	return DataPayload{
		Columns:         r.Columns,
		Rows:            r.Rows,
		RowCount:        r.RowCount,
		ExecutionTimeMs: r.ExecutionTimeMs,
	}
}

// Limiter is the subset of limiter.Limiter the pipeline depends on.
type Limiter interface {
	Admit(clientID string) error
	WithTimeout(ctx context.Context) (context.Context, context.CancelFunc)
}

// Retriever is the subset of retriever.Retriever the pipeline depends on.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (string, error)
}

// Engine is the subset of llmengine.Engine the pipeline depends on.
type Engine interface {
	GenerateStream(ctx context.Context, question, schemaContext string) <-chan llmengine.Event
}

// Validator is a firewall validation call: firewall.Validate matches this
// signature directly.
type Validator func(sql string, maxRows int) (string, error)

// Executor is the subset of queryexec.Executor the pipeline depends on.
type Executor interface {
	Execute(ctx context.Context, sql string) (*queryexec.Result, error)
}

// RunOutcome is the summary of a completed or failed run, handed to an
// optional Recorder for best-effort audit persistence. It deliberately
// mirrors audit.RunRecord's fields without importing that package, so the
// pipeline has no dependency on how — or whether — runs are persisted.
type RunOutcome struct {
	Question      string
	ClientID      string
	FinalState    string
	ErrorCode     string
	SafeSQL       string
	RowCount      int
	ExecutionTime time.Duration
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Recorder persists a RunOutcome. Implementations must not block or fail
// the run; Pipeline calls Record after the event stream closes and ignores
// what it returns beyond logging.
type Recorder interface {
	Record(ctx context.Context, outcome RunOutcome)
}

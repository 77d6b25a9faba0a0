package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sqlpilot/orchestrator/pkg/firewall"
	"github.com/sqlpilot/orchestrator/pkg/llmengine"
	"github.com/sqlpilot/orchestrator/pkg/masking"
)

// Pipeline wires the five collaborating components into the query
// orchestration state machine. Each field is a narrow interface so tests
// can substitute fakes without standing up Postgres, Qdrant, or an LLM
// endpoint.
type Pipeline struct {
	limiter   Limiter
	retriever Retriever
	engine    Engine
	validate  Validator
	executor  Executor
	recorder  Recorder
	maxRows   int
	masker    *masking.Service
}

// New builds a Pipeline. recorder may be nil, in which case no audit
// record is persisted.
func New(limiter Limiter, retriever Retriever, engine Engine, validate Validator, executor Executor, recorder Recorder, maxRows int) *Pipeline {
	return &Pipeline{
		limiter:   limiter,
		retriever: retriever,
		engine:    engine,
		validate:  validate,
		executor:  executor,
		recorder:  recorder,
		maxRows:   maxRows,
		masker:    masking.New(),
	}
}

// Run drives one question through the full pipeline and returns the event
// stream. The channel is closed once a terminal event (error or done) has
// been sent, or immediately if ctx is cancelled before one is reached. The
// caller must keep receiving until the channel closes, or cancel ctx, to
// avoid leaking the run's goroutine.
func (p *Pipeline) Run(ctx context.Context, question, clientID string) <-chan Event {
	out := make(chan Event)
	go p.run(ctx, question, clientID, out)
	return out
}

func (p *Pipeline) run(ctx context.Context, question, clientID string, out chan<- Event) {
	defer close(out)

	outcome := RunOutcome{Question: question, ClientID: clientID, StartedAt: time.Now()}
	defer func() {
		outcome.FinishedAt = time.Now()
		if p.recorder != nil {
			p.recorder.Record(context.WithoutCancel(ctx), outcome)
		}
	}()

	emit := func(t EventType, payload any) bool {
		select {
		case out <- Event{Type: t, Payload: payload}:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(state, code, message string) {
		outcome.FinalState = state
		outcome.ErrorCode = code
		emit(EventError, ErrorPayload{Code: code, Message: p.masker.Mask(message)})
	}

	if !emit(EventState, StatePayload{State: StateInit}) {
		return
	}
	if err := p.limiter.Admit(clientID); err != nil {
		fail(StateInit, ErrRateLimit, err.Error())
		return
	}

	if !emit(EventState, StatePayload{State: StateSchemaRetrieval}) {
		return
	}
	schemaContext, err := p.retriever.Retrieve(ctx, question)
	if err != nil {
		fail(StateSchemaRetrieval, "RETRIEVAL_ERROR", err.Error())
		return
	}

	if !emit(EventState, StatePayload{State: StateLLMGeneration}) {
		return
	}
	envelope, ok := p.drainLLM(ctx, question, schemaContext, emit, fail)
	if !ok {
		return
	}

	if !emit(EventState, StatePayload{State: StateSQLValidation}) {
		return
	}
	safeSQL, err := p.validate(envelope.SQL, p.maxRows)
	if err != nil {
		code, message := firewallErrorDetails(err)
		fail(StateSQLValidation, code, message)
		return
	}
	outcome.SafeSQL = safeSQL
	if !emit(EventSQL, SQLPayload{Content: safeSQL, Raw: envelope.SQL}) {
		return
	}

	if !emit(EventState, StatePayload{State: StateSQLExecution}) {
		return
	}
	execCtx, cancel := p.limiter.WithTimeout(ctx)
	defer cancel()
	result, err := p.executor.Execute(execCtx, safeSQL)
	if err != nil {
		code := ErrExecution
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			code = ErrQueryTimeout
		}
		fail(StateSQLExecution, code, err.Error())
		return
	}
	outcome.RowCount = result.RowCount
	outcome.ExecutionTime = time.Duration(result.ExecutionTimeMs * float64(time.Millisecond))

	if !emit(EventState, StatePayload{State: StateResultStreaming}) {
		return
	}
	if !emit(EventData, dataPayloadFrom(result)) {
		return
	}
	if !emit(EventChartType, ChartTypePayload{Type: envelope.ChartType}) {
		return
	}
	if envelope.VizConfig != nil {
		if !emit(EventVizConfig, fillVizConfig(envelope.VizConfig, result.Columns, result.Rows)) {
			return
		}
	}

	outcome.FinalState = StateCompleted
	if !emit(EventState, StatePayload{State: StateCompleted}) {
		return
	}
	emit(EventDone, DonePayload{Message: fmt.Sprintf("returned %d rows", result.RowCount)})
}

// drainLLM forwards thinking deltas and resolves to the final envelope. It
// reports failure (via fail) and returns ok=false on an LLM error, on a
// channel close with no terminal event (cancellation), or on an envelope
// with no SQL.
func (p *Pipeline) drainLLM(
	ctx context.Context,
	question, schemaContext string,
	emit func(EventType, any) bool,
	fail func(state, code, message string),
) (llmengine.Envelope, bool) {
	stream := p.engine.GenerateStream(ctx, question, schemaContext)

	for ev := range stream {
		switch ev.Kind {
		case llmengine.EventThinkingDelta:
			if !emit(EventThought, ThoughtPayload{Content: ev.Delta, Done: false}) {
				return llmengine.Envelope{}, false
			}
		case llmengine.EventError:
			fail(StateLLMGeneration, ev.Code, ev.Message)
			return llmengine.Envelope{}, false
		case llmengine.EventFinal:
			if !emit(EventThought, ThoughtPayload{Content: ev.Envelope.Thinking, Done: true}) {
				return llmengine.Envelope{}, false
			}
			if !ev.Envelope.HasQuery() {
				message := ev.Envelope.Thinking
				if message == "" {
					message = "the model could not produce a query for this question"
				}
				fail(StateLLMGeneration, ErrNoSQL, message)
				return llmengine.Envelope{}, false
			}
			return ev.Envelope, true
		}
	}

	slog.Warn("llm stream closed without a terminal event", "question", p.masker.Mask(question))
	return llmengine.Envelope{}, false
}

// firewallErrorDetails unwraps a firewall.RejectionError into its external
// error code, falling back to a generic code for anything else the
// Validator might return.
func firewallErrorDetails(err error) (code, message string) {
	var rejection *firewall.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Code, rejection.Message
	}
	return "VALIDATION_FAILED", err.Error()
}

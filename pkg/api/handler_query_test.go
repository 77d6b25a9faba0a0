package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlpilot/orchestrator/pkg/llmengine"
	"github.com/sqlpilot/orchestrator/pkg/pipeline"
	"github.com/sqlpilot/orchestrator/pkg/queryexec"
)

type fakeLimiter struct{}

func (fakeLimiter) Admit(string) error { return nil }
func (fakeLimiter) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Second)
}

type fakeRetriever struct{}

func (fakeRetriever) Retrieve(context.Context, string) (string, error) {
	return "orders(id, status)", nil
}

type fakeEngine struct{}

func (fakeEngine) GenerateStream(context.Context, string, string) <-chan llmengine.Event {
	ch := make(chan llmengine.Event, 2)
	ch <- llmengine.Event{Kind: llmengine.EventThinkingDelta, Delta: "thinking"}
	ch <- llmengine.Event{Kind: llmengine.EventFinal, Envelope: llmengine.Envelope{
		SQL:       "SELECT id FROM orders",
		ChartType: "table",
	}}
	close(ch)
	return ch
}

func fakeValidator(sql string, maxRows int) (string, error) {
	return sql + " LIMIT 1000", nil
}

type fakeExecutor struct{}

func (fakeExecutor) Execute(context.Context, string) (*queryexec.Result, error) {
	return &queryexec.Result{Columns: []string{"id"}, Rows: [][]any{{1}}}, nil
}

type fakeRecorder struct{}

func (fakeRecorder) Record(context.Context, pipeline.RunOutcome) {}

func TestQueryHandler_StreamsSSEEvents(t *testing.T) {
	pl := pipeline.New(fakeLimiter{}, fakeRetriever{}, fakeEngine{}, fakeValidator, fakeExecutor{}, fakeRecorder{}, 1000)
	s := &Server{echo: echo.New(), pipeline: pl}

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"how many orders?"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	require.NoError(t, s.queryHandler(c))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: state")
	assert.Contains(t, body, "event: sql")
	assert.Contains(t, body, "event: data")
	assert.Contains(t, body, "event: done")

	scanner := bufio.NewScanner(strings.NewReader(body))
	eventCount := 0
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: ") {
			eventCount++
		}
	}
	assert.Greater(t, eventCount, 0)
}

func TestQueryHandler_MissingQuestion(t *testing.T) {
	s := &Server{echo: echo.New()}

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.queryHandler(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/sqlpilot/orchestrator/pkg/pipeline"
)

// queryHandler handles POST /query: runs the pipeline for one question and
// streams its event channel to the client as Server-Sent Events, flushing
// after every event so partial results (thought tokens, the first data
// rows) reach the client without buffering.
func (s *Server) queryHandler(c *echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question field is required")
	}
	clientID := req.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	resp := c.Response()
	resp.Header().Set("Content-Type", "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	events := s.pipeline.Run(c.Request().Context(), req.Question, clientID)
	for ev := range events {
		if err := writeSSE(resp, ev); err != nil {
			return nil
		}
	}
	return nil
}

func writeSSE(w http.ResponseWriter, ev pipeline.Event) error {
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, body); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Package api provides the HTTP gateway: POST /query (SSE), GET /health,
// and the schema-index administrative endpoints.
package api

import (
	"context"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sqlpilot/orchestrator/pkg/catalog"
	"github.com/sqlpilot/orchestrator/pkg/pipeline"
	"github.com/sqlpilot/orchestrator/pkg/schemaindex"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	pool      *pgxpool.Pool
	index     *schemaindex.Index
	extractor *catalog.Extractor
	pipeline  *pipeline.Pipeline
}

// NewServer creates a new API server with Echo v5.
func NewServer(pool *pgxpool.Pool, index *schemaindex.Index, extractor *catalog.Extractor, pl *pipeline.Pipeline) *Server {
	e := echo.New()

	s := &Server{
		echo:      e,
		pool:      pool,
		index:     index,
		extractor: extractor,
		pipeline:  pl,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)
	s.echo.POST("/query", s.queryHandler)
	s.echo.GET("/schema/status", s.schemaStatusHandler)
	s.echo.POST("/schema/reindex", s.schemaReindexHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.echo,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener. Used
// by tests to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

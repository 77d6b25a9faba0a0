package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/sqlpilot/orchestrator/pkg/database"
	"github.com/sqlpilot/orchestrator/pkg/version"
)

// healthHandler handles GET /health: pings the database and the schema
// index, and reports unhealthy (503) if either is unreachable.
func (s *Server) healthHandler(c *echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	httpStatus := http.StatusOK

	dbHealth := HealthCheck{Status: "healthy"}
	if _, err := database.Health(ctx, s.pool); err != nil {
		dbHealth = HealthCheck{Status: "unhealthy", Message: err.Error()}
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	}

	schemaHealth := HealthCheck{Status: "healthy"}
	if _, err := s.index.Count(ctx); err != nil {
		schemaHealth = HealthCheck{Status: "unhealthy", Message: err.Error()}
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, &HealthResponse{
		Status:   status,
		Version:  version.Full(),
		Database: dbHealth,
		Schema:   schemaHealth,
	})
}

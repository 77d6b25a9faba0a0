package api

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// mapServerError logs and wraps an internal error (schema reindex, health
// checks) as a generic 500; client-facing detail belongs in validation
// errors returned directly from handlers, not here.
func mapServerError(context string, err error) *echo.HTTPError {
	slog.Error("internal server error", "context", context, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

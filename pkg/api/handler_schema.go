package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/sqlpilot/orchestrator/pkg/catalog"
)

// catalogNamespace is the Postgres schema the extractor introspects.
// Exposed as a constant rather than a config field since this repo talks
// to exactly one application database and schema.
const catalogNamespace = "public"

// schemaStatusHandler handles GET /schema/status.
func (s *Server) schemaStatusHandler(c *echo.Context) error {
	count, err := s.index.Count(c.Request().Context())
	if err != nil {
		return mapServerError("schema status", err)
	}
	return c.JSON(http.StatusOK, &SchemaStatusResponse{DocumentCount: count})
}

// schemaReindexHandler handles POST /schema/reindex: re-extracts the
// catalog and rebuilds the schema index from scratch. Administrative —
// not on the query pipeline's critical path.
func (s *Server) schemaReindexHandler(c *echo.Context) error {
	ctx := c.Request().Context()

	tables, err := s.extractor.Extract(ctx, catalogNamespace)
	if err != nil {
		return mapServerError("schema extract", err)
	}

	if err := s.index.Reset(ctx); err != nil {
		return mapServerError("schema reset", err)
	}

	docs := catalog.FormatForEmbedding(tables)
	if err := s.index.Upsert(ctx, docs); err != nil {
		return mapServerError("schema upsert", err)
	}

	return c.JSON(http.StatusOK, &SchemaReindexResponse{TablesIndexed: len(tables)})
}

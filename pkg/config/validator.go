package config

import (
	"fmt"
	"net/url"
)

// validate performs fail-fast validation of fully-defaulted settings.
func validate(s *Settings) error {
	if s.Database.URL == "" {
		return newValidationError("database.url", fmt.Errorf("must not be empty"))
	}
	if _, err := url.Parse(s.Database.URL); err != nil {
		return newValidationError("database.url", err)
	}

	if s.LLM.Endpoint == "" {
		return newValidationError("llm.endpoint", fmt.Errorf("must not be empty"))
	}
	if s.LLM.APIKey == "" {
		return newValidationError("llm.api_key", fmt.Errorf("must not be empty"))
	}
	if s.LLM.EmbeddingDimensions < 1 {
		return newValidationError("llm.embedding_dimensions", fmt.Errorf("must be positive, got %d", s.LLM.EmbeddingDimensions))
	}

	if s.SQL.MaxRows < 1 {
		return newValidationError("sql.max_rows", fmt.Errorf("must be at least 1, got %d", s.SQL.MaxRows))
	}
	if s.SQL.Timeout <= 0 {
		return newValidationError("sql.timeout", fmt.Errorf("must be positive, got %v", s.SQL.Timeout))
	}
	if s.SQL.MaxRetries < 0 {
		return newValidationError("sql.max_retries", fmt.Errorf("must be non-negative, got %d", s.SQL.MaxRetries))
	}

	if s.RateLimit.PerMinute < 1 {
		return newValidationError("rate_limit.per_minute", fmt.Errorf("must be at least 1, got %d", s.RateLimit.PerMinute))
	}

	if s.Database.MaxConns < 1 {
		return newValidationError("database.max_conns", fmt.Errorf("must be at least 1, got %d", s.Database.MaxConns))
	}

	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return newValidationError("server.port", fmt.Errorf("must be a valid TCP port, got %d", s.Server.Port))
	}

	if s.Qdrant.Host == "" {
		return newValidationError("qdrant.host", fmt.Errorf("must not be empty"))
	}
	if s.Qdrant.Collection == "" {
		return newValidationError("qdrant.collection", fmt.Errorf("must not be empty"))
	}

	return nil
}

package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads configPath (a config.yaml-shaped file), expands environment
// variables, applies defaults, layers the LLM_API_KEY and DATABASE_URL
// environment overrides on top (for secrets operators don't want to
// write to disk), validates the result, and returns ready-to-use
// settings.
func Load(configPath string) (*Settings, error) {
	log := slog.With("config_path", configPath)
	log.Info("loading configuration")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, err
	}

	data = expandEnv(data)

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	applyEnvOverrides(&settings)

	if err := applyDefaults(&settings); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}

	if err := validate(&settings); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration loaded",
		"server_port", settings.Server.Port,
		"qdrant_collection", settings.Qdrant.Collection,
		"llm_chat_model", settings.LLM.ChatModel,
		"sql_max_rows", settings.SQL.MaxRows,
		"rate_per_minute", settings.RateLimit.PerMinute)

	return &settings, nil
}

// applyEnvOverrides layers the two secrets operators are expected to
// inject via environment rather than commit to config.yaml.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		s.Database.URL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		s.LLM.APIKey = v
	}
}

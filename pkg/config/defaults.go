package config

import (
	"time"

	"dario.cat/mergo"
)

// Built-in defaults applied to any field left unset by config.yaml.
const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultQdrantHost       = "localhost"
	DefaultQdrantPort       = 6334
	DefaultQdrantCollection = "schema_embeddings"

	DefaultChatModel           = "gpt-4o-mini"
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultEmbeddingDimensions = 1536

	DefaultSQLMaxRows    = 1000
	DefaultSQLTimeout    = 30 * time.Second
	DefaultSQLMaxRetries = 0

	DefaultRatePerMinute = 30

	DefaultDBMaxConns        = 10
	DefaultDBMaxConnLifetime = 1 * time.Hour
	DefaultDBMaxConnIdleTime = 30 * time.Minute
)

// builtinDefaults is the base Settings value mergo.Merge overlays
// YAML-loaded settings onto: any field the YAML left zero keeps its
// value from here.
func builtinDefaults() Settings {
	return Settings{
		Server: ServerConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
		Qdrant: QdrantConfig{
			Host:       DefaultQdrantHost,
			Port:       DefaultQdrantPort,
			Collection: DefaultQdrantCollection,
		},
		LLM: LLMConfig{
			ChatModel:           DefaultChatModel,
			EmbeddingModel:      DefaultEmbeddingModel,
			EmbeddingDimensions: DefaultEmbeddingDimensions,
		},
		SQL: SQLConfig{
			MaxRows:    DefaultSQLMaxRows,
			Timeout:    DefaultSQLTimeout,
			MaxRetries: DefaultSQLMaxRetries,
		},
		RateLimit: RateLimitConfig{
			PerMinute: DefaultRatePerMinute,
		},
		Database: DatabaseConfig{
			MaxConns:        DefaultDBMaxConns,
			MaxConnLifetime: DefaultDBMaxConnLifetime,
			MaxConnIdleTime: DefaultDBMaxConnIdleTime,
		},
	}
}

// applyDefaults merges loaded on top of the built-in defaults: any
// field loaded left zero-valued keeps its default. Called after YAML
// load and env overrides, before validation.
func applyDefaults(loaded *Settings) error {
	defaults := builtinDefaults()
	if err := mergo.Merge(&defaults, loaded, mergo.WithOverride); err != nil {
		return err
	}
	*loaded = defaults
	return nil
}

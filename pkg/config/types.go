// Package config loads process settings from a YAML file plus
// environment-variable overrides, applies defaults, and validates the
// result before the rest of the application starts using it.
package config

import "time"

// Settings is the umbrella configuration object returned by Load and
// used throughout the application.
type Settings struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	LLM       LLMConfig
	SQL       SQLConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds the HTTP gateway's listen settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the Postgres connection pool settings.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// QdrantConfig addresses the schema-embedding vector store.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
	// StorageDir documents where the Qdrant instance this process talks
	// to persists its on-disk data; it is operational metadata (logged
	// at startup) and not itself opened by this process.
	StorageDir string `yaml:"storage_dir"`
}

// LLMConfig addresses the OpenAI-compatible chat/embedding endpoint.
type LLMConfig struct {
	Endpoint            string `yaml:"endpoint"`
	APIKey              string `yaml:"api_key"`
	ChatModel           string `yaml:"chat_model"`
	EmbeddingModel      string `yaml:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
}

// SQLConfig bounds the firewall and executor.
type SQLConfig struct {
	MaxRows int           `yaml:"max_rows"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is accepted for forward-compatibility with the
	// historical retry-on-invalid-SQL policy but is not consulted by
	// the fast-fail state machine.
	MaxRetries int `yaml:"max_retries"`
}

// RateLimitConfig bounds the query limiter.
type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

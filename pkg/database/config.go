// Package database manages the PostgreSQL connection pool used by the
// catalog extractor, the SQL executor, and the audit log, plus the
// migrations that create the audit schema.
package database

import "time"

// Config holds the settings needed to open a connection pool.
type Config struct {
	URL string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultMaxConns is applied when Config.MaxConns is zero.
const DefaultMaxConns = 10

package config

import "os"

// expandEnv expands environment variables in YAML content using Go's
// standard library. Supports both ${VAR} and $VAR syntax. Missing
// variables expand to the empty string; validation catches any
// resulting required-field gap.
func expandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

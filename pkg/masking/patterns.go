package masking

// CompiledPattern is a regex rule paired with its replacement text.
type CompiledPattern struct {
	Name        string
	Pattern     string
	Replacement string
}

// builtinPatterns returns the fixed set of secret-shaped patterns masked out
// of logged and persisted text (audit records, error messages, slog fields).
// Order matters: connection_string and token-ish patterns run before the
// generic base64 catch-all so they get first crack at overlapping matches.
func builtinPatterns() []CompiledPattern {
	return []CompiledPattern{
		{
			Name:        "connection_string",
			Pattern:     `(?i)(postgres(?:ql)?|mysql|mongodb(?:\+srv)?)://[^:\s]+:[^@\s]+@`,
			Replacement: `$1://[MASKED_CREDENTIALS]@`,
		},
		{
			Name:        "api_key",
			Pattern:     `(?i)(?:api[_-]?key|apikey)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-]{20,})["']?`,
			Replacement: `"api_key": "[MASKED_API_KEY]"`,
		},
		{
			Name:        "token",
			Pattern:     `(?i)(?:token|bearer|jwt)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-.]{20,})["']?`,
			Replacement: `"token": "[MASKED_TOKEN]"`,
		},
		{
			Name:        "password",
			Pattern:     `(?i)(?:password|pwd|pass)["']?\s*[:=]\s*["']?([^"'\s\n]{6,})["']?`,
			Replacement: `"password": "[MASKED_PASSWORD]"`,
		},
		{
			Name:        "aws_access_key",
			Pattern:     `AKIA[A-Z0-9]{16}`,
			Replacement: `[MASKED_AWS_KEY]`,
		},
		{
			Name:        "github_token",
			Pattern:     `gh[ps]_[A-Za-z0-9_]{36,255}`,
			Replacement: `[MASKED_GITHUB_TOKEN]`,
		},
	}
}

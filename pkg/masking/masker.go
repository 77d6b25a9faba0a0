// Package masking redacts secret-shaped substrings from text before it is
// logged or persisted. It never touches SQL headed for the firewall or
// executor — only human- and audit-facing strings.
package masking

import (
	"log/slog"
	"regexp"
)

type compiled struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Service masks a fixed set of compiled regex patterns against text.
// Stateless after construction and safe for concurrent use.
type Service struct {
	patterns []compiled
}

// New compiles the built-in pattern set. A pattern that fails to compile is
// logged and skipped rather than failing construction.
func New() *Service {
	builtin := builtinPatterns()
	compiledPatterns := make([]compiled, 0, len(builtin))
	for _, p := range builtin {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			slog.Error("masking: skipping pattern with invalid regex", "pattern", p.Name, "error", err)
			continue
		}
		compiledPatterns = append(compiledPatterns, compiled{name: p.Name, regex: re, replacement: p.Replacement})
	}
	return &Service{patterns: compiledPatterns}
}

// Mask applies every compiled pattern to text in order and returns the
// result. Safe to call on empty or already-masked text.
func (s *Service) Mask(text string) string {
	if text == "" {
		return text
	}
	masked := text
	for _, p := range s.patterns {
		masked = p.regex.ReplaceAllString(masked, p.replacement)
	}
	return masked
}

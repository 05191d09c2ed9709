package config

import (
	"log/slog"
	"regexp"
)

// Redactor applies a compiled set of regex patterns to strip credentials
// from text before it reaches the execution log or ambient logging. It
// replaces pkg/masking's Kubernetes-secret-shaped masking with a smaller,
// domain-agnostic pattern table: there is no MCP tool output to scan here,
// only request/response bodies exchanged with upstream integrations and
// LLM providers.
type Redactor struct {
	patterns []*compiledPattern
}

type compiledPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor compiles the built-in patterns plus any custom patterns from
// cfg. Patterns that fail to compile are logged and skipped rather than
// failing startup.
func NewRedactor(cfg *RedactionConfig) *Redactor {
	r := &Redactor{}

	for _, p := range GetBuiltinConfig().RedactionPatterns {
		r.addPattern(p.Name, p.Pattern, p.Replacement)
	}

	if cfg != nil {
		for _, p := range cfg.CustomPatterns {
			r.addPattern(p.Name, p.Pattern, p.Replacement)
		}
	}

	return r
}

func (r *Redactor) addPattern(name, pattern, replacement string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		slog.Error("failed to compile redaction pattern, skipping", "pattern", name, "error", err)
		return
	}
	r.patterns = append(r.patterns, &compiledPattern{name: name, regex: re, replacement: replacement})
}

// Redact applies every compiled pattern to s in registration order and
// returns the scrubbed string.
func (r *Redactor) Redact(s string) string {
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

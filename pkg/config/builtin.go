package config

import "sync"

// BuiltinConfig holds built-in configuration data shipped with the binary:
// a minimal generic web-search integration usable without any deployment
// config, and the credential redaction patterns applied to execution log
// payloads.
type BuiltinConfig struct {
	Integrations      map[string]IntegrationConfig
	LLMProviders      map[string]LLMProviderConfig
	RedactionPatterns map[string]RedactionPattern
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration
// (thread-safe, lazily initialized on first use).
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		Integrations:      initBuiltinIntegrations(),
		LLMProviders:      map[string]LLMProviderConfig{},
		RedactionPatterns: initBuiltinRedactionPatterns(),
	}
}

func initBuiltinIntegrations() map[string]IntegrationConfig {
	return map[string]IntegrationConfig{
		"web-search": {
			Category:              CategoryWebSearch,
			Enabled:                true,
			RateLimitPerMinute:     60,
			RequestTimeoutSeconds:  30,
		},
	}
}

// initBuiltinRedactionPatterns returns the always-applied credential
// patterns: bearer tokens, common API key header shapes, and basic-auth
// userinfo. Deployment-specific patterns are added on top via
// RedactionConfig.CustomPatterns.
func initBuiltinRedactionPatterns() map[string]RedactionPattern {
	return map[string]RedactionPattern{
		"bearer_token": {
			Name:        "bearer_token",
			Pattern:     `(?i)bearer\s+[a-z0-9._\-]+`,
			Replacement: "Bearer ***REDACTED***",
		},
		"api_key_param": {
			Name:        "api_key_param",
			Pattern:     `(?i)(api[_-]?key|token)=([^&\s"]+)`,
			Replacement: "$1=***REDACTED***",
		},
		"basic_auth_userinfo": {
			Name:        "basic_auth_userinfo",
			Pattern:     `://[^/@\s]+:[^/@\s]+@`,
			Replacement: "://***REDACTED***@",
		},
	}
}

package config

// Config is the umbrella configuration object encapsulating all
// registries, defaults, and configuration state. It is the primary object
// returned by Initialize and threaded through the rest of the system.
type Config struct {
	configDir string

	DataRoot string // root of the persisted-state filesystem tree (spec §6)

	Research *ResearchConstraints
	Executor *ExecutorConfig
	Monitors *MonitorsConfig
	Alerts   *AlertConfig
	Redact   *RedactionConfig

	IntegrationRegistry *IntegrationRegistry
	LLMProviderRegistry *LLMProviderRegistry

	redactor *Redactor
}

// ConfigStats contains statistics about loaded configuration, surfaced in
// startup logging.
type ConfigStats struct {
	Integrations int
	LLMProviders int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		Integrations: len(c.IntegrationRegistry.GetAll()),
		LLMProviders: len(c.LLMProviderRegistry.GetAll()),
	}
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string { return c.configDir }

// GetIntegration retrieves an integration configuration by source id.
func (c *Config) GetIntegration(sourceID string) (*IntegrationConfig, error) {
	return c.IntegrationRegistry.Get(sourceID)
}

// GetLLMProvider retrieves an LLM provider configuration by name.
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}

// Redactor returns the credential redactor built from Redact, for use by
// pkg/execlog and pkg/llmgw when logging request/response payloads.
func (c *Config) Redactor() *Redactor {
	return c.redactor
}

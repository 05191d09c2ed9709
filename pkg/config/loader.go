package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ResearchYAMLConfig represents the complete research.yaml file structure.
type ResearchYAMLConfig struct {
	DataRoot     string                         `yaml:"data_root"`
	Integrations map[string]IntegrationConfig   `yaml:"integrations"`
	LLMProviders map[string]LLMProviderConfig   `yaml:"llm_providers"`
	Research     *ResearchConstraints           `yaml:"research"`
	Executor     *ExecutorConfig                `yaml:"executor"`
	Monitors     *MonitorsConfig                `yaml:"monitors"`
	Alerts       *AlertConfig                    `yaml:"alerts"`
	Redact       *RedactionConfig                `yaml:"redact"`
}

// Initialize loads, validates, and returns ready-to-use configuration. This
// is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load research.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined integrations and LLM providers
//  5. Build in-memory registries
//  6. Apply default values
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("configuration initialized",
		"integrations", stats.Integrations,
		"llm_providers", stats.LLMProviders)

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	raw, err := loader.loadResearchYAML()
	if err != nil {
		return nil, NewLoadError("research.yaml", err)
	}

	builtin := GetBuiltinConfig()

	integrations := mergeIntegrations(builtin.Integrations, raw.Integrations)
	llmProviders := mergeLLMProviders(builtin.LLMProviders, raw.LLMProviders)

	integrationRegistry := NewIntegrationRegistry(integrations)
	llmProviderRegistry := NewLLMProviderRegistry(llmProviders)

	research := raw.Research
	if research == nil {
		research = &ResearchConstraints{}
	}
	applyResearchDefaults(research)

	executor := raw.Executor
	if executor == nil {
		executor = &ExecutorConfig{}
	}
	applyExecutorDefaults(executor)

	monitors := raw.Monitors
	if monitors == nil {
		monitors = &MonitorsConfig{}
	}
	if monitors.ConfigDir == "" {
		monitors.ConfigDir = filepath.Join(dataRootOrDefault(raw.DataRoot), "monitors", "configs")
	}
	if monitors.StateDir == "" {
		monitors.StateDir = filepath.Join(dataRootOrDefault(raw.DataRoot), "monitors", "state")
	}

	alerts := raw.Alerts
	if alerts == nil {
		alerts = &AlertConfig{}
	}

	redactCfg := raw.Redact
	if redactCfg == nil {
		redactCfg = &RedactionConfig{Enabled: true}
	}

	return &Config{
		configDir:           configDir,
		DataRoot:            dataRootOrDefault(raw.DataRoot),
		Research:            research,
		Executor:            executor,
		Monitors:            monitors,
		Alerts:              alerts,
		Redact:              redactCfg,
		IntegrationRegistry: integrationRegistry,
		LLMProviderRegistry: llmProviderRegistry,
		redactor:            NewRedactor(redactCfg),
	}, nil
}

func dataRootOrDefault(dataRoot string) string {
	if dataRoot != "" {
		return dataRoot
	}
	return "./data"
}

func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadResearchYAML() (*ResearchYAMLConfig, error) {
	var raw ResearchYAMLConfig
	raw.Integrations = make(map[string]IntegrationConfig)
	raw.LLMProviders = make(map[string]LLMProviderConfig)

	if err := l.loadYAML("research.yaml", &raw); err != nil {
		return nil, err
	}

	return &raw, nil
}

package config

import "time"

// Shared types used across configuration structs.

// TransportConfig defines the wire transport for an MCP-backed integration
// adapter. Integrations that talk to a plain HTTP API (most of them) leave
// this nil; it is only populated for adapters registered with an
// underlying MCP client.
type TransportConfig struct {
	Type TransportType `yaml:"type" validate:"required,transporttype"`

	// For stdio transport
	Command string   `yaml:"command,omitempty" validate:"required_if=Type stdio"`
	Args    []string `yaml:"args,omitempty"`

	// For http/sse transport
	URL         string `yaml:"url,omitempty" validate:"required_unless=Type stdio"`
	BearerToken string `yaml:"bearer_token,omitempty"`
	VerifySSL   *bool  `yaml:"verify_ssl,omitempty"`
	Timeout     int    `yaml:"timeout,omitempty"` // seconds
}

// RedactionPattern defines a regex-based credential redaction rule applied
// to execution log payloads before they are written to disk.
type RedactionPattern struct {
	Name        string `yaml:"name" validate:"required"`
	Pattern     string `yaml:"pattern" validate:"required"`
	Replacement string `yaml:"replacement" validate:"required"`
}

// RedactionConfig lists additional credential patterns to scrub from logged
// request/response bodies, on top of the built-in set (see redact.go).
type RedactionConfig struct {
	Enabled        bool               `yaml:"enabled"`
	CustomPatterns []RedactionPattern `yaml:"custom_patterns,omitempty"`
}

// ResearchConstraints mirrors the Constraints record of a research run:
// the bounds the scheduling loop enforces while iterating. Any field left
// unset (zero value) is filled from DefaultResearchConstraints by
// Initialize (applyResearchDefaults).
type ResearchConstraints struct {
	MaxTasks             int     `yaml:"max_tasks,omitempty" validate:"omitempty,min=1"`
	MaxRetriesPerTask     int     `yaml:"max_retries_per_task,omitempty" validate:"omitempty,min=0"`
	MaxTimeMinutes        int     `yaml:"max_time_minutes,omitempty" validate:"omitempty,min=1"`
	MinResultsPerTask     int     `yaml:"min_results_per_task,omitempty" validate:"omitempty,min=0"`
	MaxConcurrentTasks    int     `yaml:"max_concurrent_tasks,omitempty" validate:"omitempty,min=1"`
	RelevanceThreshold    int     `yaml:"relevance_threshold,omitempty" validate:"omitempty,min=0,max=10"`
	SensitiveThreshold    int     `yaml:"sensitive_relevance_threshold,omitempty" validate:"omitempty,min=0,max=10"`
	MinSourceUtilization  float64 `yaml:"min_source_utilization,omitempty" validate:"omitempty,min=0,max=1"`
}

// ExecutorConfig tunes the bounded fan-out/fan-in parallel executor shared
// by source selection, monitor query generation and search execution.
type ExecutorConfig struct {
	Concurrency         int           `yaml:"concurrency,omitempty" validate:"min=1"`
	RelevanceTimeout    time.Duration `yaml:"relevance_timeout,omitempty"`
	QueryGenTimeout     time.Duration `yaml:"query_gen_timeout,omitempty"`
	SearchTimeout       time.Duration `yaml:"search_timeout,omitempty"`
}

// MonitorsConfig points at the filesystem tree the Boolean monitor
// subsystem persists its YAML configs and sibling .state files under.
type MonitorsConfig struct {
	ConfigDir string `yaml:"config_dir,omitempty"`
	StateDir  string `yaml:"state_dir,omitempty"`
}

// AlertConfig configures the channels a triggered monitor can deliver
// alerts through.
type AlertConfig struct {
	Slack   *SlackAlertConfig   `yaml:"slack,omitempty"`
	Email   *EmailAlertConfig   `yaml:"email,omitempty"`
	Webhook *WebhookAlertConfig `yaml:"webhook,omitempty"`
}

// SlackAlertConfig holds Slack delivery settings.
type SlackAlertConfig struct {
	Enabled  bool   `yaml:"enabled"`
	TokenEnv string `yaml:"token_env,omitempty" validate:"required_if=Enabled true"`
	Channel  string `yaml:"channel,omitempty" validate:"required_if=Enabled true"`
}

// EmailAlertConfig holds SMTP delivery settings.
type EmailAlertConfig struct {
	Enabled    bool     `yaml:"enabled"`
	SMTPHost   string   `yaml:"smtp_host,omitempty" validate:"required_if=Enabled true"`
	SMTPPort   int      `yaml:"smtp_port,omitempty"`
	FromAddr   string   `yaml:"from_addr,omitempty"`
	ToAddrs    []string `yaml:"to_addrs,omitempty" validate:"required_if=Enabled true"`
	PasswordEnv string  `yaml:"password_env,omitempty"`
}

// WebhookAlertConfig holds generic HTTP webhook delivery settings.
type WebhookAlertConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty" validate:"required_if=Enabled true,omitempty,url"`
}

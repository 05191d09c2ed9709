package config

import "time"

// Built-in defaults applied when a deployment's research.yaml leaves the
// corresponding field unset. These mirror the constraint values spec.md
// §4.3 names as the system default.
const (
	DefaultMaxTasks              = 10
	DefaultMaxRetriesPerTask     = 2
	DefaultMaxTimeMinutes        = 60
	DefaultMinResultsPerTask     = 3
	DefaultMaxConcurrentTasks    = 4
	DefaultRelevanceThreshold    = 3
	DefaultSensitiveThreshold    = 1
	DefaultMinSourceUtilization = 0.5

	DefaultExecutorConcurrency  = 8
	DefaultRelevanceTimeout     = 5 * time.Second
	DefaultQueryGenTimeout      = 30 * time.Second
	DefaultSearchTimeout        = 60 * time.Second

	DefaultLLMMaxOutputTokens = 4096
)

// DefaultResearchConstraints returns the built-in ResearchConstraints,
// applied to any field left at its zero value in the loaded YAML.
func DefaultResearchConstraints() *ResearchConstraints {
	return &ResearchConstraints{
		MaxTasks:             DefaultMaxTasks,
		MaxRetriesPerTask:    DefaultMaxRetriesPerTask,
		MaxTimeMinutes:       DefaultMaxTimeMinutes,
		MinResultsPerTask:    DefaultMinResultsPerTask,
		MaxConcurrentTasks:   DefaultMaxConcurrentTasks,
		RelevanceThreshold:   DefaultRelevanceThreshold,
		SensitiveThreshold:   DefaultSensitiveThreshold,
		MinSourceUtilization: DefaultMinSourceUtilization,
	}
}

// DefaultExecutorConfig returns the built-in ExecutorConfig.
func DefaultExecutorConfig() *ExecutorConfig {
	return &ExecutorConfig{
		Concurrency:      DefaultExecutorConcurrency,
		RelevanceTimeout: DefaultRelevanceTimeout,
		QueryGenTimeout:  DefaultQueryGenTimeout,
		SearchTimeout:    DefaultSearchTimeout,
	}
}

// applyResearchDefaults fills zero-valued fields of c from the built-in
// defaults. User-supplied non-zero values are always preserved.
func applyResearchDefaults(c *ResearchConstraints) {
	d := DefaultResearchConstraints()
	if c.MaxTasks == 0 {
		c.MaxTasks = d.MaxTasks
	}
	if c.MaxRetriesPerTask == 0 {
		c.MaxRetriesPerTask = d.MaxRetriesPerTask
	}
	if c.MaxTimeMinutes == 0 {
		c.MaxTimeMinutes = d.MaxTimeMinutes
	}
	if c.MinResultsPerTask == 0 {
		c.MinResultsPerTask = d.MinResultsPerTask
	}
	if c.MaxConcurrentTasks == 0 {
		c.MaxConcurrentTasks = d.MaxConcurrentTasks
	}
	if c.RelevanceThreshold == 0 {
		c.RelevanceThreshold = d.RelevanceThreshold
	}
	if c.SensitiveThreshold == 0 {
		c.SensitiveThreshold = d.SensitiveThreshold
	}
	if c.MinSourceUtilization == 0 {
		c.MinSourceUtilization = d.MinSourceUtilization
	}
}

// applyExecutorDefaults fills zero-valued fields of c from the built-in defaults.
func applyExecutorDefaults(c *ExecutorConfig) {
	d := DefaultExecutorConfig()
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	if c.RelevanceTimeout == 0 {
		c.RelevanceTimeout = d.RelevanceTimeout
	}
	if c.QueryGenTimeout == 0 {
		c.QueryGenTimeout = d.QueryGenTimeout
	}
	if c.SearchTimeout == 0 {
		c.SearchTimeout = d.SearchTimeout
	}
}

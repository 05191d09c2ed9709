package llmgw

// resolvedCallOptions is what a Transport actually sends after provider
// quirks have been applied to the configured defaults.
type resolvedCallOptions struct {
	model           string
	maxOutputTokens int // 0 means "omit from the request"
	temperature     float64
	setTemperature  bool
}

// applyQuirks resolves call options from a provider config, stripping the
// explicit output-token cap and temperature override for reasoning models.
// Reasoning-model APIs (o-series and similar) reject both parameters
// outright; every other model family gets them set from configuration.
func applyQuirks(cfg *providerConfig) resolvedCallOptions {
	opts := resolvedCallOptions{model: cfg.Model}

	if cfg.Reasoning {
		return opts
	}

	if cfg.MaxOutputTokens > 0 {
		opts.maxOutputTokens = cfg.MaxOutputTokens
	} else {
		opts.maxOutputTokens = DefaultMaxOutputTokens
	}
	opts.temperature = 0
	opts.setTemperature = true

	return opts
}

// DefaultMaxOutputTokens is used when a non-reasoning provider leaves
// MaxOutputTokens unset.
const DefaultMaxOutputTokens = 4096

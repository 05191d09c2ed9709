package config

import "dario.cat/mergo"

// mergeIntegrations merges built-in and user-defined integration
// configurations. For a source id present in both maps, the user entry is
// deep-merged field-by-field over a copy of the built-in entry — a user
// override that only sets api_key_env, say, still inherits the built-in's
// category, rate limit and transport rather than discarding them, which a
// flat whole-value replace would do. An id present in only one map is
// copied as-is.
func mergeIntegrations(builtin map[string]IntegrationConfig, user map[string]IntegrationConfig) map[string]*IntegrationConfig {
	result := make(map[string]*IntegrationConfig, len(builtin)+len(user))

	for id, cfg := range builtin {
		cfgCopy := cfg
		result[id] = &cfgCopy
	}

	for id, userCfg := range user {
		base, ok := builtin[id]
		if !ok {
			cfgCopy := userCfg
			result[id] = &cfgCopy
			continue
		}
		merged := base
		if err := mergo.Merge(&merged, userCfg, mergo.WithOverride); err != nil {
			// mergo only fails on incompatible types, which can't happen
			// merging a struct into a copy of itself; fall back to the
			// user's value outright rather than propagate an error type
			// this function's callers don't expect.
			mergedCopy := userCfg
			result[id] = &mergedCopy
			continue
		}
		result[id] = &merged
	}

	return result
}

// mergeLLMProviders merges built-in and user-defined LLM provider
// configurations with the same per-id deep-merge semantics as
// mergeIntegrations.
func mergeLLMProviders(builtin map[string]LLMProviderConfig, user map[string]LLMProviderConfig) map[string]*LLMProviderConfig {
	result := make(map[string]*LLMProviderConfig, len(builtin)+len(user))

	for name, cfg := range builtin {
		cfgCopy := cfg
		result[name] = &cfgCopy
	}

	for name, userCfg := range user {
		base, ok := builtin[name]
		if !ok {
			cfgCopy := userCfg
			result[name] = &cfgCopy
			continue
		}
		merged := base
		if err := mergo.Merge(&merged, userCfg, mergo.WithOverride); err != nil {
			mergedCopy := userCfg
			result[name] = &mergedCopy
			continue
		}
		result[name] = &merged
	}

	return result
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// structValidator drives every struct-tag check declared on the config
// types in this package (IntegrationConfig, LLMProviderConfig,
// TransportConfig, ResearchConstraints, ExecutorConfig, the alert configs).
// One package-level instance, reused across loads: validator.Validate
// caches each struct's reflected tag set on first use.
var structValidator = validator.New()

func init() {
	// Report failures by yaml key (what a deployer actually wrote in
	// research.yaml) rather than the Go field name.
	structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	for tag, fn := range map[string]validator.Func{
		"category":        validateCategoryTag,
		"transporttype":   validateTransportTypeTag,
		"llmprovidertype": validateLLMProviderTypeTag,
	} {
		if err := structValidator.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("config: registering validator tag %q: %v", tag, err))
		}
	}
}

func validateCategoryTag(fl validator.FieldLevel) bool {
	return IntegrationCategory(fl.Field().String()).IsValid()
}

func validateTransportTypeTag(fl validator.FieldLevel) bool {
	return TransportType(fl.Field().String()).IsValid()
}

func validateLLMProviderTypeTag(fl validator.FieldLevel) bool {
	return LLMProviderType(fl.Field().String()).IsValid()
}

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast: stops at the
// first error). Integrations are validated before LLM providers since
// provider references (none yet) would depend on them existing first.
func (v *Validator) ValidateAll() error {
	if err := v.validateIntegrations(); err != nil {
		return fmt.Errorf("integration validation failed: %w", err)
	}
	if err := v.validateLLMProviders(); err != nil {
		return fmt.Errorf("LLM provider validation failed: %w", err)
	}
	if err := v.validateResearch(); err != nil {
		return fmt.Errorf("research validation failed: %w", err)
	}
	if err := v.validateExecutor(); err != nil {
		return fmt.Errorf("executor validation failed: %w", err)
	}
	if err := v.validateAlerts(); err != nil {
		return fmt.Errorf("alert validation failed: %w", err)
	}
	return nil
}

// firstTagError reduces a validator.ValidationErrors slice to its first
// failure, wrapped as a *ValidationError so callers keep the component/id
// shape regardless of whether the failure came from a struct tag or one of
// the hand-written checks below.
func firstTagError(component, id string, err error) error {
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return NewValidationError(component, id, fe.Field(), fmt.Errorf("failed %q validation (value %v)", fe.Tag(), fe.Value()))
	}
	return NewValidationError(component, id, "", err)
}

func (v *Validator) validateIntegrations() error {
	for id, cfg := range v.cfg.IntegrationRegistry.GetAll() {
		if err := structValidator.Struct(cfg); err != nil {
			return firstTagError("integration", id, err)
		}
		if cfg.Transport != nil {
			if err := structValidator.Struct(cfg.Transport); err != nil {
				return firstTagError("integration", id, err)
			}
		}

		// Struct tags cover shape; whether the credential actually exists in
		// the process environment is a runtime fact no tag can express.
		if cfg.Enabled && cfg.APIKeyEnv != "" {
			if os.Getenv(cfg.APIKeyEnv) == "" {
				return NewValidationError("integration", id, "api_key_env", fmt.Errorf("environment variable %s is not set", cfg.APIKeyEnv))
			}
		}
	}

	return nil
}

func (v *Validator) validateLLMProviders() error {
	for name, provider := range v.cfg.LLMProviderRegistry.GetAll() {
		if err := structValidator.Struct(provider); err != nil {
			return firstTagError("llm_provider", name, err)
		}
		if provider.APIKeyEnv != "" {
			if os.Getenv(provider.APIKeyEnv) == "" {
				return NewValidationError("llm_provider", name, "api_key_env", fmt.Errorf("environment variable %s is not set", provider.APIKeyEnv))
			}
		}
		// Cross-field rule (both sides non-zero), not expressible as a tag
		// on either field alone without referencing the other's value.
		if provider.Reasoning && provider.MaxOutputTokens != 0 {
			return NewValidationError("llm_provider", name, "max_output_tokens", fmt.Errorf("reasoning models do not accept an explicit output-token cap"))
		}
	}

	return nil
}

func (v *Validator) validateResearch() error {
	r := v.cfg.Research
	if r == nil {
		return fmt.Errorf("research constraints are nil")
	}
	if err := structValidator.Struct(r); err != nil {
		return firstTagError("research", "constraints", err)
	}
	return nil
}

func (v *Validator) validateExecutor() error {
	e := v.cfg.Executor
	if e == nil {
		return fmt.Errorf("executor configuration is nil")
	}
	if err := structValidator.Struct(e); err != nil {
		return firstTagError("executor", "config", err)
	}
	// time.Duration validates as an int64 under the "required" tag (nonzero),
	// which doesn't exclude negative durations; a plain sign check is clearer
	// than a custom tag for a single comparison.
	if e.RelevanceTimeout <= 0 {
		return fmt.Errorf("relevance_timeout must be positive, got %v", e.RelevanceTimeout)
	}
	if e.QueryGenTimeout <= 0 {
		return fmt.Errorf("query_gen_timeout must be positive, got %v", e.QueryGenTimeout)
	}
	if e.SearchTimeout <= 0 {
		return fmt.Errorf("search_timeout must be positive, got %v", e.SearchTimeout)
	}
	return nil
}

func (v *Validator) validateAlerts() error {
	a := v.cfg.Alerts
	if a == nil {
		return nil
	}

	if a.Slack != nil {
		if err := structValidator.Struct(a.Slack); err != nil {
			return firstTagError("alert", "slack", err)
		}
		if a.Slack.Enabled && os.Getenv(a.Slack.TokenEnv) == "" {
			return NewValidationError("alert", "slack", "token_env", fmt.Errorf("environment variable %s is not set", a.Slack.TokenEnv))
		}
	}

	if a.Email != nil {
		if err := structValidator.Struct(a.Email); err != nil {
			return firstTagError("alert", "email", err)
		}
	}

	if a.Webhook != nil {
		if err := structValidator.Struct(a.Webhook); err != nil {
			return firstTagError("alert", "webhook", err)
		}
	}

	return nil
}

package llmgw

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

// Gateway is the single entry point every other package uses to talk to
// an LLM provider. It resolves the provider config, applies per-provider
// quirks, and — for structured calls — validates the response against a
// pkg/schema call site, making exactly one repair attempt (re-prompting
// with the validation errors) before giving up.
type Gateway struct {
	transport Transport
	providers *config.LLMProviderRegistry
	schemas   *schema.Registry
}

// New creates a Gateway. schemas defaults to schema.Default when nil.
func New(transport Transport, providers *config.LLMProviderRegistry, schemas *schema.Registry) *Gateway {
	if schemas == nil {
		schemas = schema.Default
	}
	return &Gateway{transport: transport, providers: providers, schemas: schemas}
}

// Generate performs a free-form (non-structured) completion call, used for
// long-form synthesis prose.
func (g *Gateway) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	cfg, err := g.providers.Get(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, req.Provider)
	}

	content, err := g.transport.Complete(ctx, cfg, req.Messages)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Content: content}, nil
}

// GenerateStructured performs a completion call whose output must validate
// against req.SchemaName. On the first validation failure it re-prompts
// once with the validation errors appended as a correction instruction;
// a second failure is returned as ErrSchemaValidation.
func (g *Gateway) GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error) {
	cfg, err := g.providers.Get(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, req.Provider)
	}

	rawSchema, ok := g.schemas.RawSchema(req.SchemaName)
	if !ok {
		return nil, fmt.Errorf("llmgw: unknown schema %q", req.SchemaName)
	}

	messages := withSchemaInstruction(req.Messages, rawSchema)

	content, err := g.transport.Complete(ctx, cfg, messages)
	if err != nil {
		return nil, err
	}

	validationErrs, err := g.schemas.Validate(req.SchemaName, []byte(content))
	if err != nil {
		return nil, err
	}
	if len(validationErrs) == 0 {
		return &StructuredResponse{Raw: []byte(content)}, nil
	}

	slog.Warn("llmgw: structured response failed validation, attempting repair",
		"schema", req.SchemaName, "errors", validationErrs)

	repairMessages := withRepairInstruction(messages, content, validationErrs)
	repaired, err := g.transport.Complete(ctx, cfg, repairMessages)
	if err != nil {
		return nil, err
	}

	validationErrs, err = g.schemas.Validate(req.SchemaName, []byte(repaired))
	if err != nil {
		return nil, err
	}
	if len(validationErrs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, validationErrs)
	}

	return &StructuredResponse{Raw: []byte(repaired), Repaired: true}, nil
}

func withSchemaInstruction(messages []Message, rawSchema []byte) []Message {
	instruction := Message{
		Role:    RoleSystem,
		Content: "Respond with a single JSON object matching this schema, no surrounding prose:\n" + string(rawSchema),
	}
	return append([]Message{instruction}, messages...)
}

func withRepairInstruction(messages []Message, badOutput string, errs []string) []Message {
	correction := Message{
		Role: RoleUser,
		Content: "Your previous response did not match the required schema:\n" +
			badOutput + "\n\nValidation errors:\n" + joinErrors(errs) +
			"\n\nRespond again with corrected JSON only.",
	}
	return append(append([]Message{}, messages...), correction)
}

func joinErrors(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "; "
		}
		out += e
	}
	return out
}

package llmgw

import "context"

// Transport is the wire-level contract a concrete LLM client implements.
// The Gateway depends only on this interface, never on a specific SDK —
// keeping the provider-quirk and schema-validation logic in gateway.go
// independent of which concrete client is wired in.
type Transport interface {
	// Complete sends messages to the provider and returns its full
	// response text (non-streaming; sufficient for both free-form and
	// structured-output calls, since neither needs token-by-token
	// delivery the way an interactive chat surface would).
	Complete(ctx context.Context, cfg *providerConfig, messages []Message) (string, error)
}

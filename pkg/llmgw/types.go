// Package llmgw is the single entry point through which every other
// package talks to an LLM provider. It owns the provider-quirk handling
// (e.g. reasoning models rejecting an explicit output-token cap), the
// schema-validated structured-output contract used by query generation,
// relevance scoring, decomposition and entity extraction, and the
// rate-limit/quota error classification the research scheduler and
// monitor executor use to decide whether a call is worth retrying.
package llmgw

import "github.com/codeready-toolchain/research-core/pkg/config"

// Role is a conversation message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation sent to an LLM provider.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest is a free-form (non-structured) generation call, used by
// the synthesizer for long-form report prose.
type GenerateRequest struct {
	Provider string // LLMProviderRegistry key
	Messages []Message
}

// GenerateResponse is the result of a free-form generation call.
type GenerateResponse struct {
	Content string
}

// StructuredRequest is a call that must return JSON validating against a
// named schema from pkg/schema (e.g. "relevance_check", "query_generation").
type StructuredRequest struct {
	Provider   string
	Messages   []Message
	SchemaName string
}

// StructuredResponse is the parsed, schema-validated result of a
// StructuredRequest, plus whether a repair attempt was needed.
type StructuredResponse struct {
	Raw     []byte
	Repaired bool
}

// providerConfig is a convenience alias used internally to avoid repeating
// the fully-qualified config package name throughout the gateway.
type providerConfig = config.LLMProviderConfig

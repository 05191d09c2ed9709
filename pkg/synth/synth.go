// Package synth implements the Synthesizer (spec §4.5): it turns a
// completed ResearchRun into a markdown report — executive summary, key
// findings, detailed analysis, entity network summary, and sources/
// methodology — via a single LLM Gateway call.
package synth

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/research"
)

// Synthesizer produces the final report for a ResearchRun. Stateless and
// safe for concurrent use — every call takes the run it operates on as a
// parameter.
type Synthesizer struct {
	gateway  *llmgw.Gateway
	provider string
	builder  promptBuilder
}

// New returns a Synthesizer that issues its single Gateway call against
// provider.
func New(gateway *llmgw.Gateway, provider string) *Synthesizer {
	return &Synthesizer{gateway: gateway, provider: provider}
}

// Synthesize produces the markdown report for run. It does not fabricate
// citations: the prompt supplies only evidence present in the run and
// instructs the model to mark any gap "no evidence found" rather than
// inventing a source.
func (s *Synthesizer) Synthesize(ctx context.Context, run *research.Run) (string, error) {
	messages := []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: s.builder.systemPrompt()},
		{Role: llmgw.RoleUser, Content: s.builder.userPrompt(run)},
	}

	resp, err := s.gateway.Generate(ctx, llmgw.GenerateRequest{Provider: s.provider, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("synth: generating report: %w", err)
	}
	return resp.Content, nil
}

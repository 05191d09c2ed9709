package synth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/research"
)

type fakeTransport struct {
	lastMessages []llmgw.Message
	response     string
}

func (f *fakeTransport) Complete(ctx context.Context, cfg *config.LLMProviderConfig, messages []llmgw.Message) (string, error) {
	f.lastMessages = messages
	return f.response, nil
}

func testRun() *research.Run {
	score := 8
	run := &research.Run{
		RunID:            "run-1",
		RootQuestion:     "what programs are at site X",
		GlobalEvidence:   research.NewEvidenceIndex(),
		EntityNetwork:    research.NewEntityNetwork(),
		TerminatedReason: research.TerminatedExhausted,
		Tasks: []*research.Task{
			{
				ID:             0,
				Query:          "find primary sources",
				Status:         research.StatusSuccess,
				Attempt:        1,
				RelevanceScore: &score,
				Results: []integration.ResultItem{
					{Title: "Report A", URL: "https://example.com/a", SourceID: "alpha"},
				},
			},
		},
	}
	run.GlobalEvidence.Add(0, run.Tasks[0].Results)
	run.EntityNetwork.AddCoOccurrence("Acme Corp", "Site X")
	return run
}

func TestSynthesizeBuildsPromptAndReturnsReport(t *testing.T) {
	ft := &fakeTransport{response: "# Report\n\nExecutive summary..."}
	providers := config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
		"default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
	})
	gw := llmgw.New(ft, providers, nil)

	s := New(gw, "default")
	report, err := s.Synthesize(context.Background(), testRun())
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nExecutive summary...", report)

	require.Len(t, ft.lastMessages, 2)
	assert.Contains(t, ft.lastMessages[1].Content, "Report A")
	assert.Contains(t, ft.lastMessages[1].Content, "Acme Corp")
}

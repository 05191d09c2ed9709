package llmgw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

type fakeTransport struct {
	responses []string
	calls     int
}

func (f *fakeTransport) Complete(ctx context.Context, cfg *providerConfig, messages []Message) (string, error) {
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func testProviders() *config.LLMProviderRegistry {
	return config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
		"default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
	})
}

func TestGenerateStructuredValidOnFirstTry(t *testing.T) {
	ft := &fakeTransport{responses: []string{`{"score":8,"reasoning":"strong match"}`}}
	gw := New(ft, testProviders(), schema.Default)

	resp, err := gw.GenerateStructured(context.Background(), StructuredRequest{
		Provider:   "default",
		Messages:   []Message{{Role: RoleUser, Content: "score this"}},
		SchemaName: schema.RelevanceCheck,
	})
	require.NoError(t, err)
	assert.False(t, resp.Repaired)
	assert.Equal(t, 1, ft.calls)
}

func TestGenerateStructuredRepairsOnce(t *testing.T) {
	ft := &fakeTransport{responses: []string{
		`{"score": "not a number"}`,
		`{"score":5,"reasoning":"fixed"}`,
	}}
	gw := New(ft, testProviders(), schema.Default)

	resp, err := gw.GenerateStructured(context.Background(), StructuredRequest{
		Provider:   "default",
		Messages:   []Message{{Role: RoleUser, Content: "score this"}},
		SchemaName: schema.RelevanceCheck,
	})
	require.NoError(t, err)
	assert.True(t, resp.Repaired)
	assert.Equal(t, 2, ft.calls)
}

func TestGenerateStructuredFailsAfterRepair(t *testing.T) {
	ft := &fakeTransport{responses: []string{
		`{"score":"bad"}`,
		`{"score":"still bad"}`,
	}}
	gw := New(ft, testProviders(), schema.Default)

	_, err := gw.GenerateStructured(context.Background(), StructuredRequest{
		Provider:   "default",
		Messages:   []Message{{Role: RoleUser, Content: "score this"}},
		SchemaName: schema.RelevanceCheck,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaValidation)
	assert.Equal(t, 2, ft.calls)
}

func TestGenerateStructuredUnknownProvider(t *testing.T) {
	ft := &fakeTransport{}
	gw := New(ft, testProviders(), schema.Default)

	_, err := gw.GenerateStructured(context.Background(), StructuredRequest{
		Provider:   "nonexistent",
		SchemaName: schema.RelevanceCheck,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestGenerateFreeForm(t *testing.T) {
	ft := &fakeTransport{responses: []string{"a long synthesized report"}}
	gw := New(ft, testProviders(), schema.Default)

	resp, err := gw.Generate(context.Background(), GenerateRequest{
		Provider: "default",
		Messages: []Message{{Role: RoleUser, Content: "synthesize"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a long synthesized report", resp.Content)
}

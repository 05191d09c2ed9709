package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

type fakeTransport struct{}

func (fakeTransport) Complete(ctx context.Context, cfg *config.LLMProviderConfig, messages []llmgw.Message) (string, error) {
	return `{"query":"site X contracts"}`, nil
}

func testGateway() *llmgw.Gateway {
	providers := config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
		"default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
	})
	return llmgw.New(fakeTransport{}, providers, schema.Default)
}

func TestGenerateQueryReturnsModelQuery(t *testing.T) {
	a := New(config.IntegrationConfig{Category: integration.CategoryWebSearch}, testGateway(), "default")
	params, err := a.GenerateQuery(context.Background(), "who operates site X")
	require.NoError(t, err)
	assert.Equal(t, "site X contracts", params["q"])
}

func TestExecuteSearchParsesUpstreamResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "site X", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":2,"results":[{"title":"A","url":"https://a.example.com","snippet":"about A"}]}`))
	}))
	defer server.Close()

	a := New(config.IntegrationConfig{Category: integration.CategoryWebSearch, BaseURL: server.URL}, testGateway(), "default")
	result := a.ExecuteSearch(context.Background(), integration.QueryParams{"q": "site X"}, 10)

	require.True(t, result.Success)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "A", result.Items[0].Title)
	assert.Equal(t, "web-search", result.Items[0].SourceID)
	assert.Equal(t, 2, result.TotalUpstream)
}

func TestExecuteSearchReportsUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	a := New(config.IntegrationConfig{Category: integration.CategoryWebSearch, BaseURL: server.URL}, testGateway(), "default")
	result := a.ExecuteSearch(context.Background(), integration.QueryParams{"q": "x"}, 10)

	require.False(t, result.Success)
	assert.Equal(t, integration.KindRateLimited, result.Error.Kind)
}

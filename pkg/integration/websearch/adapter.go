// Package websearch implements the built-in "web-search" integration
// (pkg/config/builtin.go): a generic search API reachable without any
// deployment-specific config, so the registry never boots empty. No named
// third-party vendor SDK is specified anywhere in config or spec for this
// source — IntegrationConfig only carries a BaseURL/APIKeyEnv pair, which
// describes a plain JSON-over-HTTP contract rather than any one vendor's
// client library — so this adapter is built directly on net/http rather
// than adopting an arbitrary search SDK the config was never meant to
// name.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

const defaultBaseURL = "https://api.websearch.example.com/v1/search"

// Adapter implements integration.Adapter against a generic "?q=...&limit=..."
// JSON search endpoint.
type Adapter struct {
	cfg      config.IntegrationConfig
	gateway  *llmgw.Gateway
	provider string
	client   *http.Client
}

var _ integration.Adapter = (*Adapter)(nil)

// New builds a web-search Adapter from its IntegrationConfig entry.
func New(cfg config.IntegrationConfig, gateway *llmgw.Gateway, provider string) *Adapter {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{cfg: cfg, gateway: gateway, provider: provider, client: &http.Client{Timeout: timeout}}
}

func (a *Adapter) Metadata() integration.SourceMetadata {
	return integration.SourceMetadata{
		ID:                 "web-search",
		DisplayName:        "Web Search",
		Category:           integration.CategoryWebSearch,
		RequiresCredential: a.cfg.APIKeyEnv != "",
		Description:        "Generic web search, usable without any deployment-specific configuration.",
	}
}

func (a *Adapter) IsRelevant(ctx context.Context, question string) bool { return true }

func (a *Adapter) GenerateQuery(ctx context.Context, question string) (integration.QueryParams, error) {
	messages := []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "Produce a concise web search query string for this question."},
		{Role: llmgw.RoleUser, Content: question},
	}
	resp, err := a.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: a.provider, Messages: messages, SchemaName: schema.QueryGeneration,
	})
	if err != nil {
		return nil, fmt.Errorf("web-search: generating query: %w", err)
	}
	var parsed schema.QueryGenResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return nil, fmt.Errorf("web-search: parsing query response: %w", err)
	}
	return integration.QueryParams{"q": parsed.Query}, nil
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

type searchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Snippet     string `json:"snippet"`
	PublishedAt string `json:"published_at"`
}

func (a *Adapter) ExecuteSearch(ctx context.Context, params integration.QueryParams, limit int) integration.QueryResult {
	start := time.Now()

	q, _ := params["q"].(string)
	base := a.cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	reqURL := fmt.Sprintf("%s?q=%s&limit=%d", base, url.QueryEscape(q), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return a.failure(integration.KindConfigMissing, err, params, start)
	}
	if a.cfg.APIKeyEnv != "" {
		if key := os.Getenv(a.cfg.APIKeyEnv); key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return a.failure(integration.ClassifyError(err), err, params, start)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("web-search: upstream returned status %d", resp.StatusCode)
		return a.failure(integration.ClassifyError(err), err, params, start)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return a.failure(integration.KindParseError, err, params, start)
	}

	items := make([]integration.ResultItem, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		items = append(items, integration.ResultItem{
			Title: r.Title, URL: r.URL, Description: r.Snippet, Date: r.PublishedAt,
			SourceID: "web-search", Raw: r,
		})
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return integration.QueryResult{
		SourceID: "web-search", SourceDisplayName: "Web Search",
		Success: true, Items: items, TotalUpstream: parsed.Total,
		QueryParams: params, ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

func (a *Adapter) failure(kind integration.Kind, err error, params integration.QueryParams, start time.Time) integration.QueryResult {
	return integration.QueryResult{
		SourceID: "web-search", SourceDisplayName: "Web Search",
		Success: false, QueryParams: params,
		Error:          integration.NewError("web-search", kind, err),
		ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

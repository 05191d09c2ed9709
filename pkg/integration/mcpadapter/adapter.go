// Package mcpadapter implements integration.Adapter for upstream sources
// exposed as an MCP server — typically government-docs/regulations
// sources that ship an MCP tool rather than a plain HTTP API (SPEC_FULL
// §2.1). It generalizes pkg/mcp/client.go's session lifecycle (connect
// once, cache the session, recreate on transport failure) from "many
// servers shared by one long-lived Client" down to "one server per
// Adapter instance," since the Registry already hands out one fresh
// Adapter per query.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

const (
	initTimeout      = 30 * time.Second
	operationTimeout = 90 * time.Second
	retryBackoffMin  = 250 * time.Millisecond
	retryBackoffMax  = 750 * time.Millisecond
)

// ToolDescriptor names the single MCP tool this adapter's ExecuteSearch
// invokes, and how to read its result back into ResultItems.
type ToolDescriptor struct {
	Name          string
	QueryArgName  string // the CallToolParams.Arguments key the search query goes under
	LimitArgName  string // optional; if set, limit is also passed as this argument
}

// Adapter wraps one MCP server as an integration.Adapter. A fresh Adapter
// is created per query (Registry.New), so the session is established
// lazily on first ExecuteSearch and torn down by the caller via Close.
type Adapter struct {
	meta      integration.SourceMetadata
	transport config.TransportConfig
	tool      ToolDescriptor
	gateway   *llmgw.Gateway
	provider  string

	mu      sync.Mutex
	client  *mcpsdk.Client
	session *mcpsdk.ClientSession
}

var _ integration.Adapter = (*Adapter)(nil)

// New builds an Adapter for one MCP-backed source. gateway/provider are
// used by GenerateQuery to turn the natural-language question into tool
// arguments via the LLM Gateway's query_generation schema.
func New(meta integration.SourceMetadata, transport config.TransportConfig, tool ToolDescriptor, gateway *llmgw.Gateway, provider string) *Adapter {
	return &Adapter{meta: meta, transport: transport, tool: tool, gateway: gateway, provider: provider}
}

func (a *Adapter) Metadata() integration.SourceMetadata { return a.meta }

// IsRelevant never performs I/O; MCP-backed sources have no cheap
// pre-filter signal beyond the source-selection step already performed
// upstream, so it always defers to that decision.
func (a *Adapter) IsRelevant(ctx context.Context, question string) bool { return true }

// GenerateQuery asks the LLM Gateway for a search string, then wraps it as
// the tool's query argument.
func (a *Adapter) GenerateQuery(ctx context.Context, question string) (integration.QueryParams, error) {
	messages := []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: fmt.Sprintf("Produce a search query string for the MCP tool %q.", a.tool.Name)},
		{Role: llmgw.RoleUser, Content: question},
	}
	resp, err := a.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: a.provider, Messages: messages, SchemaName: schema.QueryGeneration,
	})
	if err != nil {
		return nil, fmt.Errorf("mcpadapter %s: generating query: %w", a.meta.ID, err)
	}
	var parsed schema.QueryGenResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return nil, fmt.Errorf("mcpadapter %s: parsing query response: %w", a.meta.ID, err)
	}
	return integration.QueryParams{a.tool.QueryArgName: parsed.Query}, nil
}

// ExecuteSearch connects lazily, calls the configured tool once, and
// retries exactly once with a recreated session on a transport failure —
// generalized from pkg/mcp/client.go's CallTool recovery path.
func (a *Adapter) ExecuteSearch(ctx context.Context, params integration.QueryParams, limit int) integration.QueryResult {
	start := time.Now()

	args := map[string]any{}
	for k, v := range params {
		args[k] = v
	}
	if a.tool.LimitArgName != "" && limit > 0 {
		args[a.tool.LimitArgName] = limit
	}

	result, err := a.callTool(ctx, args)
	if err != nil {
		kind := integration.ClassifyError(err)
		if kind != integration.KindCancelled && kind != integration.KindAuthFailed {
			backoff := retryBackoffMin + time.Duration(rand.Int64N(int64(retryBackoffMax-retryBackoffMin)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return a.failure(integration.KindCancelled, ctx.Err(), params, start)
			}
			a.recreateSession()
			result, err = a.callTool(ctx, args)
		}
	}
	if err != nil {
		return a.failure(integration.ClassifyError(err), err, params, start)
	}

	items, total := parseToolResult(a.meta.ID, result)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return integration.QueryResult{
		SourceID: a.meta.ID, SourceDisplayName: a.meta.DisplayName,
		Success: true, Items: items, TotalUpstream: total,
		QueryParams: params, ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

func (a *Adapter) failure(kind integration.Kind, err error, params integration.QueryParams, start time.Time) integration.QueryResult {
	return integration.QueryResult{
		SourceID: a.meta.ID, SourceDisplayName: a.meta.DisplayName,
		Success: false, QueryParams: params,
		Error:          integration.NewError(a.meta.ID, kind, err),
		ResponseTimeMS: time.Since(start).Milliseconds(),
	}
}

func (a *Adapter) callTool(ctx context.Context, args map[string]any) (*mcpsdk.CallToolResult, error) {
	session, err := a.ensureSession(ctx)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return session.CallTool(opCtx, &mcpsdk.CallToolParams{Name: a.tool.Name, Arguments: args})
}

func (a *Adapter) ensureSession(ctx context.Context) (*mcpsdk.ClientSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		return a.session, nil
	}

	transport, err := newTransport(a.transport)
	if err != nil {
		return nil, fmt.Errorf("mcpadapter %s: building transport: %w", a.meta.ID, err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "research-core", Version: "0.1.0"}, nil)
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	session, err := client.Connect(initCtx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcpadapter %s: connecting: %w", a.meta.ID, err)
	}
	a.client = client
	a.session = session
	return session, nil
}

func (a *Adapter) recreateSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		_ = a.session.Close()
	}
	a.session = nil
	a.client = nil
}

// Close releases the underlying MCP session, if one was established.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	err := a.session.Close()
	a.session = nil
	a.client = nil
	return err
}

// parseToolResult maps an MCP CallToolResult's text content blocks into
// ResultItems, one per JSON-decodable block; blocks that don't decode to
// the expected shape are skipped rather than aborting the whole call.
func parseToolResult(sourceID string, result *mcpsdk.CallToolResult) ([]integration.ResultItem, int) {
	var items []integration.ResultItem
	for _, content := range result.Content {
		text, ok := content.(*mcpsdk.TextContent)
		if !ok {
			continue
		}
		var batch []integration.ResultItem
		if err := json.Unmarshal([]byte(text.Text), &batch); err != nil {
			continue
		}
		for i := range batch {
			batch[i].SourceID = sourceID
		}
		items = append(items, batch...)
	}
	return items, len(items)
}

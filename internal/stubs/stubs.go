// Package stubs provides fixed-behavior Adapter implementations used by the
// testable-property suite of spec §8 — "alpha", "beta", "stub1" — so every
// package that exercises the Parallel Executor, Deep Research Engine, or
// Boolean Monitor can build its scenario fixtures from one shared place.
// Modeled on pkg/agent/tool_executor.go's StubToolExecutor pattern: a
// hand-configured fake living beside the real adapters, not a generated
// mock.
package stubs

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Adapter is a fully scriptable integration.Adapter for tests: every method
// has a caller-set behavior. A zero Adapter reports not relevant and returns
// no Items; the Alpha, Beta and Stub1 constructors below set Relevant=true
// and leave GenerateQuery applicable.
type Adapter struct {
	ID          string
	Category    integration.SourceCategory
	Relevant    bool
	NotApplicable string // non-empty reason makes GenerateQuery return NotApplicable
	QueryGenErr error
	Items       []integration.ResultItem
	TotalUpstream int
	SearchErr   *integration.Error

	// Calls counts ExecuteSearch invocations, for tests asserting retry
	// behavior (spec §8 Scenario C).
	Calls int
}

var _ integration.Adapter = (*Adapter)(nil)

func (a *Adapter) Metadata() integration.SourceMetadata {
	return integration.SourceMetadata{
		ID:          a.ID,
		DisplayName: a.ID,
		Category:    a.Category,
		Description: fmt.Sprintf("stub integration %q", a.ID),
	}
}

func (a *Adapter) IsRelevant(ctx context.Context, question string) bool { return a.Relevant }

func (a *Adapter) GenerateQuery(ctx context.Context, question string) (integration.QueryParams, error) {
	if a.NotApplicable != "" {
		return nil, &integration.NotApplicable{SourceID: a.ID, Reason: a.NotApplicable}
	}
	if a.QueryGenErr != nil {
		return nil, a.QueryGenErr
	}
	return integration.QueryParams{"question": question}, nil
}

func (a *Adapter) ExecuteSearch(ctx context.Context, params integration.QueryParams, limit int) integration.QueryResult {
	a.Calls++
	if a.SearchErr != nil {
		return integration.QueryResult{SourceID: a.ID, SourceDisplayName: a.ID, Success: false, Error: a.SearchErr}
	}
	items := a.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	total := a.TotalUpstream
	if total == 0 {
		total = len(a.Items)
	}
	return integration.QueryResult{
		SourceID: a.ID, SourceDisplayName: a.ID,
		Success: true, Items: items, TotalUpstream: total,
		QueryParams: params,
	}
}

// Alpha returns a stub configured as spec §8's "alpha": always returns 5
// items matching the query.
func Alpha() *Adapter {
	items := make([]integration.ResultItem, 5)
	for i := range items {
		items[i] = integration.ResultItem{
			Title: fmt.Sprintf("alpha result %d", i+1),
			URL:   fmt.Sprintf("https://alpha.example.com/item/%d", i+1),
			SourceID: "alpha",
		}
	}
	return &Adapter{ID: "alpha", Relevant: true, Items: items}
}

// Beta returns a stub configured as spec §8's "beta": always returns 0
// items.
func Beta() *Adapter {
	return &Adapter{ID: "beta", Relevant: true, Items: nil}
}

// Stub1 returns a stub named "stub1" for the monitor dedup scenario
// (spec §8, Scenario E), with no items configured by default — callers set
// Items per sub-test.
func Stub1() *Adapter {
	return &Adapter{ID: "stub1", Relevant: true}
}

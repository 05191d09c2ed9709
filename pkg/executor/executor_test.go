package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

type stubAdapter struct {
	id          string
	relevant    bool
	relevantDelay time.Duration
	notApplicable bool
	qgErr       error
	items       []integration.ResultItem
	searchErr   *integration.Error
}

func (s *stubAdapter) Metadata() integration.SourceMetadata {
	return integration.SourceMetadata{ID: s.id, DisplayName: s.id}
}

func (s *stubAdapter) IsRelevant(ctx context.Context, question string) bool {
	if s.relevantDelay > 0 {
		select {
		case <-time.After(s.relevantDelay):
		case <-ctx.Done():
		}
	}
	return s.relevant
}

func (s *stubAdapter) GenerateQuery(ctx context.Context, question string) (integration.QueryParams, error) {
	if s.notApplicable {
		return nil, &integration.NotApplicable{SourceID: s.id, Reason: "no coverage"}
	}
	if s.qgErr != nil {
		return nil, s.qgErr
	}
	return integration.QueryParams{"q": question}, nil
}

func (s *stubAdapter) ExecuteSearch(ctx context.Context, params integration.QueryParams, limit int) integration.QueryResult {
	if s.searchErr != nil {
		return integration.QueryResult{SourceID: s.id, Success: false, Error: s.searchErr}
	}
	return integration.QueryResult{SourceID: s.id, Success: true, Items: s.items, TotalUpstream: len(s.items)}
}

func memberFor(a *stubAdapter) Member {
	return Member{SourceID: a.id, New: func() (integration.Adapter, error) { return a, nil }}
}

func TestRunHappyPath(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: true, items: []integration.ResultItem{{Title: "a"}, {Title: "b"}}}
	beta := &stubAdapter{id: "beta", relevant: true, items: nil}

	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha), memberFor(beta)}, "what contracts mention foo", Options{})

	require.Len(t, agg.Results, 2)
	assert.True(t, agg.Results["alpha"].Success)
	assert.Len(t, agg.Results["alpha"].Items, 2)
	assert.True(t, agg.Results["beta"].Success)
	assert.Empty(t, agg.Results["beta"].Items)
	assert.False(t, agg.Degraded)
}

func TestRunDropsNonRelevant(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: false}
	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha)}, "q", Options{})

	assert.Empty(t, agg.Results)
}

func TestRunDropsNotApplicable(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: true, notApplicable: true}
	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha)}, "q", Options{})

	assert.Empty(t, agg.Results)
	require.Len(t, agg.Rejections, 1)
	assert.Equal(t, "query_gen", agg.Rejections[0].Phase)
}

func TestRunRelevanceTimeoutDropsAdapter(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: true, relevantDelay: 50 * time.Millisecond}
	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha)}, "q", Options{RelevanceTimeout: 5 * time.Millisecond})

	assert.Empty(t, agg.Results)
}

func TestRunCriticalSourceFailureDegrades(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: true, searchErr: integration.NewError("alpha", integration.KindRateLimited, assertErr)}
	beta := &stubAdapter{id: "beta", relevant: true, items: []integration.ResultItem{{Title: "x"}, {Title: "y"}, {Title: "z"}}}

	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha), memberFor(beta)}, "latest X",
		Options{CriticalSources: map[string]bool{"alpha": true}})

	assert.True(t, agg.Degraded)
	assert.Contains(t, agg.FailedCritical, "alpha")
	assert.True(t, agg.Results["beta"].Success)
}

func TestRunIsolatesFailures(t *testing.T) {
	alpha := &stubAdapter{id: "alpha", relevant: true, searchErr: integration.NewError("alpha", integration.KindUpstream5xx, assertErr)}
	beta := &stubAdapter{id: "beta", relevant: true, items: []integration.ResultItem{{Title: "x"}}}

	e := New(nil)
	agg := e.Run(context.Background(), "run1", "task1", []Member{memberFor(alpha), memberFor(beta)}, "q", Options{})

	assert.False(t, agg.Results["alpha"].Success)
	assert.True(t, agg.Results["beta"].Success)
}

var assertErr = &simpleErr{"boom"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }

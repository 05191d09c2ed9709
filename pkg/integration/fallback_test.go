package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(strategies ...SearchStrategy) SourceMetadata {
	return SourceMetadata{ID: "alpha", DisplayName: "Alpha", SearchStrategies: strategies}
}

func TestFallbackSearchTriesHighReliabilityFirst(t *testing.T) {
	var order []string
	executors := map[string]StrategyExecutor{
		"byDate": func(ctx context.Context, params QueryParams, limit int) QueryResult {
			order = append(order, "byDate")
			return QueryResult{Success: false}
		},
		"byKeyword": func(ctx context.Context, params QueryParams, limit int) QueryResult {
			order = append(order, "byKeyword")
			return QueryResult{Success: true, Items: []ResultItem{{Title: "hit"}}}
		},
	}
	m := meta(
		SearchStrategy{MethodName: "byDate", Reliability: ReliabilityLow, RequiredParam: "date"},
		SearchStrategy{MethodName: "byKeyword", Reliability: ReliabilityHigh, RequiredParam: "keyword"},
	)

	result := FallbackSearch(context.Background(), m, QueryParams{"date": "2024", "keyword": "foo"}, 10, executors)

	require.True(t, result.Success)
	assert.Equal(t, []string{"byKeyword"}, order)
	assert.Equal(t, "alpha", result.SourceID)
}

func TestFallbackSearchSkipsMissingRequiredParam(t *testing.T) {
	executors := map[string]StrategyExecutor{
		"byDate": func(ctx context.Context, params QueryParams, limit int) QueryResult {
			return QueryResult{Success: true, Items: []ResultItem{{Title: "hit"}}}
		},
	}
	m := meta(SearchStrategy{MethodName: "byDate", Reliability: ReliabilityHigh, RequiredParam: "date"})

	result := FallbackSearch(context.Background(), m, QueryParams{}, 10, executors)
	assert.False(t, result.Success)
}

func TestFallbackSearchAllExhausted(t *testing.T) {
	executors := map[string]StrategyExecutor{
		"byDate": func(ctx context.Context, params QueryParams, limit int) QueryResult {
			return QueryResult{Success: false, Error: NewError("alpha", KindUpstream5xx, assertErr)}
		},
	}
	m := meta(SearchStrategy{MethodName: "byDate", Reliability: ReliabilityHigh, RequiredParam: "date"})

	result := FallbackSearch(context.Background(), m, QueryParams{"date": "2024"}, 10, executors)
	assert.False(t, result.Success)
	assert.Equal(t, KindUpstream4xxOther, result.Error.Kind)
}

func TestFallbackSearchContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	executors := map[string]StrategyExecutor{
		"byDate": func(ctx context.Context, params QueryParams, limit int) QueryResult {
			t.Fatal("executor should not run after cancellation")
			return QueryResult{}
		},
	}
	m := meta(SearchStrategy{MethodName: "byDate", Reliability: ReliabilityHigh, RequiredParam: "date"})

	result := FallbackSearch(ctx, m, QueryParams{"date": "2024"}, 10, executors)
	assert.False(t, result.Success)
	assert.Equal(t, KindCancelled, result.Error.Kind)
}

var assertErr = &simpleErr{"upstream down"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }

package integration

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// strategyRank orders Reliability high → low so FallbackSearch tries the
// most reliable strategy first.
var strategyRank = map[Reliability]int{
	ReliabilityHigh:   0,
	ReliabilityMedium: 1,
	ReliabilityLow:    2,
}

// FallbackSearch implements the "Generic fallback helper" of spec §4.1: when
// an adapter declares SearchStrategies in its SourceMetadata, ExecuteSearch
// may delegate to this helper instead of hand-writing its own multi-attempt
// logic. It is modeled on pkg/mcp/client.go's CallTool retry-with-recreated-
// session pattern, generalized from "retry the same call after recovery" to
// "try the next strategy in reliability order."
//
// strategies whose RequiredParam is absent from params are skipped.
// Execution stops at the first strategy that returns Success=true with a
// non-empty Items slice. If every attempted strategy fails or returns empty,
// the helper returns a composite QueryResult describing every attempt.
func FallbackSearch(ctx context.Context, meta SourceMetadata, params QueryParams, limit int, executors map[string]StrategyExecutor) QueryResult {
	start := time.Now()

	ordered := make([]SearchStrategy, len(meta.SearchStrategies))
	copy(ordered, meta.SearchStrategies)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && strategyRank[ordered[j].Reliability] < strategyRank[ordered[j-1].Reliability]; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	var attempts []string
	for _, strategy := range ordered {
		if strategy.RequiredParam != "" {
			if _, ok := params[strategy.RequiredParam]; !ok {
				continue
			}
		}
		exec, ok := executors[strategy.MethodName]
		if !ok {
			attempts = append(attempts, fmt.Sprintf("%s: no executor registered", strategy.MethodName))
			continue
		}

		select {
		case <-ctx.Done():
			return QueryResult{
				SourceID:          meta.ID,
				SourceDisplayName: meta.DisplayName,
				Success:           false,
				QueryParams:       params,
				Error:             NewError(meta.ID, KindCancelled, ctx.Err()),
				ResponseTimeMS:    responseTime(start),
			}
		default:
		}

		result := exec(ctx, params, limit)
		if result.Success && len(result.Items) > 0 {
			result.SourceID = meta.ID
			result.SourceDisplayName = meta.DisplayName
			result.QueryParams = params
			result.ResponseTimeMS = responseTime(start)
			return result
		}

		reason := "empty result set"
		if !result.Success && result.Error != nil {
			reason = result.Error.Error()
		}
		attempts = append(attempts, fmt.Sprintf("%s: %s", strategy.MethodName, reason))
	}

	msg := "all strategies exhausted"
	if len(attempts) > 0 {
		msg = fmt.Sprintf("all strategies exhausted: %s", strings.Join(attempts, "; "))
	}
	return QueryResult{
		SourceID:          meta.ID,
		SourceDisplayName: meta.DisplayName,
		Success:           false,
		QueryParams:       params,
		Error:             NewError(meta.ID, KindUpstream4xxOther, fmt.Errorf("%s", msg)),
		ResponseTimeMS:    responseTime(start),
	}
}

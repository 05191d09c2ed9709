package integration

import "context"

// Adapter is the four-operation contract every upstream source implements
// (spec §4.1). An Adapter instance is short-lived: the Registry produces a
// fresh one per query (spec §3, "Ownership").
type Adapter interface {
	// Metadata returns the adapter's immutable descriptor. Pure; must not
	// perform I/O and must be safe to call from any goroutine.
	Metadata() SourceMetadata

	// IsRelevant is a cheap pre-filter; an adapter that cannot pre-filter
	// returns true. Must complete in O(10ms) — no network calls.
	IsRelevant(ctx context.Context, question string) bool

	// GenerateQuery turns a natural-language question into QueryParams via
	// the LLM Gateway. Returns a *NotApplicable error when the model
	// concludes the source cannot help.
	GenerateQuery(ctx context.Context, question string) (QueryParams, error)

	// ExecuteSearch performs the upstream request and returns a QueryResult.
	// MUST NOT panic; upstream failures are encoded as Success=false with a
	// classified Error.
	ExecuteSearch(ctx context.Context, params QueryParams, limit int) QueryResult
}

// StrategyExecutor is the function signature a generic-fallback-capable
// adapter supplies per declared SearchStrategy.MethodName — it performs one
// concrete upstream call using only the named required parameter from
// params, already known to be present.
type StrategyExecutor func(ctx context.Context, params QueryParams, limit int) QueryResult

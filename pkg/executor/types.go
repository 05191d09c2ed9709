// Package executor implements the Parallel Executor: a three-phase
// (relevance gate → query generation → search execution) fan-out/fan-in
// pipeline over a cohort of integrations, with bounded concurrency and
// per-source isolation (spec §4.2).
package executor

import (
	"time"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Default timings, per spec §4.2.
const (
	DefaultConcurrency     = 8
	DefaultRelevanceTimeout = 5 * time.Second
	DefaultQueryGenTimeout  = 30 * time.Second
	DefaultSearchTimeout    = 60 * time.Second
)

// Member is one cohort entry: an integration id paired with a factory the
// executor uses to obtain a fresh Adapter instance per phase call (spec §3,
// "Ownership" — each invocation produces a fresh short-lived adapter
// instance per query).
type Member struct {
	SourceID string
	New      func() (integration.Adapter, error)
}

// DefaultSearchLimit is the per-source item cap passed to ExecuteSearch when
// Options.Limit is unset.
const DefaultSearchLimit = 50

// Options configures one Executor.Run invocation.
type Options struct {
	Concurrency      int           // Phase 3 semaphore width C
	RelevanceTimeout time.Duration // T_rel
	QueryGenTimeout  time.Duration // T_qg
	SearchTimeout    time.Duration // T_exec
	Limit            int           // per-source item cap passed to ExecuteSearch

	// CriticalSources marks source ids whose failure triggers a
	// critical_source_failure event and the Aggregate.Degraded flag.
	CriticalSources map[string]bool
}

// withDefaults fills zero-valued fields with the spec's defaults.
func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RelevanceTimeout <= 0 {
		o.RelevanceTimeout = DefaultRelevanceTimeout
	}
	if o.QueryGenTimeout <= 0 {
		o.QueryGenTimeout = DefaultQueryGenTimeout
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = DefaultSearchTimeout
	}
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	return o
}

// Rejection records why an integration was dropped during Phase 1 or 2
// (spec §4.2, logged with kind integration_rejected).
type Rejection struct {
	SourceID string
	Phase    string // "relevance" | "query_gen"
	Reason   string
}

// Aggregate is the Run's return value: one QueryResult per cohort member
// that survived to Phase 3, plus bookkeeping about what was dropped and
// whether any critical source failed.
type Aggregate struct {
	Results         map[string]integration.QueryResult
	Rejections      []Rejection
	Degraded        bool
	FailedCritical  []string
}

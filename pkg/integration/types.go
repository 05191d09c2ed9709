// Package integration defines the Adapter contract every upstream source
// implements, the uniform result shapes that cross the executor boundary,
// and a generic multi-strategy search fallback helper.
package integration

import "time"

// SourceCategory classifies an integration for source-selection prompts and
// reporting. Values mirror spec §3 ("SourceMetadata").
type SourceCategory string

const (
	CategoryGovernmentContracts   SourceCategory = "government-contracts"
	CategoryGovernmentMedia       SourceCategory = "government-media"
	CategoryGovernmentJobs        SourceCategory = "government-jobs"
	CategoryClearedJobs           SourceCategory = "cleared-jobs"
	CategoryGovernmentDocs        SourceCategory = "government-docs"
	CategoryGovernmentRegulations SourceCategory = "government-regulations"
	CategorySocialForum           SourceCategory = "social-forum"
	CategorySocialMicroblog       SourceCategory = "social-microblog"
	CategorySocialChatArchive     SourceCategory = "social-chat-archive"
	CategoryWebSearch             SourceCategory = "web-search"
	CategoryOther                 SourceCategory = "other"
)

// Reliability ranks a search strategy's expected success rate, used by the
// generic fallback helper to pick attempt order.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// SearchStrategy describes one fallback attempt the generic helper (§4.1
// "Generic fallback helper") can make on an adapter's behalf.
type SearchStrategy struct {
	MethodName     string      `json:"method_name"`
	Reliability    Reliability `json:"reliability"`
	RequiredParam  string      `json:"required_param"`
}

// SourceMetadata is the immutable descriptor every Adapter returns from
// Metadata(). Callers (registry, selector, logger) must be able to call this
// repeatedly without triggering I/O.
type SourceMetadata struct {
	ID                   string           `json:"id"`
	DisplayName          string           `json:"display_name"`
	Category             SourceCategory   `json:"category"`
	RequiresCredential   bool             `json:"requires_credential"`
	EstimatedLatencyMS    int             `json:"estimated_latency_ms,omitempty"`
	EstimatedCostPerCall float64          `json:"estimated_cost_per_call,omitempty"`
	DailyCallLimit       *int             `json:"daily_call_limit,omitempty"`
	Description          string           `json:"description"`
	SearchStrategies     []SearchStrategy `json:"search_strategies,omitempty"`
}

// QueryParams is the parameter set an adapter's GenerateQuery step produces
// and ExecuteSearch consumes. Values are opaque to the executor; the
// strategy-fallback helper reads keys named by SearchStrategy.RequiredParam.
type QueryParams map[string]any

// ResultItem is the uniform shape every adapter maps source-native results
// into, per spec §3.
type ResultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date,omitempty"` // RFC3339 or empty
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	SourceID    string `json:"source_id"`
	Raw         any    `json:"raw,omitempty"`
}

// QueryResult is the uniform return value of ExecuteSearch, and what the
// Parallel Executor propagates instead of a Go error — upstream failures
// never panic or escape as an error, they are encoded here (spec §4.1).
type QueryResult struct {
	SourceID          string       `json:"source_id"`
	SourceDisplayName string       `json:"source_display_name"`
	Success           bool         `json:"success"`
	TotalUpstream     int          `json:"total_upstream"`
	Items             []ResultItem `json:"items"`
	QueryParams       QueryParams  `json:"query_params,omitempty"`
	Error             *Error       `json:"error,omitempty"`
	ResponseTimeMS    int64        `json:"response_time_ms"`
	FromCache         bool         `json:"from_cache"`
}

// responseTime computes ResponseTimeMS from a start time, used by adapters
// and the fallback helper to populate QueryResult.ResponseTimeMS uniformly.
func responseTime(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

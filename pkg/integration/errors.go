package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Kind is the error taxonomy of spec §7. Every integration-level failure is
// tagged with one of these so the executor, logger and report builder can
// treat it uniformly instead of string-matching error messages.
type Kind string

const (
	KindAuthFailed          Kind = "auth_failed"
	KindRateLimited         Kind = "rate_limited"
	KindQuotaExhausted      Kind = "quota_exhausted"
	KindUpstream5xx         Kind = "upstream_5xx"
	KindUpstream4xxOther    Kind = "upstream_4xx_other"
	KindTimeout             Kind = "timeout"
	KindCancelled           Kind = "cancelled"
	KindParseError          Kind = "parse_error"
	KindLLMInvalidOutput    Kind = "llm_invalid_output"
	KindLLMRefusal          Kind = "llm_refusal"
	KindIntegrationNotApplicable Kind = "integration_not_applicable"
	KindConfigMissing       Kind = "config_missing"
	KindDeadlineExceeded    Kind = "deadline_exceeded"
	KindCriticalSourceFailure Kind = "critical_source_failure"
)

// Error is the structured error every QueryResult.Error carries. It is never
// propagated as a Go panic; adapters construct one and set it on a
// QueryResult with Success=false (spec §4.1, "MUST NOT panic").
type Error struct {
	Kind     Kind   `json:"kind"`
	SourceID string `json:"source_id,omitempty"`
	Message  string `json:"message"`
	cause    error
}

func (e *Error) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.SourceID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError wraps err into a classified *Error for the given source.
func NewError(sourceID string, kind Kind, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, SourceID: sourceID, Message: msg, cause: err}
}

// NotApplicable is the sentinel GenerateQuery returns when the model
// concludes a source cannot help a given question (spec §4.1). It carries
// the model's stated reason so the executor can log it under
// integration_rejected rather than treating it as a failure.
type NotApplicable struct {
	SourceID string
	Reason   string
}

func (e *NotApplicable) Error() string {
	return fmt.Sprintf("%s: not applicable: %s", e.SourceID, e.Reason)
}

// IsNotApplicable reports whether err is (or wraps) a *NotApplicable.
func IsNotApplicable(err error) (*NotApplicable, bool) {
	var na *NotApplicable
	if errors.As(err, &na) {
		return na, true
	}
	return nil, false
}

// ClassifyError determines the error Kind for a generic upstream failure.
// Modeled directly on pkg/mcp/recovery.go's ClassifyError, generalized from
// MCP JSON-RPC/session errors to arbitrary upstream HTTP/transport errors —
// every adapter's ExecuteSearch should run its raw error through this before
// attaching it to a QueryResult.
func ClassifyError(err error) Kind {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindUpstream5xx
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return KindUpstream5xx
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "403", "unauthorized", "forbidden", "invalid_api_key", "invalid api key"):
		return KindAuthFailed
	case containsAny(msg, "429", "rate limit", "too many requests"):
		return KindRateLimited
	case containsAny(msg, "quota", "insufficient_quota"):
		return KindQuotaExhausted
	case containsAny(msg, "500", "502", "503", "504", "internal server error", "bad gateway", "service unavailable"):
		return KindUpstream5xx
	case containsAny(msg, "400", "404", "422", "bad request", "not found", "unprocessable"):
		return KindUpstream4xxOther
	case containsAny(msg, "unmarshal", "malformed", "unexpected end of json", "invalid character"):
		return KindParseError
	default:
		return KindUpstream4xxOther
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

package llmgw

import (
	"context"
	"errors"
	"net"
	"strings"
)

// RecoveryAction determines how the caller should react to an LLM call
// failure. Unlike pkg/mcp's session-oriented recovery, there is no
// "recreate session" concept here — a provider call is stateless — so the
// Gateway never retries a failed call (the only retry in this package is
// OpenAITransport's bounded retry of transient connection errors, see
// transientRetries); it only classifies so the caller
// (research scheduler, monitor executor) can decide whether a retry budget
// is worth spending.
type RecoveryAction int

const (
	// NoRetry — the error is not recoverable by retrying the same call
	// (bad request, auth failure, content policy rejection).
	NoRetry RecoveryAction = iota
	// RetryAfterBackoff — transient, worth a bounded retry with backoff
	// (rate limit, transport hiccup, server-side 5xx).
	RetryAfterBackoff
	// QuotaExhausted — the account/key is out of quota; retrying will not
	// help until the quota resets, so callers should surface this as a
	// terminal failure for the run rather than burning a retry.
	QuotaExhausted
)

var (
	// ErrSchemaValidation indicates a structured response failed schema
	// validation even after one repair attempt.
	ErrSchemaValidation = errors.New("llmgw: structured response failed schema validation")

	// ErrProviderNotConfigured indicates the requested provider name has
	// no entry in the LLM provider registry.
	ErrProviderNotConfigured = errors.New("llmgw: provider not configured")

	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = errors.New("llmgw: provider returned an empty response")
)

// ClassifyError determines the recovery action for an LLM provider call
// error, modeled on pkg/mcp's ClassifyError: cheap string/type checks
// first, falling back to "not safe to retry" for anything unrecognized.
func ClassifyError(err error) RecoveryAction {
	if err == nil {
		return NoRetry
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NoRetry
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return RetryAfterBackoff
		}
		return RetryAfterBackoff
	}

	msg := strings.ToLower(err.Error())

	for _, s := range quotaErrorSubstrings {
		if strings.Contains(msg, s) {
			return QuotaExhausted
		}
	}

	for _, s := range retryableErrorSubstrings {
		if strings.Contains(msg, s) {
			return RetryAfterBackoff
		}
	}

	for _, s := range terminalErrorSubstrings {
		if strings.Contains(msg, s) {
			return NoRetry
		}
	}

	return NoRetry
}

var quotaErrorSubstrings = []string{
	"insufficient_quota",
	"quota exceeded",
	"billing hard limit",
	"you exceeded your current quota",
}

var retryableErrorSubstrings = []string{
	"rate limit",
	"rate_limit_exceeded",
	"too many requests",
	"429",
	"503",
	"502",
	"connection reset",
	"connection refused",
	"timeout",
}

var terminalErrorSubstrings = []string{
	"invalid_api_key",
	"unauthorized",
	"forbidden",
	"content_policy",
	"invalid_request_error",
	"context_length_exceeded",
}

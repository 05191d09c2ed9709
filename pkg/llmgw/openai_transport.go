package llmgw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// transientRetries bounds the transport-level retry for genuinely transient
// connection blips (reset, broken pipe, EOF mid-stream) — distinct from the
// Gateway-level "never retry a rate-limited call in a loop" rule (spec §5,
// "Back-pressure"): rate-limit and quota errors are classified and returned
// to the caller immediately, never retried here.
const transientRetries = 2

func isTransientNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe")
}

// OpenAITransport implements Transport against the OpenAI chat completions
// API. It also serves any OpenAI-compatible endpoint (a provider config
// with a custom BaseURL) — the same client is reused for query-generation,
// relevance-scoring, decomposition and synthesis calls; only the model
// name and quirk handling differ per call.
type OpenAITransport struct {
	clients map[string]openai.Client // keyed by api_key_env so each credential gets one client
}

// NewOpenAITransport creates an OpenAITransport with no clients yet; they
// are built lazily per provider config on first use, since each provider
// in the registry may carry a distinct API key and base URL.
func NewOpenAITransport() *OpenAITransport {
	return &OpenAITransport{clients: make(map[string]openai.Client)}
}

func (t *OpenAITransport) clientFor(cfg *providerConfig) openai.Client {
	key := cfg.APIKeyEnv + "|" + cfg.BaseURL
	if c, ok := t.clients[key]; ok {
		return c
	}

	opts := []option.RequestOption{}
	if cfg.APIKeyEnv != "" {
		opts = append(opts, option.WithAPIKey(os.Getenv(cfg.APIKeyEnv)))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c := openai.NewClient(opts...)
	t.clients[key] = c
	return c
}

// Complete implements Transport.
func (t *OpenAITransport) Complete(ctx context.Context, cfg *providerConfig, messages []Message) (string, error) {
	client := t.clientFor(cfg)
	opts := applyQuirks(cfg)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(opts.model),
		Messages: toOpenAIMessages(messages),
	}
	if opts.maxOutputTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(opts.maxOutputTokens))
	}
	if opts.setTemperature {
		params.Temperature = param.NewOpt(opts.temperature)
	}

	var resp *openai.ChatCompletion
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), transientRetries)
	err := backoff.Retry(func() error {
		r, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			if isTransientNetworkError(err) {
				return err // retried by backoff.Retry
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

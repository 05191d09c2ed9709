package mcpadapter

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os/exec"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codeready-toolchain/research-core/pkg/config"
)

// newTransport builds an MCP SDK transport from a TransportConfig.
// Generalized from pkg/mcp/transport.go's createTransport, dropping the
// stdio command's environment-variable override map (this module's
// TransportConfig carries no Env field — MCP-backed sources here inherit
// the process environment as-is).
func newTransport(cfg config.TransportConfig) (mcpsdk.Transport, error) {
	switch cfg.Type {
	case config.TransportTypeStdio:
		return newStdioTransport(cfg)
	case config.TransportTypeHTTP:
		return newHTTPTransport(cfg)
	case config.TransportTypeSSE:
		return newSSETransport(cfg)
	default:
		return nil, fmt.Errorf("unsupported MCP transport type: %s", cfg.Type)
	}
}

func newStdioTransport(cfg config.TransportConfig) (*mcpsdk.CommandTransport, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("stdio transport requires command")
	}
	return &mcpsdk.CommandTransport{Command: exec.Command(cfg.Command, cfg.Args...)}, nil
}

func newHTTPTransport(cfg config.TransportConfig) (*mcpsdk.StreamableClientTransport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http transport requires url")
	}
	transport := &mcpsdk.StreamableClientTransport{Endpoint: cfg.URL}
	if cfg.BearerToken != "" || cfg.VerifySSL != nil || cfg.Timeout > 0 {
		transport.HTTPClient = buildHTTPClient(cfg)
	}
	return transport, nil
}

func newSSETransport(cfg config.TransportConfig) (*mcpsdk.SSEClientTransport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("sse transport requires url")
	}
	transport := &mcpsdk.SSEClientTransport{Endpoint: cfg.URL}
	if cfg.BearerToken != "" || cfg.VerifySSL != nil || cfg.Timeout > 0 {
		transport.HTTPClient = buildHTTPClient(cfg)
	}
	return transport, nil
}

func buildHTTPClient(cfg config.TransportConfig) *http.Client {
	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = time.Duration(cfg.Timeout) * time.Second
	}
	transport := &http.Transport{}
	if cfg.VerifySSL != nil && !*cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.BearerToken != "" {
		client.Transport = &bearerTokenTransport{token: cfg.BearerToken, base: transport}
	} else {
		client.Transport = transport
	}
	return client
}

// bearerTokenTransport injects an Authorization header on every request,
// since net/http has no built-in bearer-token RoundTripper.
type bearerTokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *bearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(req)
}

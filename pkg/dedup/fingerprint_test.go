package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

func TestFingerprintURLBased(t *testing.T) {
	a := Fingerprint(integration.ResultItem{URL: "https://example.com/a?utm_source=x"})
	b := Fingerprint(integration.ResultItem{URL: "https://Example.com/a"})
	assert.Equal(t, a, b)
}

func TestFingerprintTitleDateFallback(t *testing.T) {
	a := Fingerprint(integration.ResultItem{Title: "Hello World", Date: "2024-01-01T00:00:00Z"})
	b := Fingerprint(integration.ResultItem{Title: "hello   world", Date: "2024-01-01T00:00:00Z"})
	assert.Equal(t, a, b)
}

func TestFingerprintDiffersByURL(t *testing.T) {
	a := Fingerprint(integration.ResultItem{URL: "https://example.com/a"})
	b := Fingerprint(integration.ResultItem{URL: "https://example.com/b"})
	assert.NotEqual(t, a, b)
}

package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeURLStripsTracking(t *testing.T) {
	got := CanonicalizeURL("https://Example.com/page?utm_source=x&id=5")
	assert.Equal(t, "https://example.com/page?id=5", got)
}

func TestCanonicalizeURLStripsDefaultPort(t *testing.T) {
	got := CanonicalizeURL("http://example.com:80/page")
	assert.Equal(t, "http://example.com/page", got)
}

func TestCanonicalizeURLLowercasesHost(t *testing.T) {
	got := CanonicalizeURL("https://EXAMPLE.com/Path")
	assert.Equal(t, "https://example.com/Path", got)
}

func TestCanonicalizeURLIdempotent(t *testing.T) {
	once := CanonicalizeURL("https://Example.com:443/page?utm_campaign=y&gclid=abc&id=1")
	twice := CanonicalizeURL(once)
	assert.Equal(t, once, twice)
}

func TestCanonicalizeURLDropsFragment(t *testing.T) {
	got := CanonicalizeURL("https://example.com/page#section")
	assert.Equal(t, "https://example.com/page", got)
}

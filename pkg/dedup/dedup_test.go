package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

func TestProcessDropsSeenFingerprint(t *testing.T) {
	item := integration.ResultItem{URL: "https://example.com/a", Title: "A"}
	fp := Fingerprint(item)

	d := New()
	result := d.Process([]integration.ResultItem{item}, map[string]bool{fp: true})

	assert.Empty(t, result.Retained)
	assert.Equal(t, []string{fp}, result.AllFingerprints)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, "seen_fingerprint", result.Dropped[0].Reason)
}

func TestProcessCollapsesNearDuplicatesKeepingEarliest(t *testing.T) {
	early := integration.ResultItem{
		URL: "https://example.com/a", Title: "Contractor awarded big defense deal",
		Date: "2024-01-01T00:00:00Z",
	}
	late := integration.ResultItem{
		URL: "https://example.com/a-copy", Title: "Contractor awarded big defense deal!",
		Date: "2024-02-01T00:00:00Z",
	}

	d := New()
	result := d.Process([]integration.ResultItem{late, early}, map[string]bool{})

	require.Len(t, result.Retained, 1)
	assert.Equal(t, early.URL, result.Retained[0].URL)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, "near_duplicate", result.Dropped[0].Reason)
}

func TestProcessIdempotent(t *testing.T) {
	items := []integration.ResultItem{
		{URL: "https://example.com/a", Title: "A"},
		{URL: "https://example.com/b", Title: "B"},
	}
	seen := map[string]bool{}

	d := New()
	first := d.Process(items, seen)
	second := d.Process(items, seen)

	assert.Equal(t, first.Retained, second.Retained)
	assert.Equal(t, first.AllFingerprints, second.AllFingerprints)
}

func TestProcessDistinctItemsAllRetained(t *testing.T) {
	items := []integration.ResultItem{
		{URL: "https://example.com/a", Title: "Alpha story about satellites"},
		{URL: "https://example.com/b", Title: "Totally different cooking article"},
	}
	d := New()
	result := d.Process(items, map[string]bool{})
	assert.Len(t, result.Retained, 2)
}

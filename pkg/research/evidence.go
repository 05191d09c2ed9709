package research

import (
	"github.com/codeready-toolchain/research-core/pkg/dedup"
	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// EvidenceIndex is the run-level, fingerprint-keyed, insertion-ordered
// collection of every ResultItem accepted into the run across all tasks
// (spec §4.3, "Global evidence index"). Only the orchestrator goroutine
// touches it, so it carries no locking of its own.
type EvidenceIndex struct {
	order []string
	items map[string]integration.ResultItem
	owner map[string]int // fingerprint -> task id that first contributed it
	dedup *dedup.Deduplicator
	seen  map[string]bool
}

// NewEvidenceIndex returns an empty index.
func NewEvidenceIndex() *EvidenceIndex {
	return &EvidenceIndex{
		items: make(map[string]integration.ResultItem),
		owner: make(map[string]int),
		dedup: dedup.New(),
		seen:  make(map[string]bool),
	}
}

// Add runs items through near-duplicate filtering against everything
// already indexed (keyed by fingerprint, checked via MinHash within the
// batch per pkg/dedup) and admits the survivors, attributing them to
// taskID. Returns only the items actually admitted.
func (idx *EvidenceIndex) Add(taskID int, items []integration.ResultItem) []integration.ResultItem {
	result := idx.dedup.Process(items, idx.seen)
	for _, fp := range result.AllFingerprints {
		idx.seen[fp] = true
	}
	for _, kept := range result.Retained {
		fp := dedup.Fingerprint(kept)
		if _, exists := idx.items[fp]; exists {
			continue
		}
		idx.order = append(idx.order, fp)
		idx.items[fp] = kept
		idx.owner[fp] = taskID
	}
	return result.Retained
}

// All returns every indexed item in insertion order.
func (idx *EvidenceIndex) All() []integration.ResultItem {
	out := make([]integration.ResultItem, 0, len(idx.order))
	for _, fp := range idx.order {
		out = append(out, idx.items[fp])
	}
	return out
}

// Len reports how many distinct items are indexed.
func (idx *EvidenceIndex) Len() int {
	return len(idx.order)
}

// SourcesUsed returns the set of distinct SourceID values contributing to
// the index, for the "minimum source utilization" termination check
// (spec §4.3).
func (idx *EvidenceIndex) SourcesUsed() map[string]bool {
	out := make(map[string]bool)
	for _, item := range idx.items {
		out[item.SourceID] = true
	}
	return out
}

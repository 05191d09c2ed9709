package dedup

import (
	"time"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// FilterDecision records why an item was dropped from the candidate pool —
// surfaced to the caller for execlog's filter_decision event (spec §8,
// Scenario F).
type FilterDecision struct {
	Item       integration.ResultItem
	Reason     string // "seen_fingerprint" | "near_duplicate"
	ClusterOf  string // fingerprint of the item it was collapsed into, when Reason == "near_duplicate"
	Similarity float64
}

// Result is Deduplicator.Process's return value.
type Result struct {
	Retained []integration.ResultItem
	// AllFingerprints is the primary fingerprint of every item processed
	// this run (not just retained ones) — spec §4.4 step 7: seen_fingerprints
	// must grow by the full processed set so a once-seen item never re-alerts
	// even if relevance later rises.
	AllFingerprints []string
	Dropped         []FilterDecision
}

// Deduplicator implements spec §4.4 steps 4: canonicalize, fingerprint,
// drop-if-seen, then MinHash near-duplicate collapse keeping the
// earliest-dated member of each cluster.
type Deduplicator struct{}

// New returns a stateless Deduplicator — all state (seen_fingerprints) is
// threaded through Process by the caller (pkg/monitor), per spec §5's
// "MonitorConfig.seen_fingerprints persistence... only one monitor execution
// holds the write lock" ownership model.
func New() *Deduplicator { return &Deduplicator{} }

// Process runs one deduplication pass over items against the persisted
// seen set. Running Process twice on the same input with the same seen set
// yields the same Result (spec §8, "Idempotence of dedup").
func (d *Deduplicator) Process(items []integration.ResultItem, seen map[string]bool) Result {
	type candidate struct {
		item        integration.ResultItem
		fingerprint string
		signature   Signature
		date        time.Time
	}

	var (
		allFingerprints []string
		dropped         []FilterDecision
		candidates      []candidate
	)

	for _, item := range items {
		fp := Fingerprint(item)
		allFingerprints = append(allFingerprints, fp)

		if seen[fp] {
			dropped = append(dropped, FilterDecision{Item: item, Reason: "seen_fingerprint"})
			continue
		}

		candidates = append(candidates, candidate{
			item:        item,
			fingerprint: fp,
			signature:   ComputeSignature(item),
			date:        parseDate(item.Date),
		})
	}

	// Near-duplicate clustering: greedy — for each candidate not yet
	// assigned to a cluster, collect every later candidate within
	// SimilarityThreshold, keep the earliest-dated among the cluster, drop
	// the rest with a filter_decision recording the similarity.
	assigned := make([]bool, len(candidates))
	var retained []integration.ResultItem

	for i := range candidates {
		if assigned[i] {
			continue
		}
		clusterIdx := []int{i}
		for j := i + 1; j < len(candidates); j++ {
			if assigned[j] {
				continue
			}
			if IsNearDuplicate(candidates[i].signature, candidates[j].signature) {
				clusterIdx = append(clusterIdx, j)
			}
		}

		best := clusterIdx[0]
		for _, idx := range clusterIdx[1:] {
			if candidates[idx].date.Before(candidates[best].date) {
				best = idx
			}
		}
		for _, idx := range clusterIdx {
			assigned[idx] = true
			if idx == best {
				continue
			}
			dropped = append(dropped, FilterDecision{
				Item:       candidates[idx].item,
				Reason:     "near_duplicate",
				ClusterOf:  candidates[best].fingerprint,
				Similarity: EstimateJaccard(candidates[idx].signature, candidates[best].signature),
			})
		}
		retained = append(retained, candidates[best].item)
	}

	return Result{Retained: retained, AllFingerprints: allFingerprints, Dropped: dropped}
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

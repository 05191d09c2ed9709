package dedup

import (
	"github.com/cespare/xxhash/v2"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// NumPermutations is the MinHash sketch width (spec design note §9,
// "num_perm=128").
const NumPermutations = 128

// ShingleContentChars is how many leading characters of title+description
// are shingled (spec design note §9, "first N characters... N ≈ 500").
const ShingleContentChars = 500

// ShingleSize is the character n-gram length used to build the shingle set.
const ShingleSize = 5

// SimilarityThreshold is the Jaccard-estimate threshold above which two
// items are treated as near-duplicates (spec §4.4 step 4, design note §9).
const SimilarityThreshold = 0.85

// permSeeds is the fixed seed table used to derive NumPermutations
// independent-enough hash functions from a single real hash
// (cespare/xxhash/v2) rather than computing 128 distinct hash families —
// the standard "one real hash + seeded offsets" MinHash construction named
// in SPEC_FULL §3.6.
var permSeeds = buildPermSeeds()

func buildPermSeeds() [NumPermutations]uint64 {
	var seeds [NumPermutations]uint64
	// A simple splitmix64-style constant-stride generator: deterministic,
	// reproducible across runs (no process randomness), and spreads seeds
	// across the uint64 space well enough for sketch purposes.
	state := uint64(0x9E3779B97F4A7C15)
	for i := range seeds {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		seeds[i] = z
	}
	return seeds
}

// Signature is a MinHash sketch: one minimum hash value per permutation.
type Signature [NumPermutations]uint64

// shingles returns the set of overlapping character n-grams of s (length
// ShingleSize), computed over at most the first ShingleContentChars runes.
func shingles(s string) map[string]struct{} {
	runes := []rune(normalizeText(s))
	if len(runes) > ShingleContentChars {
		runes = runes[:ShingleContentChars]
	}
	set := make(map[string]struct{})
	if len(runes) < ShingleSize {
		if len(runes) > 0 {
			set[string(runes)] = struct{}{}
		}
		return set
	}
	for i := 0; i+ShingleSize <= len(runes); i++ {
		set[string(runes[i:i+ShingleSize])] = struct{}{}
	}
	return set
}

// ComputeSignature builds the MinHash signature for an item's
// title+description content.
func ComputeSignature(item integration.ResultItem) Signature {
	return signatureOf(item.Title + " " + item.Description)
}

func signatureOf(text string) Signature {
	var sig Signature
	for i := range sig {
		sig[i] = ^uint64(0) // max value; any real hash is smaller
	}

	for shingle := range shingles(text) {
		base := xxhash.Sum64String(shingle)
		for i, seed := range permSeeds {
			h := mix(base, seed)
			if h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

// mix combines a shingle's base hash with a permutation seed into one of
// NumPermutations pseudo-independent hash values.
func mix(base, seed uint64) uint64 {
	x := base ^ seed
	x = (x ^ (x >> 33)) * 0xFF51AFD7ED558CCD
	x = (x ^ (x >> 33)) * 0xC4CEB9FE1A85EC53
	return x ^ (x >> 33)
}

// EstimateJaccard returns the fraction of matching positions between two
// signatures, an unbiased estimator of the Jaccard similarity of their
// underlying shingle sets.
func EstimateJaccard(a, b Signature) float64 {
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(NumPermutations)
}

// IsNearDuplicate reports whether a and b's estimated Jaccard similarity
// meets SimilarityThreshold.
func IsNearDuplicate(a, b Signature) bool {
	return EstimateJaccard(a, b) >= SimilarityThreshold
}

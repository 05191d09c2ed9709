package dedup

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Fingerprint computes the primary exact-duplicate fingerprint for an item,
// per spec §3/§4.4 step 4: SHA-256 of the canonical URL when present, else
// SHA-256 of "lower(title)|date".
func Fingerprint(item integration.ResultItem) string {
	if item.URL != "" {
		return hashString(CanonicalizeURL(item.URL))
	}
	return hashString(normalizeText(item.Title) + "|" + item.Date)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

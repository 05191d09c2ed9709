// Package dedup implements the Deduplicator: URL canonicalization, primary
// fingerprinting, and MinHash-based near-duplicate detection against a
// per-monitor persistent seen-set (spec §4.4).
package dedup

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// trackingParams is the denylist of query parameters stripped during
// canonicalization — the standard analytics/campaign-tracking params that
// vary per-click without changing the resource identity.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true, "utm_id": true,
	"gclid": true, "fbclid": true, "msclkid": true, "mc_cid": true, "mc_eid": true,
}

// defaultPorts maps scheme → the port considered redundant for that scheme.
var defaultPorts = map[string]string{"http": "80", "https": "443"}

// CanonicalizeURL normalizes raw per spec §4.4: lowercase host, strip the
// scheme's default port, drop tracking-parameter denylist entries, and drop
// a trailing slash from an otherwise-empty path. Canonicalizing a URL twice
// yields the same output (spec §8, "Fingerprint stability").
func CanonicalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	u.Host = strings.ToLower(u.Host)
	if host, port, ok := strings.Cut(u.Host, ":"); ok {
		if defaultPorts[strings.ToLower(u.Scheme)] == port {
			u.Host = host
		}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if trackingParams[strings.ToLower(k)] {
				q.Del(k)
			}
		}
		u.RawQuery = q.Encode()
	}

	if u.Path == "/" {
		u.Path = ""
	}

	return u.String()
}

// normalizeText lowercases and collapses whitespace, the same shape as
// pkg/slack/fingerprint.go's normalizeText, reused here for title/date
// fingerprinting and MinHash shingling.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

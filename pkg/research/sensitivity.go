package research

import "regexp"

// DefaultRelevanceThreshold is the public-default acceptance bar for a
// task's relevance score (spec §4.3 step 6).
const DefaultRelevanceThreshold = 3

// SensitiveRelevanceThreshold replaces the default for runs flagged
// sensitive (spec §4.3 step 1): public sources carry only sparse, oblique
// evidence for these topics, so a higher bar yields all-empty runs.
const SensitiveRelevanceThreshold = 1

// sensitivityMarkers is the fixed vocabulary scanned for at run start,
// compiled once as word-boundary patterns mirroring
// masking.compileBuiltinPatterns's "compile once, apply many" shape.
var sensitivityMarkers = compileMarkers([]string{
	"classified",
	"top secret",
	"special access program",
	"covert operation",
	"covert action",
	"black budget",
	"compartmented information",
	"clandestine",
})

type marker struct {
	text string
	re   *regexp.Regexp
}

func compileMarkers(words []string) []marker {
	out := make([]marker, 0, len(words))
	for _, w := range words {
		out = append(out, marker{text: w, re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)})
	}
	return out
}

// ClassifySensitivity scans question against the fixed vocabulary and
// reports whether the run must be flagged sensitive, along with the
// markers that matched (for the execlog entry spec §4.3 step 1 requires).
func ClassifySensitivity(question string) (sensitive bool, matched []string) {
	for _, m := range sensitivityMarkers {
		if m.re.MatchString(question) {
			sensitive = true
			matched = append(matched, m.text)
		}
	}
	return sensitive, matched
}

// RelevanceThreshold returns the applicable acceptance bar for a run,
// given its sensitivity classification.
func RelevanceThreshold(sensitive bool) int {
	if sensitive {
		return SensitiveRelevanceThreshold
	}
	return DefaultRelevanceThreshold
}

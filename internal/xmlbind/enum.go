package xmlbind

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

const unknownEnumValue = "UNKNOWN"

// ResolveEnum maps a raw vocabulary token onto one of known's canonical
// values, case-insensitively. Any value that is not an exact
// (case-insensitive) match is reported with isUnknown set, together with
// the closest known candidate so the caller can fold it into a
// ParsingWarning ("did you mean moveOn=Passed?").
//
// The closest candidate is picked by stemming both sides with Porter2 and
// scoring Jaro-Winkler similarity. When that score is at least 0.85 the
// candidate is also returned as value; otherwise value is "UNKNOWN"
// (spec 4.3's "future vocabulary extension" escape hatch).
func ResolveEnum(raw string, known []string) (value string, suggestion string, isUnknown bool) {
	trimmed := strings.TrimSpace(raw)
	for _, k := range known {
		if strings.EqualFold(trimmed, k) {
			return k, "", false
		}
	}
	if trimmed == "" || len(known) == 0 {
		return unknownEnumValue, "", true
	}

	stemmedRaw := porter2.Stem(strings.ToLower(trimmed))
	best := ""
	bestScore := 0.0
	for _, k := range known {
		stemmedKnown := porter2.Stem(strings.ToLower(k))
		score, err := edlib.StringsSimilarity(stemmedRaw, stemmedKnown, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = k
		}
	}
	if bestScore >= 0.85 {
		return best, best, true
	}
	return unknownEnumValue, best, true
}

// Package fuzzy implements edit-distance based approximate string
// equality with length-aware thresholds. It is invoked O(terms × tokens)
// per chunk, so Match pre-filters on length before paying for the
// distance computation.
package fuzzy

import "github.com/siamtext/docrank/internal/domain/text"

// Empirical thresholds carried over from production tuning. They are
// starting points for calibration, not physical constants.
const (
	// ShortTermThreshold applies to terms of at most ShortTermLen runes.
	ShortTermThreshold = 0.80
	// DefaultThreshold applies to longer terms.
	DefaultThreshold = 0.75
	// ThaiThreshold is relaxed to absorb tone/vowel spelling variants.
	ThaiThreshold = 0.75
	// ShortTermLen separates the two Latin threshold bands.
	ShortTermLen = 3
	// MaxLengthDelta caps the rune-length difference before comparison.
	MaxLengthDelta = 3
)

// Thresholds configures fuzzy match acceptance.
type Thresholds struct {
	Short          float64
	Default        float64
	Thai           float64
	MaxLengthDelta int
}

// DefaultThresholds returns the production tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Short:          ShortTermThreshold,
		Default:        DefaultThreshold,
		Thai:           ThaiThreshold,
		MaxLengthDelta: MaxLengthDelta,
	}
}

// Distance computes the Levenshtein edit distance between two strings,
// counted in runes.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity maps edit distance into [0,1]: (maxLen - distance) / maxLen.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := max(la, lb)
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}

// Match reports whether candidate is an acceptable approximate spelling
// of term. Thai input is compared on its tone/vowel-normalized form with
// the relaxed Thai threshold.
func (t Thresholds) Match(term, candidate string) bool {
	lt := len([]rune(term))
	lc := len([]rune(candidate))
	delta := lt - lc
	if delta < 0 {
		delta = -delta
	}
	if delta > t.MaxLengthDelta {
		return false
	}

	if text.ContainsThai(term) || text.ContainsThai(candidate) {
		return Similarity(text.NormalizeThai(term), text.NormalizeThai(candidate)) >= t.Thai
	}

	threshold := t.Default
	if lt <= ShortTermLen {
		threshold = t.Short
	}
	return Similarity(term, candidate) >= threshold
}

package search

import (
	"runtime"

	"github.com/siamtext/docrank/internal/domain/fuzzy"
)

// Production tuning defaults. Empirical values carried over from the
// previous deployments; keep them overridable, several slightly
// different tunings used to coexist.
const (
	DefaultKeywordWeight = 0.5
	DefaultVectorWeight  = 0.5
	// DefaultThreshold gates low-confidence vector scores out of fusion.
	DefaultThreshold = 0.25
	// DefaultMinResults / DefaultMaxResults bound the adaptive selector.
	DefaultMinResults = 5
	DefaultMaxResults = 8
	// DefaultMassFraction stops mass selection once this share of the
	// total score mass is accumulated.
	DefaultMassFraction = 0.90
	// DefaultQualityFloor: below this mean fused score the corpus is too
	// noisy for mass selection and the selector takes a fixed count.
	DefaultQualityFloor = 0.05
	// DefaultLexicalCeiling normalizes raw TF-IDF sums into [0,1].
	DefaultLexicalCeiling = 2.0
	// DefaultExactBoost prefers chunks with at least one exact match.
	DefaultExactBoost = 1.2
	// DefaultFuzzyPenalty discounts fuzzy matches in term frequency.
	DefaultFuzzyPenalty = 0.7
	// DefaultVectorCandidates is how many KNN hits to request per query.
	DefaultVectorCandidates = 32
)

// Tuning holds the ranking knobs. Per-request weights/threshold live in
// request.Request; Tuning covers everything the caller does not set per
// call.
type Tuning struct {
	MinResults       int
	MaxResults       int
	MassFraction     float64
	QualityFloor     float64
	LexicalCeiling   float64
	ExactBoost       float64
	FuzzyPenalty     float64
	VectorCandidates int
	Fuzzy            fuzzy.Thresholds
	// Concurrency bounds the per-chunk scoring fan-out.
	Concurrency int
}

// DefaultTuning returns the canonical production tuning.
func DefaultTuning() Tuning {
	return Tuning{
		MinResults:       DefaultMinResults,
		MaxResults:       DefaultMaxResults,
		MassFraction:     DefaultMassFraction,
		QualityFloor:     DefaultQualityFloor,
		LexicalCeiling:   DefaultLexicalCeiling,
		ExactBoost:       DefaultExactBoost,
		FuzzyPenalty:     DefaultFuzzyPenalty,
		VectorCandidates: DefaultVectorCandidates,
		Fuzzy:            fuzzy.DefaultThresholds(),
		Concurrency:      runtime.GOMAXPROCS(0),
	}
}

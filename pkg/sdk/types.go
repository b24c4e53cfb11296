package docrank

import "context"

// Mode selects the scoring passes that run.
type Mode string

const (
	ModeHybrid   Mode = "hybrid"
	ModeKeyword  Mode = "keyword"
	ModeSemantic Mode = "semantic"
)

// Granularity selects chunk-level or document-level results.
type Granularity string

const (
	GranularityChunk    Granularity = "chunk"
	GranularityDocument Granularity = "document"
)

// SearchRequest holds the search parameters. Zero-valued weights and
// threshold fall back to the client defaults (0.5/0.5/0.25).
type SearchRequest struct {
	Query         string
	OwnerID       string
	Mode          Mode
	KeywordWeight float64
	VectorWeight  float64
	Threshold     float64
	Limit         int
	DocumentIDs   []string
	Granularity   Granularity
}

// Tuning overrides the engine's ranking calibration. Zero-valued fields
// keep the production defaults.
type Tuning struct {
	MinResults          int
	MaxResults          int
	MassFraction        float64
	QualityFloor        float64
	LexicalCeiling      float64
	ExactBoost          float64
	FuzzyPenalty        float64
	FuzzyThreshold      float64
	FuzzyShortThreshold float64
	FuzzyThaiThreshold  float64
}

// Match records how a single term matched a result.
type Match struct {
	Term      string
	Score     float64
	Positions []int
	Fuzzy     bool
}

// Result is a single search hit.
type Result struct {
	ID          string
	DisplayName string
	Content     string
	Similarity  float64
	Matches     []Match
}

// SearchResponse is the outcome of one search. Degraded lists the
// collaborators that were unavailable while answering.
type SearchResponse struct {
	Results  []Result
	Degraded []string
}

// Embedder turns text into a vector. Implement this to plug in a custom
// embedding provider instead of WithOpenAI.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Expansion is a set of collaborator-suggested query terms.
type Expansion struct {
	Terms      []string
	Contextual bool
	Confidence float64
}

// Expander suggests related query terms. Optional.
type Expander interface {
	Expand(ctx context.Context, query string) (Expansion, error)
}

// Package request validates and normalizes search parameters.
package request

import (
	"fmt"

	"github.com/siamtext/docrank/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	// MaxLimit caps the number of returned results.
	MaxLimit = 50
)

// Mode selects the scoring passes that run.
type Mode string

const (
	// Hybrid fuses lexical and vector scores.
	Hybrid Mode = "hybrid"
	// Keyword scores lexically only.
	Keyword Mode = "keyword"
	// Semantic scores by vector similarity only.
	Semantic Mode = "semantic"
)

// IsValid reports whether the mode is known.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Keyword || m == Semantic
}

// Granularity selects chunk-level or document-level results.
type Granularity string

const (
	// ChunkGranularity returns one result per matching chunk.
	ChunkGranularity Granularity = "chunk"
	// DocumentGranularity keeps only the best chunk per document.
	DocumentGranularity Granularity = "document"
)

// IsValid reports whether the granularity is known.
func (g Granularity) IsValid() bool {
	return g == ChunkGranularity || g == DocumentGranularity
}

// Request is a validated search request.
type Request struct {
	query         string
	ownerID       string
	mode          Mode
	keywordWeight float64
	vectorWeight  float64
	threshold     float64
	limit         int
	documentIDs   []string
	granularity   Granularity
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, granularity=chunk; keyword mode forces the
// vector weight to zero and semantic mode forces the keyword weight to
// zero. An empty query is valid and yields an empty result set.
func New(
	query, ownerID string,
	m Mode,
	keywordWeight, vectorWeight, threshold float64,
	limit int,
	documentIDs []string,
	g Granularity,
) (Request, error) {
	if ownerID == "" {
		return Request{}, fmt.Errorf("%w: owner_id is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid mode %q", domain.ErrInvalidRequest, m)
	}
	if g == "" {
		g = ChunkGranularity
	}
	if !g.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid granularity %q", domain.ErrInvalidRequest, g)
	}
	if keywordWeight < 0 || vectorWeight < 0 {
		return Request{}, fmt.Errorf("%w: weights must be non-negative", domain.ErrInvalidRequest)
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("%w: threshold must be between 0 and 1", domain.ErrInvalidRequest)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be non-negative", domain.ErrInvalidRequest)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	switch m {
	case Keyword:
		vectorWeight = 0
		if keywordWeight == 0 {
			keywordWeight = 1
		}
	case Semantic:
		keywordWeight = 0
		if vectorWeight == 0 {
			vectorWeight = 1
		}
	case Hybrid:
		if keywordWeight == 0 && vectorWeight == 0 {
			return Request{}, fmt.Errorf("%w: weights must not sum to zero", domain.ErrInvalidRequest)
		}
	}

	return Request{
		query:         query,
		ownerID:       ownerID,
		mode:          m,
		keywordWeight: keywordWeight,
		vectorWeight:  vectorWeight,
		threshold:     threshold,
		limit:         limit,
		documentIDs:   documentIDs,
		granularity:   g,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// OwnerID returns the corpus owner.
func (r *Request) OwnerID() string { return r.ownerID }

// Mode returns the search mode.
func (r *Request) Mode() Mode { return r.mode }

// KeywordWeight returns the lexical fusion weight.
func (r *Request) KeywordWeight() float64 { return r.keywordWeight }

// VectorWeight returns the vector fusion weight.
func (r *Request) VectorWeight() float64 { return r.vectorWeight }

// Threshold returns the minimum raw vector score that contributes to fusion.
func (r *Request) Threshold() float64 { return r.threshold }

// Limit returns the result cap (0 = selector bounds only).
func (r *Request) Limit() int { return r.limit }

// DocumentIDs returns the optional document scope filter.
func (r *Request) DocumentIDs() []string { return r.documentIDs }

// Granularity returns chunk- or document-level result shaping.
func (r *Request) Granularity() Granularity { return r.granularity }

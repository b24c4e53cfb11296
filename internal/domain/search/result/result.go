package result

import "github.com/siamtext/docrank/internal/domain/search/score"

// Result is a single externally visible search hit.
type Result struct {
	id          string
	displayName string
	content     string
	similarity  float64
	matches     []score.Match
}

// New creates a search result.
func New(id, displayName, content string, similarity float64, matches []score.Match) Result {
	return Result{
		id: id, displayName: displayName, content: content,
		similarity: similarity, matches: matches,
	}
}

// ID returns the "<document_id>-<chunk_index>" identifier.
func (r *Result) ID() string { return r.id }

// DisplayName returns the human-readable name, chunk label included for
// chunk granularity.
func (r *Result) DisplayName() string { return r.displayName }

// Content returns the chunk text.
func (r *Result) Content() string { return r.content }

// Similarity returns the fused relevance score in [0,1].
func (r *Result) Similarity() float64 { return r.similarity }

// Matches returns the per-term match diagnostics.
func (r *Result) Matches() []score.Match { return r.matches }

// Package score holds the query-scoped scoring records. Everything here
// is created when a query begins and discarded once results are
// assembled; nothing is cached across queries.
package score

import "fmt"

// SemanticTerm is the synthetic match-detail term recorded for a
// non-zero vector contribution, so every positively fused chunk carries
// at least one match detail even without lexical hits. A chunk matched
// by both passes keeps its lexical details and carries this record in
// addition, with the raw vector score.
const SemanticTerm = "semantic"

// Match records how a single term matched a chunk.
type Match struct {
	Term      string
	Score     float64
	Positions []int // token indices, for highlighting
	Fuzzy     bool
}

// ChunkScore accumulates per-chunk relevance through the pipeline:
// lexical pass fills Lexical and Matches, fusion fills Vector and Fused.
type ChunkScore struct {
	DocumentID string
	ChunkIndex int
	Content    string
	Lexical    float64
	Vector     float64
	Fused      float64
	Matches    []Match
}

// ID returns the chunk's externally visible identifier.
func (c *ChunkScore) ID() string {
	return fmt.Sprintf("%s-%d", c.DocumentID, c.ChunkIndex)
}

// VectorHit is one result from the vector-similarity collaborator.
// Score is already normalized to [0,1].
type VectorHit struct {
	DocumentID string
	ChunkIndex int
	Content    string
	Score      float64
}

// ID returns the chunk identifier of the hit.
func (v *VectorHit) ID() string {
	return fmt.Sprintf("%s-%d", v.DocumentID, v.ChunkIndex)
}

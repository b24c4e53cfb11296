package search

import (
	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/score"
)

// fuse normalizes lexical scores into [0,1] and combines them with the
// vector hits using the request weights. A vector score strictly below
// the threshold is excluded entirely, not down-weighted; a chunk that
// matched on one side only still receives a fused score. Chunks fusing
// to zero are dropped.
func fuse(
	lexical []score.ChunkScore, hits []score.VectorHit,
	req *request.Request, t Tuning,
) []score.ChunkScore {
	merged := make([]score.ChunkScore, 0, len(lexical)+len(hits))
	index := make(map[string]int, len(lexical))

	for _, cs := range lexical {
		index[cs.ID()] = len(merged)
		merged = append(merged, cs)
	}

	for _, h := range hits {
		if h.Score < req.Threshold() {
			continue
		}
		if i, ok := index[h.ID()]; ok {
			merged[i].Vector = h.Score
			continue
		}
		index[h.ID()] = len(merged)
		merged = append(merged, score.ChunkScore{
			DocumentID: h.DocumentID,
			ChunkIndex: h.ChunkIndex,
			Content:    h.Content,
			Vector:     h.Score,
		})
	}

	out := merged[:0]
	for i := range merged {
		cs := merged[i]

		normalized := cs.Lexical / t.LexicalCeiling
		if normalized > 1 {
			normalized = 1
		}

		fused := normalized*req.KeywordWeight() + cs.Vector*req.VectorWeight()
		if fused > 1 {
			fused = 1
		}
		if fused <= 0 {
			continue
		}
		cs.Fused = fused

		if cs.Vector > 0 && req.VectorWeight() > 0 {
			cs.Matches = append(cs.Matches, score.Match{
				Term:  score.SemanticTerm,
				Score: cs.Vector,
			})
		}

		out = append(out, cs)
	}

	return out
}

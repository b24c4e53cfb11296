package search

import (
	"sort"

	"github.com/siamtext/docrank/internal/domain/search/score"
)

// Selector policies, reported in metrics.
const (
	policyMass  = "mass"
	policyFloor = "floor"
)

// selectAdaptive sorts fused scores and picks a result set whose size
// adapts to score mass: when the corpus looks healthy (mean fused score
// above the quality floor), chunks are accumulated until the configured
// fraction of the total score mass is covered, bounded by the min/max
// result counts. A sparse/noisy corpus falls back to a fixed minimum.
// Ties break by ascending chunk ID so rankings are deterministic.
func selectAdaptive(scores []score.ChunkScore, t Tuning) ([]score.ChunkScore, string) {
	if len(scores) == 0 {
		return nil, policyFloor
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Fused != scores[j].Fused {
			return scores[i].Fused > scores[j].Fused
		}
		return scores[i].ID() < scores[j].ID()
	})

	minN := min(t.MinResults, len(scores))
	maxN := min(t.MaxResults, len(scores))

	var total float64
	for i := range scores {
		total += scores[i].Fused
	}
	mean := total / float64(len(scores))

	if mean <= t.QualityFloor || total <= 0 {
		return scores[:minN], policyFloor
	}

	target := t.MassFraction * total
	var accumulated float64
	taken := 0
	for i := range scores {
		accumulated += scores[i].Fused
		taken++
		if taken >= maxN {
			break
		}
		if accumulated >= target && taken >= minN {
			break
		}
	}

	return scores[:taken], policyMass
}

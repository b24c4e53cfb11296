package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/result"
	"github.com/siamtext/docrank/internal/domain/search/score"
	"github.com/siamtext/docrank/internal/logger"
)

// assemble maps selected chunks to their owning documents and formats
// the final records. A document missing from metadata never fails the
// query: the result falls back to a synthetic name. Returns the results
// plus whether metadata lookup degraded.
func (s *Service) assemble(
	ctx context.Context, selected []score.ChunkScore, req *request.Request,
) ([]result.Result, bool) {
	names := make(map[string]string)
	degraded := false

	docs, err := s.documents.GetDocuments(ctx, req.OwnerID())
	if err != nil {
		logger.FromContext(ctx).Warn("document metadata unavailable, using placeholder names",
			zap.String("owner_id", req.OwnerID()),
			zap.Error(err),
		)
		degraded = true
	}
	for i := range docs {
		names[docs[i].ID()] = docs[i].Name()
	}

	if req.Granularity() == request.DocumentGranularity {
		selected = bestPerDocument(selected)
	}

	limit := req.Limit()
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	results := make([]result.Result, 0, len(selected))
	for i := range selected {
		cs := &selected[i]

		name, ok := names[cs.DocumentID]
		if !ok || name == "" {
			name = fmt.Sprintf("Document %s", cs.DocumentID)
		}
		if req.Granularity() == request.ChunkGranularity {
			name = fmt.Sprintf("%s (Chunk %d)", name, cs.ChunkIndex+1)
		}

		results = append(results, result.New(cs.ID(), name, cs.Content, cs.Fused, cs.Matches))
	}

	return results, degraded
}

// bestPerDocument keeps the highest-scoring chunk of each document.
// Input is already sorted by fused score descending.
func bestPerDocument(selected []score.ChunkScore) []score.ChunkScore {
	seen := make(map[string]struct{}, len(selected))
	out := selected[:0]
	for i := range selected {
		if _, dup := seen[selected[i].DocumentID]; dup {
			continue
		}
		seen[selected[i].DocumentID] = struct{}{}
		out = append(out, selected[i])
	}
	return out
}

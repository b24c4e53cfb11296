package vector

import (
	"context"

	"github.com/siamtext/docrank/internal/db"
	"github.com/siamtext/docrank/internal/domain"
)

// mockSearcher implements the consumer interface for tests.
type mockSearcher struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockSearcher) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockEmbedder returns a fixed vector.
type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

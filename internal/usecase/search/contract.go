package search

import (
	"context"

	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/chunk"
	"github.com/siamtext/docrank/internal/domain/document"
	"github.com/siamtext/docrank/internal/domain/search/score"
)

// ChunkStore reads the corpus snapshot for a query.
type ChunkStore interface {
	GetChunks(ctx context.Context, ownerID string, documentIDs []string) ([]chunk.Chunk, error)
}

// DocumentStore reads document metadata for result assembly.
type DocumentStore interface {
	GetDocuments(ctx context.Context, ownerID string) ([]document.Document, error)
}

// VectorSearcher is the external vector-similarity collaborator.
// Hit scores are normalized to [0,1].
type VectorSearcher interface {
	Similar(ctx context.Context, query, ownerID string, limit int, documentIDs []string) ([]score.VectorHit, error)
}

// QueryExpander is the optional language-understanding collaborator that
// suggests additional search terms. Failures degrade, never fail a query.
type QueryExpander interface {
	Expand(ctx context.Context, query string) (domain.Expansion, error)
}

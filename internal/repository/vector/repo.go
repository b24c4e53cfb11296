// Package vector answers "which chunks are semantically close to this
// query" by embedding the query text and running a KNN search over the
// chunk index.
package vector

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/siamtext/docrank/internal/db"
	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/search/score"
)

// Hash field names, mirrored from the chunk repository's schema.
const (
	fieldContent = "__content"
	fieldDoc     = "__doc"
	fieldIndex   = "__idx"
	fieldOwner   = "__owner"
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// searcher is the consumer interface for KNN search (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.VectorSearcher.
type Repo struct {
	embedder Embedder
	searcher searcher
}

// New creates a vector search repository.
func New(e Embedder, s searcher) *Repo {
	return &Repo{embedder: e, searcher: s}
}

// Similar embeds the query and returns the limit nearest chunks of the
// owner, optionally narrowed to specific documents. Scores are cosine
// similarity in [0,1].
func (r *Repo) Similar(
	ctx context.Context, query, ownerID string, limit int, documentIDs []string,
) ([]score.VectorHit, error) {
	emb, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	filters := []db.TagFilter{{Field: fieldOwner, Values: []string{ownerID}}}
	if len(documentIDs) > 0 {
		filters = append(filters, db.TagFilter{Field: fieldDoc, Values: documentIDs})
	}

	result, err := r.searcher.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    domain.ChunkIndexName,
		Filters:      filters,
		Vector:       emb.Embedding,
		K:            limit,
		ReturnFields: []string{fieldContent, fieldDoc, fieldIndex},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, nil // nothing indexed yet
		}
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]score.VectorHit, 0, len(result.Entries))
	for _, entry := range result.Entries {
		hit, ok := parseEntry(entry)
		if !ok {
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func parseEntry(entry db.SearchEntry) (score.VectorHit, bool) {
	docID := entry.Fields[fieldDoc]
	idx := -1
	if s, ok := entry.Fields[fieldIndex]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			idx = n
		}
	}

	if docID == "" || idx < 0 {
		_, keyDoc, keyIdx, ok := domain.ParseChunkKey(entry.Key)
		if !ok {
			return score.VectorHit{}, false
		}
		if docID == "" {
			docID = keyDoc
		}
		if idx < 0 {
			idx = keyIdx
		}
	}

	return score.VectorHit{
		DocumentID: docID,
		ChunkIndex: idx,
		Content:    entry.Fields[fieldContent],
		Score:      entry.Score,
	}, true
}

// Package chunk loads chunk hashes from the store for lexical scoring.
package chunk

import (
	"context"
	"fmt"
	"sort"

	"github.com/siamtext/docrank/internal/domain"
	domchunk "github.com/siamtext/docrank/internal/domain/chunk"
)

// store is the consumer interface for chunk hashes (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/search.ChunkStore.
type Repo struct {
	store store
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// GetChunks returns every chunk of an owner, narrowed to the given document
// IDs when non-empty. The result is ordered by document ID, then chunk index.
func (r *Repo) GetChunks(ctx context.Context, ownerID string, documentIDs []string) ([]domchunk.Chunk, error) {
	keys, err := r.scanKeys(ctx, ownerID, documentIDs)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	fields, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load chunks for %s: %w", ownerID, err)
	}

	chunks := make([]domchunk.Chunk, 0, len(keys))
	for i, m := range fields {
		if len(m) == 0 {
			continue // deleted between scan and fetch
		}
		c, ok := parseHashFields(keys[i], m)
		if !ok {
			continue
		}
		chunks = append(chunks, c)
	}

	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].DocumentID() != chunks[j].DocumentID() {
			return chunks[i].DocumentID() < chunks[j].DocumentID()
		}
		return chunks[i].Index() < chunks[j].Index()
	})

	return chunks, nil
}

func (r *Repo) scanKeys(ctx context.Context, ownerID string, documentIDs []string) ([]string, error) {
	if len(documentIDs) == 0 {
		keys, err := r.store.Scan(ctx, domain.ChunkKeyPattern(ownerID, ""))
		if err != nil {
			return nil, fmt.Errorf("scan chunks for %s: %w", ownerID, err)
		}
		return keys, nil
	}

	var keys []string
	for _, docID := range documentIDs {
		docKeys, err := r.store.Scan(ctx, domain.ChunkKeyPattern(ownerID, docID))
		if err != nil {
			return nil, fmt.Errorf("scan chunks for %s/%s: %w", ownerID, docID, err)
		}
		keys = append(keys, docKeys...)
	}
	return keys, nil
}

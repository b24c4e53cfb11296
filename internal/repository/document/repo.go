// Package document loads document metadata for result assembly.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/siamtext/docrank/internal/db"
	"github.com/siamtext/docrank/internal/domain"
	domdoc "github.com/siamtext/docrank/internal/domain/document"
)

// store is the consumer interface for document metadata (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements usecase/search.DocumentStore.
type Repo struct {
	store store
}

// New creates a document metadata repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// GetDocuments returns all document metadata for an owner. A missing key
// means the owner has no documents yet and is not an error.
func (r *Repo) GetDocuments(ctx context.Context, ownerID string) ([]domdoc.Document, error) {
	key := domain.DocumentsKey(ownerID)

	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	return parseDocumentList(raw)
}

// PutDocuments replaces the owner's document metadata list. Used by the
// seed tool; the search path never writes.
func (r *Repo) PutDocuments(ctx context.Context, ownerID string, docs []domdoc.Document) error {
	key := domain.DocumentsKey(ownerID)

	dtos := make([]documentDTO, len(docs))
	for i := range docs {
		dtos[i] = toDTO(&docs[i])
	}

	data, err := json.Marshal(dtos)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

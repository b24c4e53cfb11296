package chunk

import (
	"strconv"

	"github.com/siamtext/docrank/internal/domain"
	domchunk "github.com/siamtext/docrank/internal/domain/chunk"
)

// Hash field names shared with the seed tool and the FT index schema.
const (
	FieldContent = "__content"
	FieldDoc     = "__doc"
	FieldIndex   = "__idx"
	FieldOwner   = "__owner"
	FieldVector  = "__vector"
)

// parseHashFields converts a chunk hash into a domain Chunk. Identity
// fields missing from the hash are recovered from the key.
func parseHashFields(key string, m map[string]string) (domchunk.Chunk, bool) {
	docID := m[FieldDoc]
	ownerID := m[FieldOwner]
	idx := -1
	if s, ok := m[FieldIndex]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			idx = n
		}
	}

	if docID == "" || ownerID == "" || idx < 0 {
		keyOwner, keyDoc, keyIdx, ok := domain.ParseChunkKey(key)
		if !ok {
			return domchunk.Chunk{}, false
		}
		if docID == "" {
			docID = keyDoc
		}
		if ownerID == "" {
			ownerID = keyOwner
		}
		if idx < 0 {
			idx = keyIdx
		}
	}

	return domchunk.New(docID, idx, m[FieldContent], ownerID), true
}

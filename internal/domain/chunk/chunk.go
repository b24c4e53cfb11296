// Package chunk holds the atomic unit of scoring: a bounded slice of a
// document's extracted text. Chunks are read-only for the engine; the
// ingestion pipeline owns them.
package chunk

import "fmt"

// Chunk is an immutable slice of a document's text.
type Chunk struct {
	documentID string
	index      int
	content    string
	ownerID    string
}

// New creates a chunk.
func New(documentID string, index int, content, ownerID string) Chunk {
	return Chunk{documentID: documentID, index: index, content: content, ownerID: ownerID}
}

// DocumentID returns the owning document identifier.
func (c *Chunk) DocumentID() string { return c.documentID }

// Index returns the chunk's position within its document.
func (c *Chunk) Index() int { return c.index }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// OwnerID returns the owner the chunk is scoped to.
func (c *Chunk) OwnerID() string { return c.ownerID }

// ID returns the externally visible chunk identifier.
func (c *Chunk) ID() string { return fmt.Sprintf("%s-%d", c.documentID, c.index) }

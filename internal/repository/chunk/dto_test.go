package chunk

import (
	"testing"

	"github.com/siamtext/docrank/internal/domain"
)

func TestParseHashFields(t *testing.T) {
	key := domain.ChunkKey("acme", "doc1", 2)
	c, ok := parseHashFields(key, map[string]string{
		FieldContent: "chunk text",
		FieldDoc:     "doc1",
		FieldIndex:   "2",
		FieldOwner:   "acme",
	})
	if !ok {
		t.Fatal("parse failed")
	}
	if c.DocumentID() != "doc1" || c.Index() != 2 || c.OwnerID() != "acme" {
		t.Errorf("identity = (%s, %d, %s), want (doc1, 2, acme)", c.DocumentID(), c.Index(), c.OwnerID())
	}
	if c.Content() != "chunk text" {
		t.Errorf("content = %q", c.Content())
	}
}

func TestParseHashFields_RecoversIdentityFromKey(t *testing.T) {
	key := domain.ChunkKey("acme", "doc1", 7)
	c, ok := parseHashFields(key, map[string]string{
		FieldContent: "only content stored",
	})
	if !ok {
		t.Fatal("parse failed")
	}
	if c.DocumentID() != "doc1" || c.Index() != 7 || c.OwnerID() != "acme" {
		t.Errorf("identity = (%s, %d, %s), want recovered (doc1, 7, acme)", c.DocumentID(), c.Index(), c.OwnerID())
	}
}

func TestParseHashFields_DocumentIDWithColons(t *testing.T) {
	key := domain.ChunkKey("acme", "ns:doc:v2", 0)
	c, ok := parseHashFields(key, nil)
	if !ok {
		t.Fatal("parse failed")
	}
	if c.DocumentID() != "ns:doc:v2" {
		t.Errorf("document id = %q, want %q", c.DocumentID(), "ns:doc:v2")
	}
}

func TestParseHashFields_UnparsableKey(t *testing.T) {
	if _, ok := parseHashFields("some:other:key", nil); ok {
		t.Error("expected failure for a foreign key with no identity fields")
	}
}

func TestParseHashFields_BadIndexFallsBackToKey(t *testing.T) {
	key := domain.ChunkKey("acme", "doc1", 4)
	c, ok := parseHashFields(key, map[string]string{
		FieldDoc:   "doc1",
		FieldOwner: "acme",
		FieldIndex: "not-a-number",
	})
	if !ok {
		t.Fatal("parse failed")
	}
	if c.Index() != 4 {
		t.Errorf("index = %d, want 4 from the key", c.Index())
	}
}

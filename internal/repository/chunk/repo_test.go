package chunk

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/siamtext/docrank/internal/domain"
)

func chunkHash(owner, doc, idx, content string) map[string]string {
	return map[string]string{
		FieldContent: content,
		FieldDoc:     doc,
		FieldIndex:   idx,
		FieldOwner:   owner,
	}
}

func TestGetChunks_SortedByDocumentThenIndex(t *testing.T) {
	ms := &mockStore{}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != domain.ChunkKeyPattern("acme", "") {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		// Scan order is arbitrary.
		return []string{
			domain.ChunkKey("acme", "beta", 1),
			domain.ChunkKey("acme", "alpha", 0),
			domain.ChunkKey("acme", "beta", 0),
		}, nil
	}
	ms.hGetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, key := range keys {
			owner, doc, idx, _ := domain.ParseChunkKey(key)
			out[i] = chunkHash(owner, doc, strconv.Itoa(idx), "content of "+key)
		}
		return out, nil
	}

	chunks, err := New(ms).GetChunks(context.Background(), "acme", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantOrder := []struct {
		doc string
		idx int
	}{{"alpha", 0}, {"beta", 0}, {"beta", 1}}
	for i, want := range wantOrder {
		if chunks[i].DocumentID() != want.doc || chunks[i].Index() != want.idx {
			t.Errorf("chunks[%d] = (%s, %d), want (%s, %d)",
				i, chunks[i].DocumentID(), chunks[i].Index(), want.doc, want.idx)
		}
	}
}

func TestGetChunks_Empty(t *testing.T) {
	ms := &mockStore{}

	chunks, err := New(ms).GetChunks(context.Background(), "acme", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil for an empty owner, got %v", chunks)
	}
}

func TestGetChunks_NarrowsToDocuments(t *testing.T) {
	ms := &mockStore{}
	var patterns []string
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		patterns = append(patterns, pattern)
		return nil, nil
	}

	if _, err := New(ms).GetChunks(context.Background(), "acme", []string{"d1", "d2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected one scan per document, got %v", patterns)
	}
	if patterns[0] != domain.ChunkKeyPattern("acme", "d1") || patterns[1] != domain.ChunkKeyPattern("acme", "d2") {
		t.Errorf("unexpected patterns: %v", patterns)
	}
}

func TestGetChunks_SkipsDeleted(t *testing.T) {
	ms := &mockStore{}
	ms.scanFn = func(context.Context, string) ([]string, error) {
		return []string{
			domain.ChunkKey("acme", "d1", 0),
			domain.ChunkKey("acme", "d1", 1),
		}, nil
	}
	ms.hGetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		// The second hash vanished between scan and fetch.
		return []map[string]string{
			chunkHash("acme", "d1", "0", "still here"),
			{},
		}, nil
	}

	chunks, err := New(ms).GetChunks(context.Background(), "acme", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content() != "still here" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestGetChunks_ScanError(t *testing.T) {
	boom := errors.New("scan failed")
	ms := &mockStore{}
	ms.scanFn = func(context.Context, string) ([]string, error) { return nil, boom }

	if _, err := New(ms).GetChunks(context.Background(), "acme", nil); !errors.Is(err, boom) {
		t.Errorf("expected scan error to propagate, got %v", err)
	}
}

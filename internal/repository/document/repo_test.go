package document

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/siamtext/docrank/internal/db"
	"github.com/siamtext/docrank/internal/domain"
	domdoc "github.com/siamtext/docrank/internal/domain/document"
)

func TestGetDocuments_HappyPath(t *testing.T) {
	ms := &mockStore{}
	ms.jsonGetFn = func(_ context.Context, key string, paths ...string) ([]byte, error) {
		if key != domain.DocumentsKey("acme") {
			t.Errorf("unexpected key: %s", key)
		}
		if len(paths) != 1 || paths[0] != "$" {
			t.Errorf("unexpected paths: %v", paths)
		}
		return []byte(`[[{"id":"d1","name":"Guide"}]]`), nil
	}

	docs, err := New(ms).GetDocuments(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "d1" || docs[0].Name() != "Guide" {
		t.Errorf("unexpected docs: %v", docs)
	}
}

func TestGetDocuments_MissingKeyMeansNoDocuments(t *testing.T) {
	ms := &mockStore{}
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	docs, err := New(ms).GetDocuments(context.Background(), "acme")
	if err != nil {
		t.Fatalf("missing key should not be an error: %v", err)
	}
	if docs != nil {
		t.Errorf("expected nil, got %v", docs)
	}
}

func TestGetDocuments_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	ms := &mockStore{}
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return nil, boom
	}

	if _, err := New(ms).GetDocuments(context.Background(), "acme"); !errors.Is(err, boom) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}

func TestPutDocuments_RoundTrip(t *testing.T) {
	var written []byte
	ms := &mockStore{}
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		if key != domain.DocumentsKey("acme") || path != "$" {
			t.Errorf("unexpected target: %s %s", key, path)
		}
		written = data
		return nil
	}

	docs := []domdoc.Document{
		domdoc.New("d1", "Guide", "a summary", "manuals", []string{"th"}, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)),
	}
	if err := New(ms).PutDocuments(context.Background(), "acme", docs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dtos []documentDTO
	if err := json.Unmarshal(written, &dtos); err != nil {
		t.Fatalf("written payload not valid JSON: %v", err)
	}
	if len(dtos) != 1 || dtos[0].ID != "d1" || dtos[0].Category != "manuals" {
		t.Errorf("unexpected payload: %+v", dtos)
	}
}

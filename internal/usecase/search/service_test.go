package search

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/chunk"
	"github.com/siamtext/docrank/internal/domain/document"
	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/score"
)

// --- Mocks ---

type mockChunks struct {
	chunks []chunk.Chunk
	err    error

	gotOwner string
	gotDocs  []string
}

func (m *mockChunks) GetChunks(_ context.Context, ownerID string, documentIDs []string) ([]chunk.Chunk, error) {
	m.gotOwner = ownerID
	m.gotDocs = documentIDs
	return m.chunks, m.err
}

type mockDocuments struct {
	docs []document.Document
	err  error
}

func (m *mockDocuments) GetDocuments(context.Context, string) ([]document.Document, error) {
	return m.docs, m.err
}

type mockVectors struct {
	hits []score.VectorHit
	err  error

	called bool
}

func (m *mockVectors) Similar(_ context.Context, _, _ string, _ int, _ []string) ([]score.VectorHit, error) {
	m.called = true
	return m.hits, m.err
}

type mockExpander struct {
	expansion domain.Expansion
	err       error

	called bool
}

func (m *mockExpander) Expand(context.Context, string) (domain.Expansion, error) {
	m.called = true
	return m.expansion, m.err
}

// --- Tests ---

func newService(chunks *mockChunks, docs *mockDocuments, vectors *mockVectors) *Service {
	return New(chunks, docs, vectors)
}

func hybridRequest(t *testing.T, query string) request.Request {
	t.Helper()
	r, err := request.New(query, "acme", request.Hybrid, 0.5, 0.5, 0.25, 0, nil, request.ChunkGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func TestSearch_EmptyQuery(t *testing.T) {
	chunks := &mockChunks{}
	vectors := &mockVectors{}
	svc := newService(chunks, &mockDocuments{}, vectors)

	resp, err := svc.Search(context.Background(), hybridRequest(t, "   "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 || len(resp.Degraded) != 0 {
		t.Errorf("blank query: got %+v, want empty response", resp)
	}
	if chunks.gotOwner != "" || vectors.called {
		t.Error("blank query must not touch collaborators")
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	svc := newService(&mockChunks{}, &mockDocuments{}, &mockVectors{})

	resp, err := svc.Search(context.Background(), hybridRequest(t, "mall"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("got %d results from an empty corpus", len(resp.Results))
	}
}

func TestSearch_ChunkStoreErrorFailsQuery(t *testing.T) {
	boom := errors.New("redis down")
	svc := newService(&mockChunks{err: boom}, &mockDocuments{}, &mockVectors{})

	if _, err := svc.Search(context.Background(), hybridRequest(t, "mall")); !errors.Is(err, boom) {
		t.Errorf("expected corpus error to propagate, got %v", err)
	}
}

func TestSearch_HybridRanking(t *testing.T) {
	// Exact match should outrank the fuzzy one, and the below-threshold
	// vector hit must not surface its chunk.
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("exact", 0, "the shopping mall is open daily", "acme"),
		chunk.New("fuzzy", 0, "the shopping mell is open daily", "acme"),
		chunk.New("weakvec", 0, "completely unrelated topic here", "acme"),
	}}
	vectors := &mockVectors{hits: []score.VectorHit{
		{DocumentID: "exact", ChunkIndex: 0, Score: 0.80},
		{DocumentID: "weakvec", ChunkIndex: 0, Score: 0.10},
	}}
	docs := &mockDocuments{docs: []document.Document{
		document.New("exact", "Mall Guide", "", "", nil, time.Time{}),
	}}

	svc := newService(chunks, docs, vectors)
	resp, err := svc.Search(context.Background(), hybridRequest(t, `"mall"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Degraded) != 0 {
		t.Fatalf("unexpected degradation: %v", resp.Degraded)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].ID() != "exact-0" {
		t.Errorf("top result = %q, want exact-0", resp.Results[0].ID())
	}
	if resp.Results[1].ID() != "fuzzy-0" {
		t.Errorf("second result = %q, want fuzzy-0", resp.Results[1].ID())
	}
	for i := range resp.Results {
		if resp.Results[i].ID() == "weakvec-0" {
			t.Error("below-threshold vector hit must be excluded")
		}
	}

	if got := resp.Results[0].DisplayName(); got != "Mall Guide (Chunk 1)" {
		t.Errorf("display name = %q, want %q", got, "Mall Guide (Chunk 1)")
	}
	// No metadata for "fuzzy": synthetic name.
	if got := resp.Results[1].DisplayName(); got != "Document fuzzy (Chunk 1)" {
		t.Errorf("placeholder name = %q, want %q", got, "Document fuzzy (Chunk 1)")
	}

	// Top result fused both sides: one lexical match plus the semantic detail.
	matches := resp.Results[0].Matches()
	var semantic, lexical bool
	for _, m := range matches {
		if m.Term == score.SemanticTerm {
			semantic = true
		} else {
			lexical = true
		}
	}
	if !semantic || !lexical {
		t.Errorf("top result matches = %+v, want lexical and semantic details", matches)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("b", 0, "mall mall plaza", "acme"),
		chunk.New("a", 0, "mall mall plaza", "acme"),
		chunk.New("c", 0, "mall plaza town", "acme"),
		chunk.New("filler", 0, "nothing relevant here", "acme"),
	}}
	svc := newService(chunks, &mockDocuments{}, &mockVectors{})

	var first []string
	for run := 0; run < 5; run++ {
		resp, err := svc.Search(context.Background(), hybridRequest(t, "mall plaza"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids := make([]string, len(resp.Results))
		for i := range resp.Results {
			ids[i] = resp.Results[i].ID()
		}
		if first == nil {
			first = ids
			continue
		}
		if !reflect.DeepEqual(ids, first) {
			t.Fatalf("run %d ordering %v differs from %v", run, ids, first)
		}
	}
	// The identical chunks a-0 and b-0 tie; ID ordering breaks it.
	if len(first) < 2 || first[0] != "a-0" || first[1] != "b-0" {
		t.Errorf("tie not broken by ID: %v", first)
	}
}

func TestSearch_VectorOutageDegrades(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("d", 0, "the mall is open", "acme"),
		chunk.New("filler", 0, "nothing relevant here", "acme"),
	}}
	vectors := &mockVectors{err: errors.New("index offline")}

	svc := newService(chunks, &mockDocuments{}, vectors)
	resp, err := svc.Search(context.Background(), hybridRequest(t, "mall"))
	if err != nil {
		t.Fatalf("vector outage must not fail the query: %v", err)
	}
	if !degradedWith(resp, DegradedVector) {
		t.Errorf("degraded = %v, want %q", resp.Degraded, DegradedVector)
	}
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want 1 from lexical-only scoring", len(resp.Results))
	}
}

func TestSearch_ExpansionOutageDegrades(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("d", 0, "the mall is open", "acme"),
		chunk.New("filler", 0, "nothing relevant here", "acme"),
	}}
	exp := &mockExpander{err: domain.ErrExpansionUnavailable}

	svc := newService(chunks, &mockDocuments{}, &mockVectors{}).WithExpander(exp)
	resp, err := svc.Search(context.Background(), hybridRequest(t, "mall"))
	if err != nil {
		t.Fatalf("expansion outage must not fail the query: %v", err)
	}
	if !exp.called {
		t.Fatal("expander not invoked")
	}
	if !degradedWith(resp, DegradedExpansion) {
		t.Errorf("degraded = %v, want %q", resp.Degraded, DegradedExpansion)
	}
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want 1 from original terms", len(resp.Results))
	}
}

func TestSearch_ExpansionBroadensRecall(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("direct", 0, "the mall is open", "acme"),
		chunk.New("synonym", 0, "the department store is open", "acme"),
	}}
	exp := &mockExpander{expansion: domain.Expansion{Terms: []string{"department store"}}}

	svc := newService(chunks, &mockDocuments{}, &mockVectors{}).WithExpander(exp)
	resp, err := svc.Search(context.Background(), hybridRequest(t, "mall"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want both direct and expanded hits", len(resp.Results))
	}
	if resp.Results[0].ID() != "direct-0" {
		t.Errorf("top result = %q, expanded term must not outrank the original", resp.Results[0].ID())
	}
}

func TestSearch_MetadataOutageDegrades(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("doc9", 2, "the mall is open", "acme"),
		chunk.New("filler", 0, "nothing relevant here", "acme"),
	}}
	docs := &mockDocuments{err: errors.New("metadata store down")}

	svc := newService(chunks, docs, &mockVectors{})
	resp, err := svc.Search(context.Background(), hybridRequest(t, "mall"))
	if err != nil {
		t.Fatalf("metadata outage must not fail the query: %v", err)
	}
	if !degradedWith(resp, DegradedMetadata) {
		t.Errorf("degraded = %v, want %q", resp.Degraded, DegradedMetadata)
	}
	if got := resp.Results[0].DisplayName(); got != "Document doc9 (Chunk 3)" {
		t.Errorf("display name = %q, want placeholder with 1-based chunk label", got)
	}
}

func TestSearch_SemanticModeSkipsLexicalAndExpansion(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("lex", 0, "mall mall mall", "acme"),
	}}
	vectors := &mockVectors{hits: []score.VectorHit{
		{DocumentID: "sem", ChunkIndex: 0, Content: "related by meaning", Score: 0.9},
	}}
	exp := &mockExpander{}

	req, err := request.New("mall", "acme", request.Semantic, 0, 1, 0.25, 0, nil, request.ChunkGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}

	svc := newService(chunks, &mockDocuments{}, vectors).WithExpander(exp)
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.called {
		t.Error("semantic mode must not expand the query")
	}
	if len(resp.Results) != 1 || resp.Results[0].ID() != "sem-0" {
		t.Errorf("results = %+v, want only the vector hit", resp.Results)
	}
}

func TestSearch_KeywordModeSkipsVector(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("d", 0, "the mall is open", "acme"),
	}}
	vectors := &mockVectors{}

	req, err := request.New("mall", "acme", request.Keyword, 1, 0, 0.25, 0, nil, request.ChunkGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}

	svc := newService(chunks, &mockDocuments{}, vectors)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors.called {
		t.Error("keyword mode must not call the vector collaborator")
	}
}

func TestSearch_DocumentGranularityDedupes(t *testing.T) {
	chunks := &mockChunks{chunks: []chunk.Chunk{
		chunk.New("doc", 0, "mall is open today", "acme"),
		chunk.New("doc", 1, "mall mall mall prices", "acme"),
		chunk.New("other", 0, "mall somewhere else entirely", "acme"),
		chunk.New("filler", 0, "nothing relevant here", "acme"),
	}}
	docs := &mockDocuments{docs: []document.Document{
		document.New("doc", "Guide", "", "", nil, time.Time{}),
	}}

	req, err := request.New("mall", "acme", request.Hybrid, 0.5, 0.5, 0.25, 0, nil, request.DocumentGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}

	svc := newService(chunks, docs, &mockVectors{})
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want one per document", len(resp.Results))
	}
	if resp.Results[0].ID() != "doc-1" {
		t.Errorf("top result = %q, want the document's best chunk doc-1", resp.Results[0].ID())
	}
	if got := resp.Results[0].DisplayName(); got != "Guide" {
		t.Errorf("display name = %q, document granularity must omit the chunk label", got)
	}
}

func TestSearch_LimitTruncates(t *testing.T) {
	var cs []chunk.Chunk
	for i := 0; i < 6; i++ {
		cs = append(cs, chunk.New("d", i, strings.Repeat("mall ", i+1), "acme"))
	}
	cs = append(cs, chunk.New("filler", 0, "nothing relevant here", "acme"))
	chunks := &mockChunks{chunks: cs}

	req, err := request.New("mall", "acme", request.Hybrid, 0.5, 0.5, 0.25, 2, nil, request.ChunkGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}

	svc := newService(chunks, &mockDocuments{}, &mockVectors{})
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("got %d results, want the requested limit of 2", len(resp.Results))
	}
}

func degradedWith(resp *Response, reason string) bool {
	for _, r := range resp.Degraded {
		if r == reason {
			return true
		}
	}
	return false
}

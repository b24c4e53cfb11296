package search

import (
	"testing"

	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/score"
)

func mustRequest(t *testing.T, mode request.Mode, kw, vw, threshold float64) request.Request {
	t.Helper()
	r, err := request.New("q", "acme", mode, kw, vw, threshold, 0, nil, request.ChunkGranularity)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func TestFuse_ThresholdExcludesVectorHit(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.25)

	hits := []score.VectorHit{
		{DocumentID: "keep", ChunkIndex: 0, Score: 0.25},
		{DocumentID: "drop", ChunkIndex: 0, Score: 0.24},
	}

	fused := fuse(nil, hits, &req, DefaultTuning())
	if len(fused) != 1 {
		t.Fatalf("got %d fused chunks, want 1", len(fused))
	}
	if fused[0].ID() != "keep-0" {
		t.Errorf("kept %q, want keep-0", fused[0].ID())
	}
}

func TestFuse_ThresholdDoesNotRescueLexicalSide(t *testing.T) {
	// A below-threshold hit for a lexically matched chunk contributes
	// nothing, but the lexical score survives on its own.
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.5)

	lexical := []score.ChunkScore{{DocumentID: "d", ChunkIndex: 0, Lexical: 1.0}}
	hits := []score.VectorHit{{DocumentID: "d", ChunkIndex: 0, Score: 0.4}}

	fused := fuse(lexical, hits, &req, DefaultTuning())
	if len(fused) != 1 {
		t.Fatalf("got %d fused chunks, want 1", len(fused))
	}
	if fused[0].Vector != 0 {
		t.Errorf("vector = %g, want 0 for a gated hit", fused[0].Vector)
	}
	// normLex = 1.0/2.0 = 0.5, fused = 0.5*0.5
	if fused[0].Fused != 0.25 {
		t.Errorf("fused = %g, want 0.25", fused[0].Fused)
	}
}

func TestFuse_MergesBothSides(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.25)

	lexical := []score.ChunkScore{{DocumentID: "d", ChunkIndex: 1, Lexical: 2.0}}
	hits := []score.VectorHit{{DocumentID: "d", ChunkIndex: 1, Score: 0.8}}

	fused := fuse(lexical, hits, &req, DefaultTuning())
	if len(fused) != 1 {
		t.Fatalf("got %d fused chunks, want 1", len(fused))
	}
	// normLex = min(2.0/2.0, 1) = 1.0; fused = 1.0*0.5 + 0.8*0.5 = 0.9
	if got := fused[0].Fused; got < 0.899 || got > 0.901 {
		t.Errorf("fused = %g, want 0.9", got)
	}
}

func TestFuse_ClampsToOne(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 1.0, 1.0, 0.25)

	lexical := []score.ChunkScore{{DocumentID: "d", ChunkIndex: 0, Lexical: 5.0}}
	hits := []score.VectorHit{{DocumentID: "d", ChunkIndex: 0, Score: 1.0}}

	fused := fuse(lexical, hits, &req, DefaultTuning())
	if len(fused) != 1 || fused[0].Fused != 1.0 {
		t.Errorf("fused = %+v, want single chunk clamped to 1.0", fused)
	}
}

func TestFuse_KeywordOnlyIgnoresVector(t *testing.T) {
	req := mustRequest(t, request.Keyword, 1.0, 0, 0.25)

	lexical := []score.ChunkScore{{DocumentID: "lex", ChunkIndex: 0, Lexical: 1.0}}
	hits := []score.VectorHit{{DocumentID: "vec", ChunkIndex: 0, Score: 0.9}}

	fused := fuse(lexical, hits, &req, DefaultTuning())
	if len(fused) != 1 {
		t.Fatalf("got %d fused chunks, want 1 (vector-only chunk fuses to zero)", len(fused))
	}
	if fused[0].ID() != "lex-0" {
		t.Errorf("kept %q, want lex-0", fused[0].ID())
	}
	for _, m := range fused[0].Matches {
		if m.Term == score.SemanticTerm {
			t.Error("semantic match detail must not appear with zero vector weight")
		}
	}
}

func TestFuse_SemanticMatchDetail(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.25)

	hits := []score.VectorHit{{DocumentID: "d", ChunkIndex: 0, Content: "text", Score: 0.7}}

	fused := fuse(nil, hits, &req, DefaultTuning())
	if len(fused) != 1 {
		t.Fatalf("got %d fused chunks, want 1", len(fused))
	}
	if len(fused[0].Matches) != 1 || fused[0].Matches[0].Term != score.SemanticTerm {
		t.Fatalf("matches = %+v, want single semantic detail", fused[0].Matches)
	}
	if fused[0].Matches[0].Score != 0.7 {
		t.Errorf("semantic detail score = %g, want 0.7", fused[0].Matches[0].Score)
	}
}

func TestFuse_DropsZeroFused(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.25)

	lexical := []score.ChunkScore{{DocumentID: "d", ChunkIndex: 0, Lexical: 0}}
	if fused := fuse(lexical, nil, &req, DefaultTuning()); len(fused) != 0 {
		t.Errorf("got %d fused chunks, want 0", len(fused))
	}
}

func TestFuse_Empty(t *testing.T) {
	req := mustRequest(t, request.Hybrid, 0.5, 0.5, 0.25)
	if fused := fuse(nil, nil, &req, DefaultTuning()); len(fused) != 0 {
		t.Errorf("got %d fused chunks from empty inputs", len(fused))
	}
}

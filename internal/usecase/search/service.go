// Package search implements the hybrid ranking engine: lexical TF-IDF
// scoring fused with external vector similarity, an adaptive result-set
// selector, and result assembly.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/result"
	"github.com/siamtext/docrank/internal/domain/search/score"
	"github.com/siamtext/docrank/internal/domain/search/term"
	"github.com/siamtext/docrank/internal/domain/text"
	"github.com/siamtext/docrank/internal/logger"
	"github.com/siamtext/docrank/internal/metrics"
)

// Degradation reasons reported alongside results. A degraded search
// still returns the best answer the remaining collaborators allow.
const (
	DegradedVector    = "vector_unavailable"
	DegradedExpansion = "expansion_unavailable"
	DegradedMetadata  = "metadata_unavailable"
)

// Response is the outcome of one search.
type Response struct {
	Results  []result.Result
	Degraded []string
}

// Service ranks document chunks for a query. All scoring state is
// query-scoped; the service itself is stateless and safe for concurrent
// use.
type Service struct {
	chunks    ChunkStore
	documents DocumentStore
	vectors   VectorSearcher
	expander  QueryExpander
	tuning    Tuning
	stops     text.StopWordSet
}

// New creates a search service with the default tuning.
func New(chunks ChunkStore, documents DocumentStore, vectors VectorSearcher) *Service {
	return &Service{
		chunks:    chunks,
		documents: documents,
		vectors:   vectors,
		tuning:    DefaultTuning(),
		stops:     text.WithExtra(nil),
	}
}

// WithExpander attaches the optional query-expansion collaborator.
func (s *Service) WithExpander(e QueryExpander) *Service {
	s.expander = e
	return s
}

// WithTuning overrides the ranking knobs.
func (s *Service) WithTuning(t Tuning) *Service {
	s.tuning = t
	return s
}

// WithStopWords layers additional stop words over the built-in sets.
func (s *Service) WithStopWords(words []string) *Service {
	s.stops = text.WithExtra(words)
	return s
}

// Search executes the full pipeline: parse terms, optionally expand,
// score lexically and by vector similarity concurrently, fuse, select
// adaptively, assemble. Collaborator outages degrade the response
// instead of failing it; only corpus retrieval errors and cancellation
// abort a query.
func (s *Service) Search(ctx context.Context, req request.Request) (*Response, error) {
	start := time.Now()
	resp := &Response{}

	if strings.TrimSpace(req.Query()) == "" {
		s.observe(req.Mode(), resp, start)
		return resp, nil
	}

	terms := term.Parse(req.Query(), s.stops)
	terms = s.expandTerms(ctx, req, terms, resp)

	chunks, err := s.chunks.GetChunks(ctx, req.OwnerID(), req.DocumentIDs())
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}
	if len(chunks) == 0 {
		s.observe(req.Mode(), resp, start)
		return resp, nil
	}

	// Lexical and vector passes are independent; fusion is the
	// synchronization point.
	var lexical []score.ChunkScore
	var hits []score.VectorHit
	var vectorErr error

	g, gctx := errgroup.WithContext(ctx)
	if req.Mode() != request.Semantic && len(terms) > 0 {
		g.Go(func() error {
			var lexErr error
			lexical, lexErr = scoreLexical(gctx, terms, chunks, s.tuning)
			return lexErr
		})
	}
	if req.Mode() != request.Keyword && req.VectorWeight() > 0 {
		g.Go(func() error {
			candidates := s.tuning.VectorCandidates
			if req.Limit() > candidates {
				candidates = req.Limit()
			}
			// Collaborator failure degrades the query, it never fails it.
			hits, vectorErr = s.vectors.Similar(gctx, req.Query(), req.OwnerID(), candidates, req.DocumentIDs())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if vectorErr != nil {
		logger.FromContext(ctx).Warn("vector collaborator unavailable, lexical-only scoring",
			zap.String("owner_id", req.OwnerID()),
			zap.Error(vectorErr),
		)
		metrics.SearchDegradedTotal.WithLabelValues(DegradedVector).Inc()
		resp.Degraded = append(resp.Degraded, DegradedVector)
		hits = nil
	}

	scores := fuse(lexical, hits, &req, s.tuning)
	metrics.SearchCandidates.Observe(float64(len(scores)))

	selected, policy := selectAdaptive(scores, s.tuning)
	metrics.SelectorDecisionTotal.WithLabelValues(policy).Inc()

	results, metaDegraded := s.assemble(ctx, selected, &req)
	if metaDegraded {
		metrics.SearchDegradedTotal.WithLabelValues(DegradedMetadata).Inc()
		resp.Degraded = append(resp.Degraded, DegradedMetadata)
	}
	resp.Results = results

	s.observe(req.Mode(), resp, start)
	return resp, nil
}

// expandTerms merges collaborator-suggested terms into the parsed list.
// Expansion is skipped for semantic mode (terms are unused there).
func (s *Service) expandTerms(
	ctx context.Context, req request.Request, terms []term.Term, resp *Response,
) []term.Term {
	if s.expander == nil || req.Mode() == request.Semantic {
		return terms
	}

	exp, err := s.expander.Expand(ctx, req.Query())
	if err != nil {
		logger.FromContext(ctx).Warn("query expansion unavailable, using original terms",
			zap.String("owner_id", req.OwnerID()),
			zap.Error(err),
		)
		metrics.SearchDegradedTotal.WithLabelValues(DegradedExpansion).Inc()
		resp.Degraded = append(resp.Degraded, DegradedExpansion)
		return terms
	}

	return term.MergeExpansion(terms, exp, s.stops)
}

func (s *Service) observe(m request.Mode, resp *Response, start time.Time) {
	outcome := "ok"
	if len(resp.Results) == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(string(m), outcome).Inc()
	metrics.SearchResults.Observe(float64(len(resp.Results)))
	metrics.SearchDuration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
}

package docrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/siamtext/docrank/internal/db/redis"
	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/search/request"
	chunkrepo "github.com/siamtext/docrank/internal/repository/chunk"
	documentrepo "github.com/siamtext/docrank/internal/repository/document"
	vectorrepo "github.com/siamtext/docrank/internal/repository/vector"
	openaiTransport "github.com/siamtext/docrank/internal/transport/openai"
	searchuc "github.com/siamtext/docrank/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the embedded docrank engine.
type Client struct {
	store  *dbRedis.Store
	search *searchuc.Service

	keywordWeight float64
	vectorWeight  float64
	threshold     float64
}

// New creates a Client and connects to the chunk store.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		defaultKeywordWeight: searchuc.DefaultKeywordWeight,
		defaultVectorWeight:  searchuc.DefaultVectorWeight,
		defaultThreshold:     searchuc.DefaultThreshold,
		readiness:            defaultReadinessTimeout,
		logger:               zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("docrank: store address required (use WithRedis or WithAddrs)")
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("docrank: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("docrank: store not ready: %w", err)
	}

	svc := searchuc.New(
		chunkrepo.New(store),
		documentrepo.New(store),
		vectorrepo.New(embedder, store),
	)
	if cfg.tuning != nil {
		svc.WithTuning(engineTuning(*cfg.tuning))
	}
	if len(cfg.stopWords) > 0 {
		svc.WithStopWords(cfg.stopWords)
	}
	if cfg.expander != nil {
		svc.WithExpander(&expanderAdapter{inner: cfg.expander})
	}

	return &Client{
		store:         store,
		search:        svc,
		keywordWeight: cfg.defaultKeywordWeight,
		vectorWeight:  cfg.defaultVectorWeight,
		threshold:     cfg.defaultThreshold,
	}, nil
}

func buildEmbedder(cfg *clientConfig) (vectorrepo.Embedder, error) {
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}, nil
	}
	if cfg.openAI != nil {
		provider := cfg.openAI.Provider
		if provider == "" {
			provider = "openai"
		}
		return openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.openAI.APIKey,
			BaseURL:    cfg.openAI.BaseURL,
			Model:      cfg.openAI.Model,
			Dimensions: cfg.openAI.Dimensions,
			Provider:   provider,
			Logger:     cfg.logger,
		}), nil
	}
	return nil, errors.New("docrank: embedding provider required (use WithOpenAI or WithEmbedder)")
}

// Search ranks the owner's chunks for the query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	kw := req.KeywordWeight
	if kw == 0 {
		kw = c.keywordWeight
	}
	vw := req.VectorWeight
	if vw == 0 {
		vw = c.vectorWeight
	}
	threshold := req.Threshold
	if threshold == 0 {
		threshold = c.threshold
	}

	domReq, err := request.New(
		req.Query, req.OwnerID,
		request.Mode(req.Mode),
		kw, vw, threshold,
		req.Limit, req.DocumentIDs,
		request.Granularity(req.Granularity),
	)
	if err != nil {
		return nil, err
	}

	resp, err := c.search.Search(ctx, domReq)
	if err != nil {
		return nil, err
	}

	out := &SearchResponse{
		Results:  make([]Result, len(resp.Results)),
		Degraded: resp.Degraded,
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		matches := make([]Match, len(r.Matches()))
		for j, m := range r.Matches() {
			matches[j] = Match{Term: m.Term, Score: m.Score, Positions: m.Positions, Fuzzy: m.Fuzzy}
		}
		out.Results[i] = Result{
			ID:          r.ID(),
			DisplayName: r.DisplayName(),
			Content:     r.Content(),
			Similarity:  r.Similarity(),
			Matches:     matches,
		}
	}
	return out, nil
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the store connection.
func (c *Client) Close() {
	c.store.Close()
}

// engineTuning maps the public tuning onto the engine's, keeping the
// engine defaults for zero-valued fields.
func engineTuning(t Tuning) searchuc.Tuning {
	out := searchuc.DefaultTuning()
	if t.MinResults > 0 {
		out.MinResults = t.MinResults
	}
	if t.MaxResults > 0 {
		out.MaxResults = t.MaxResults
	}
	if t.MassFraction > 0 {
		out.MassFraction = t.MassFraction
	}
	if t.QualityFloor > 0 {
		out.QualityFloor = t.QualityFloor
	}
	if t.LexicalCeiling > 0 {
		out.LexicalCeiling = t.LexicalCeiling
	}
	if t.ExactBoost > 0 {
		out.ExactBoost = t.ExactBoost
	}
	if t.FuzzyPenalty > 0 {
		out.FuzzyPenalty = t.FuzzyPenalty
	}
	if t.FuzzyThreshold > 0 {
		out.Fuzzy.Default = t.FuzzyThreshold
	}
	if t.FuzzyShortThreshold > 0 {
		out.Fuzzy.Short = t.FuzzyShortThreshold
	}
	if t.FuzzyThaiThreshold > 0 {
		out.Fuzzy.Thai = t.FuzzyThaiThreshold
	}
	return out
}

// embedderAdapter bridges the public Embedder to the repository contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// expanderAdapter bridges the public Expander to the engine contract.
type expanderAdapter struct {
	inner Expander
}

func (a *expanderAdapter) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	exp, err := a.inner.Expand(ctx, query)
	if err != nil {
		return domain.Expansion{}, err
	}
	return domain.Expansion{
		Terms:      exp.Terms,
		Contextual: exp.Contextual,
		Confidence: exp.Confidence,
	}, nil
}

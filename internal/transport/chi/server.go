// Package chi exposes the search engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/siamtext/docrank/internal/domain"
	"github.com/siamtext/docrank/internal/domain/search/request"
	"github.com/siamtext/docrank/internal/domain/search/result"
	healthuc "github.com/siamtext/docrank/internal/usecase/health"
	searchuc "github.com/siamtext/docrank/internal/usecase/search"
)

// ErrorCode identifies the error class in JSON error responses.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotFound         ErrorCode = "not_found"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeProviderError    ErrorCode = "embedding_provider_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// Defaults fill request fields the client left unset.
type Defaults struct {
	KeywordWeight float64
	VectorWeight  float64
	Threshold     float64
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the search and health services.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	defaults      Defaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, defaults Defaults, logger *zap.Logger) *Server {
	s := &Server{
		search:   search,
		health:   health,
		defaults: defaults,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError),
	}
	return s
}

// Routes registers all handlers on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Post("/v1/search", s.Search)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type searchRequestDTO struct {
	Query         string   `json:"query"`
	OwnerID       string   `json:"owner_id"`
	Mode          string   `json:"mode,omitempty"`
	KeywordWeight *float64 `json:"keyword_weight,omitempty"`
	VectorWeight  *float64 `json:"vector_weight,omitempty"`
	Threshold     *float64 `json:"threshold,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	DocumentIDs   []string `json:"document_ids,omitempty"`
	Granularity   string   `json:"granularity,omitempty"`
}

type matchDTO struct {
	Term      string  `json:"term"`
	Score     float64 `json:"score"`
	Positions []int   `json:"positions,omitempty"`
	Fuzzy     bool    `json:"fuzzy,omitempty"`
}

type resultDTO struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Content     string     `json:"content"`
	Similarity  float64    `json:"similarity"`
	Matches     []matchDTO `json:"matches,omitempty"`
}

type searchResponseDTO struct {
	Query      string      `json:"query"`
	Mode       string      `json:"mode"`
	Results    []resultDTO `json:"results"`
	TotalFound int         `json:"total_found"`
	Degraded   []string    `json:"degraded,omitempty"`
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	req, err := s.requestFromDTO(&dto)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]resultDTO, len(resp.Results))
	for i := range resp.Results {
		items[i] = resultToDTO(&resp.Results[i])
	}

	writeJSON(w, http.StatusOK, searchResponseDTO{
		Query:      req.Query(),
		Mode:       string(req.Mode()),
		Results:    items,
		TotalFound: len(items),
		Degraded:   resp.Degraded,
	})
}

// requestFromDTO applies configured defaults to unset fields and builds
// the validated domain request.
func (s *Server) requestFromDTO(dto *searchRequestDTO) (request.Request, error) {
	kw := s.defaults.KeywordWeight
	if dto.KeywordWeight != nil {
		kw = *dto.KeywordWeight
	}
	vw := s.defaults.VectorWeight
	if dto.VectorWeight != nil {
		vw = *dto.VectorWeight
	}
	threshold := s.defaults.Threshold
	if dto.Threshold != nil {
		threshold = *dto.Threshold
	}

	return request.New(
		dto.Query, dto.OwnerID,
		request.Mode(dto.Mode),
		kw, vw, threshold,
		dto.Limit, dto.DocumentIDs,
		request.Granularity(dto.Granularity),
	)
}

func resultToDTO(r *result.Result) resultDTO {
	matches := make([]matchDTO, len(r.Matches()))
	for i, m := range r.Matches() {
		matches[i] = matchDTO{
			Term:      m.Term,
			Score:     m.Score,
			Positions: m.Positions,
			Fuzzy:     m.Fuzzy,
		}
	}
	return resultDTO{
		ID:          r.ID(),
		DisplayName: r.DisplayName(),
		Content:     r.Content(),
		Similarity:  r.Similarity(),
		Matches:     matches,
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrExpansionUnavailable,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

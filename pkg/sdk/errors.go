package docrank

import "github.com/siamtext/docrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrNotFound               = domain.ErrNotFound
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrExpansionUnavailable   = domain.ErrExpansionUnavailable
	ErrRateLimited            = domain.ErrRateLimited
)

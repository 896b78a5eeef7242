package domain

import "errors"

// Domain errors represent failures of the query pipeline.
// Transport adapters map them to status codes.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the chunk store cannot be opened or read.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding provider failed,
	// timed out, or was given empty input.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation or vision model call failed.
	// A malformed response is never reported with this error.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrInvalidImage indicates the attached image could not be decoded.
	ErrInvalidImage = errors.New("invalid image")
)

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidImage) || errors.Is(err, ErrInvalidInput)
}

// IsUpstreamError reports whether err was caused by a dependency of the pipeline.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrGenerationUnavailable)
}

package analysis

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoKeywords is returned when the selection has no enabled keywords.
	ErrNoKeywords = errors.New("selection has no enabled keywords")

	// ErrStoreRequired is returned when no taxonomy store is provided.
	ErrStoreRequired = errors.New("taxonomy store is required")

	// ErrFetcherRequired is returned when no trend fetcher is provided.
	ErrFetcherRequired = errors.New("trend fetcher is required")

	// ErrClosed is returned by Run after Close.
	ErrClosed = errors.New("analyzer is closed")
)

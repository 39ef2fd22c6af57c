package discovery

import "errors"

var (
	// ErrEmptyResult is recorded for a node whose search returned nothing usable.
	// The node keeps its previous auto keywords.
	ErrEmptyResult = errors.New("search returned no keywords")

	// ErrStoreRequired is returned when a category store is not provided.
	ErrStoreRequired = errors.New("category store required")

	// ErrSearcherRequired is returned when a product searcher is not provided.
	ErrSearcherRequired = errors.New("product searcher required")
)

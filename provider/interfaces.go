package provider

import (
	"context"

	"github.com/poiesic/trendscout/core"
)

// ProductSearcher queries the shopping-search feed.
// Implementations must be safe for concurrent use.
type ProductSearcher interface {
	// SearchProducts returns listings for one query, in provider order.
	// Titles may still contain markup.
	// Errors are classified with the core provider error types.
	SearchProducts(ctx context.Context, req SearchRequest) ([]core.Product, error)
}

// TrendFetcher queries relative search volume.
// Implementations must be safe for concurrent use.
type TrendFetcher interface {
	// FetchTrends issues a single call for at most MaxKeywordGroups groups.
	// Results are returned in request order; callers map them back by position.
	FetchTrends(ctx context.Context, req TrendRequest) (*TrendResponse, error)
}

// Provider aggregates the search and trend services for lifecycle management.
type Provider interface {
	// ProductSearcher returns the shopping-search service.
	ProductSearcher() ProductSearcher

	// TrendFetcher returns the search-volume service.
	TrendFetcher() TrendFetcher

	// Close releases resources held by the provider and its services.
	Close() error
}

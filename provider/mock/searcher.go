package mock

import (
	"context"
	"sync"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
)

// MockProductSearcher is a test double for provider.ProductSearcher.
// It allows custom behavior injection via function fields.
type MockProductSearcher struct {
	// SearchProductsFunc is called by SearchProducts if set.
	// If nil, Products is consulted by query.
	SearchProductsFunc func(ctx context.Context, req provider.SearchRequest) ([]core.Product, error)

	// Products holds canned listings keyed by query.
	Products map[string][]core.Product

	mu       sync.Mutex
	requests []provider.SearchRequest
}

var _ provider.ProductSearcher = (*MockProductSearcher)(nil)

// NewMockProductSearcher creates a searcher that returns no listings.
// Note: Returns concrete type to allow test assertions.
func NewMockProductSearcher() *MockProductSearcher {
	return &MockProductSearcher{Products: make(map[string][]core.Product)}
}

// WithProducts registers canned listings for query and returns m.
func (m *MockProductSearcher) WithProducts(query string, products ...core.Product) *MockProductSearcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Products == nil {
		m.Products = make(map[string][]core.Product)
	}
	m.Products[query] = products
	return m
}

// SearchProducts records the request and answers from the hook or the canned listings.
func (m *MockProductSearcher) SearchProducts(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.SearchProductsFunc
	products := m.Products[req.Query]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, &core.ProviderTransientError{Op: "search", Err: err}
	}
	out := make([]core.Product, len(products))
	copy(out, products)
	return out, nil
}

// CallCount returns the number of times SearchProducts was called.
func (m *MockProductSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Queries returns the queries seen so far, in call order.
func (m *MockProductSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	for i, r := range m.requests {
		out[i] = r.Query
	}
	return out
}

// Reset clears recorded calls and the custom function.
func (m *MockProductSearcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.SearchProductsFunc = nil
}

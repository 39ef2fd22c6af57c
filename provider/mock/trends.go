package mock

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
)

// MockTrendFetcher is a test double for provider.TrendFetcher.
// It allows custom behavior injection via function fields.
type MockTrendFetcher struct {
	// FetchTrendsFunc is called by FetchTrends if set.
	// If nil, uses default deterministic behavior.
	FetchTrendsFunc func(ctx context.Context, req provider.TrendRequest) (*provider.TrendResponse, error)

	mu       sync.Mutex
	requests []provider.TrendRequest
}

var _ provider.TrendFetcher = (*MockTrendFetcher)(nil)

// NewMockTrendFetcher creates a trend fetcher with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTrendFetcher() *MockTrendFetcher {
	return &MockTrendFetcher{}
}

// FetchTrends records the request and answers from the hook. By default every
// group gets a two-point series on the start and end dates whose ratios are
// derived from the group name.
func (m *MockTrendFetcher) FetchTrends(ctx context.Context, req provider.TrendRequest) (*provider.TrendResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.FetchTrendsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, &core.ProviderTransientError{Op: "trend", Err: err}
	}

	resp := &provider.TrendResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		TimeUnit:  req.TimeUnit,
		Results:   make([]provider.TrendResult, len(req.KeywordGroups)),
	}
	for i, g := range req.KeywordGroups {
		first, last := deterministicRatios(g.GroupName)
		resp.Results[i] = provider.TrendResult{
			Title:    g.GroupName,
			Keywords: g.Keywords,
			Data: []provider.TrendDatum{
				{Period: req.StartDate, Ratio: first},
				{Period: req.EndDate, Ratio: last},
			},
		}
	}
	return resp, nil
}

// SeriesResponse builds a response for req where each group takes its series
// from data by group name. Groups missing from data get an empty series.
func SeriesResponse(req provider.TrendRequest, data map[string][]provider.TrendDatum) *provider.TrendResponse {
	resp := &provider.TrendResponse{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		TimeUnit:  req.TimeUnit,
		Results:   make([]provider.TrendResult, len(req.KeywordGroups)),
	}
	for i, g := range req.KeywordGroups {
		points := data[g.GroupName]
		if points == nil {
			points = []provider.TrendDatum{}
		}
		resp.Results[i] = provider.TrendResult{Title: g.GroupName, Keywords: g.Keywords, Data: points}
	}
	return resp
}

// CallCount returns the number of times FetchTrends was called.
func (m *MockTrendFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns copies of the requests seen so far, in call order.
func (m *MockTrendFetcher) Requests() []provider.TrendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.TrendRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears recorded calls and the custom function.
func (m *MockTrendFetcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.FetchTrendsFunc = nil
}

func deterministicRatios(name string) (float64, float64) {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	first := float64(10 + sum%40)
	last := first + float64((sum/40)%50)
	return first, last
}

// Package mock provides test doubles for the provider interfaces.
//
// The mocks let orchestration code run without network access and make call
// counts and request contents observable.
//
// # Usage in Tests
//
//	searcher := mock.NewMockProductSearcher().
//	    WithProducts("스킨케어", core.Product{Title: "수분 크림", Brand: "ABC"})
//
//	fetcher := mock.NewMockTrendFetcher()
//	fetcher.FetchTrendsFunc = func(ctx context.Context, req provider.TrendRequest) (*provider.TrendResponse, error) {
//	    return mock.SeriesResponse(req, series), nil
//	}
//
//	p := mock.NewMockProviderWithServices(searcher, fetcher)
//
// # Default Behavior
//
//   - MockProductSearcher: returns the canned listings for the query, or none
//   - MockTrendFetcher: returns a deterministic two-point series per group
//   - MockProvider: aggregates both; Close only records the call
package mock

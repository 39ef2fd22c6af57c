// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/trendscout/provider"

// MockProvider is a test double for provider.Provider.
// It aggregates mock searcher and trend fetcher instances.
type MockProvider struct {
	searcher *MockProductSearcher
	fetcher  *MockTrendFetcher
	closed   bool
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns provider.Provider interface for consistency with production constructors.
// Use GetMockSearcher()/GetMockTrendFetcher() to access concrete types for test assertions.
func NewMockProvider() provider.Provider {
	return &MockProvider{
		searcher: NewMockProductSearcher(),
		fetcher:  NewMockTrendFetcher(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(searcher *MockProductSearcher, fetcher *MockTrendFetcher) provider.Provider {
	return &MockProvider{
		searcher: searcher,
		fetcher:  fetcher,
	}
}

// ProductSearcher returns the mock searcher.
func (p *MockProvider) ProductSearcher() provider.ProductSearcher {
	return p.searcher
}

// TrendFetcher returns the mock trend fetcher.
func (p *MockProvider) TrendFetcher() provider.TrendFetcher {
	return p.fetcher
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockSearcher returns the underlying mock searcher for test assertions.
func (p *MockProvider) GetMockSearcher() *MockProductSearcher {
	return p.searcher
}

// GetMockTrendFetcher returns the underlying mock trend fetcher for test assertions.
func (p *MockProvider) GetMockTrendFetcher() *MockTrendFetcher {
	return p.fetcher
}

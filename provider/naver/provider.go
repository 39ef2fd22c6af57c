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


package naver

import (
	"github.com/poiesic/trendscout/provider"
)

// Provider implements provider.Provider for the Naver open API.
// The searcher and the trend fetcher share one client, so at most one call is
// in flight across both.
type Provider struct {
	client   *client
	searcher *Searcher
	fetcher  *TrendFetcher
}

var _ provider.Provider = (*Provider)(nil)

// NewProvider creates a provider with a shared client.
// The config is validated and normalized before use.
//
// Returns provider.Provider interface (not *Provider) to keep callers
// independent of the HTTP implementation.
func NewProvider(config *provider.Config, opts ...Option) (provider.Provider, error) {
	c, err := newClient(config, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{
		client:   c,
		searcher: newSearcher(c),
		fetcher:  newTrendFetcher(c),
	}, nil
}

// ProductSearcher returns the shopping search service.
func (p *Provider) ProductSearcher() provider.ProductSearcher {
	return p.searcher
}

// TrendFetcher returns the search trend service.
func (p *Provider) TrendFetcher() provider.TrendFetcher {
	return p.fetcher
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.client.logger.Debug("closing naver provider")
	p.client.http.CloseIdleConnections()
	return nil
}

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


// Package provider defines the ports to the external shopping-search and
// search-volume services.
//
// # Interfaces
//
//   - ProductSearcher: one shopping-search query, up to MaxDisplay listings
//   - TrendFetcher: one search-volume call, up to MaxKeywordGroups groups
//   - Provider: aggregates both for lifecycle management
//
// # Implementations
//
//   - provider/naver: HTTP client for the Naver open API
//   - provider/mock: scripted doubles for tests
//
// # Errors
//
// Implementations classify every failure with the typed errors in core:
// ProviderAuthError, ProviderRateLimitError, ProviderTransientError,
// DataShapeError and ValidationError. Orchestration code decides per class
// whether a failure is isolated to one unit of work or aborts the run.
//
// # Configuration
//
//	cfg := provider.ConfigFromEnv(provider.WithRateLimit("10-S"))
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	p, err := naver.NewProvider(cfg)
package provider

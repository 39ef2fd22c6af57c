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


package trendscout

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/trendscout/analysis"
	"github.com/poiesic/trendscout/discovery"
	"github.com/poiesic/trendscout/metrics"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/provider/naver"
	"github.com/poiesic/trendscout/storage"
	"github.com/poiesic/trendscout/storage/badger"
	"github.com/poiesic/trendscout/taxonomy"
	"github.com/poiesic/trendscout/trend"
)

// ErrNoProvider is returned when an engine needs a provider and none is configured.
var ErrNoProvider = errors.New("no provider configured")

// DefaultCacheTTL is how long fetched trend series are served from cache.
const DefaultCacheTTL = 6 * time.Hour

// Workspace ties a taxonomy document, the snapshot history and a provider
// together and builds the engines that work on them.
type Workspace struct {
	taxonomy *taxonomy.FileRepository
	store    *taxonomy.Store
	backend  *badger.Backend
	history  storage.SnapshotRepository
	cache    storage.TrendCache
	cacheTTL time.Duration
	searcher provider.ProductSearcher
	fetcher  provider.TrendFetcher
	provider provider.Provider
	metrics  *metrics.Recorder
	logger   *slog.Logger

	mu        sync.Mutex
	analyzers []*analysis.Analyzer
}

// Option configures a Workspace.
type Option func(*options)

type options struct {
	historyPath    string
	fileOpts       []taxonomy.FileOption
	searcher       provider.ProductSearcher
	fetcher        provider.TrendFetcher
	providerConfig *provider.Config
	cacheTTL       time.Duration
	metrics        *metrics.Recorder
	logger         *slog.Logger
}

// WithHistoryPath stores snapshot history and the trend cache under dir.
// Empty keeps them in memory for the life of the workspace.
func WithHistoryPath(dir string) Option {
	return func(o *options) {
		o.historyPath = dir
	}
}

// WithSeed sets the taxonomy used to bootstrap or complete the document.
func WithSeed(seed taxonomy.Seed) Option {
	return func(o *options) {
		o.fileOpts = append(o.fileOpts, taxonomy.WithSeed(seed))
	}
}

// WithBackups toggles copying the previous document aside on Save.
func WithBackups(enabled bool) Option {
	return func(o *options) {
		o.fileOpts = append(o.fileOpts, taxonomy.WithBackups(enabled))
	}
}

// WithBackupRetention keeps only the n newest document backups.
func WithBackupRetention(n int) Option {
	return func(o *options) {
		o.fileOpts = append(o.fileOpts, taxonomy.WithBackupRetention(n))
	}
}

// WithProvider uses the given services. Either may be nil.
func WithProvider(searcher provider.ProductSearcher, fetcher provider.TrendFetcher) Option {
	return func(o *options) {
		o.searcher = searcher
		o.fetcher = fetcher
	}
}

// WithProviderConfig connects to the Naver open API with cfg.
// Ignored when WithProvider supplies services.
func WithProviderConfig(cfg *provider.Config) Option {
	return func(o *options) {
		o.providerConfig = cfg
	}
}

// WithCacheTTL sets how long trend series are cached. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.cacheTTL = ttl
	}
}

// WithMetrics records provider, discovery and trend outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithLogger sets a custom logger for the workspace and everything it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open loads the taxonomy at taxonomyPath, bootstrapping it from the seed when
// the file does not exist, and opens the snapshot history.
func Open(taxonomyPath string, opts ...Option) (*Workspace, error) {
	o := &options{
		cacheTTL: DefaultCacheTTL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With("component", "workspace")

	repo, err := taxonomy.NewFileRepository(taxonomyPath,
		append(o.fileOpts, taxonomy.WithFileLogger(o.logger.With("component", "taxonomy")))...)
	if err != nil {
		return nil, err
	}
	store, err := repo.Load()
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(o.historyPath, o.historyPath == "")
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		taxonomy: repo,
		store:    store,
		backend:  backend,
		history:  badger.NewSnapshotRepository(backend),
		cache:    badger.NewTrendCache(backend),
		cacheTTL: o.cacheTTL,
		searcher: o.searcher,
		fetcher:  o.fetcher,
		metrics:  o.metrics,
		logger:   logger,
	}

	if o.searcher == nil && o.fetcher == nil && o.providerConfig != nil {
		p, err := naver.NewProvider(o.providerConfig,
			naver.WithMetrics(o.metrics),
			naver.WithLogger(o.logger.With("component", "naver-client")))
		if err != nil {
			backend.Close()
			return nil, err
		}
		w.provider = p
		w.searcher = p.ProductSearcher()
		w.fetcher = p.TrendFetcher()
	}

	logger.Info("workspace opened",
		"taxonomy", repo.Path(),
		"history", o.historyPath,
		"majors", len(store.Majors()),
		"provider", w.searcher != nil || w.fetcher != nil)
	return w, nil
}

// Store returns the in-memory taxonomy.
func (w *Workspace) Store() *taxonomy.Store {
	return w.store
}

// Save writes the taxonomy document.
func (w *Workspace) Save() error {
	return w.taxonomy.Save(w.store)
}

// History returns the snapshot history.
func (w *Workspace) History() storage.SnapshotRepository {
	return w.history
}

// Metrics returns the recorder passed to Open, or nil.
func (w *Workspace) Metrics() *metrics.Recorder {
	return w.metrics
}

// NewDiscoveryEngine builds a discovery engine over the workspace taxonomy.
func (w *Workspace) NewDiscoveryEngine(opts ...discovery.Option) (*discovery.Engine, error) {
	if w.searcher == nil {
		return nil, ErrNoProvider
	}
	base := []discovery.Option{
		discovery.WithLogger(w.logger.With("component", "discovery")),
		discovery.WithMetrics(w.metrics),
	}
	return discovery.NewEngine(w.store, w.searcher, append(base, opts...)...)
}

// NewBatchClient builds a trend batch client backed by the workspace cache.
func (w *Workspace) NewBatchClient(opts ...trend.Option) (*trend.BatchClient, error) {
	if w.fetcher == nil {
		return nil, ErrNoProvider
	}
	return trend.NewBatchClient(w.fetcher, append(w.batchOptions(), opts...)...), nil
}

func (w *Workspace) batchOptions() []trend.Option {
	opts := []trend.Option{
		trend.WithLogger(w.logger.With("component", "trend-batch")),
		trend.WithMetrics(w.metrics),
	}
	if w.cacheTTL > 0 {
		opts = append(opts, trend.WithCache(w.cache, w.cacheTTL))
	}
	return opts
}

// NewAnalyzer builds an analyzer that records its rankings in the workspace
// history. The workspace closes it on Close.
func (w *Workspace) NewAnalyzer(cfg *analysis.Config, opts ...analysis.Option) (*analysis.Analyzer, error) {
	if w.fetcher == nil {
		return nil, ErrNoProvider
	}
	base := []analysis.Option{
		analysis.WithLogger(w.logger.With("component", "analysis")),
		analysis.WithHistory(w.history),
		analysis.WithBatchOptions(w.batchOptions()...),
	}
	a, err := analysis.NewAnalyzer(w.store, w.fetcher, cfg, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.analyzers = append(w.analyzers, a)
	w.mu.Unlock()
	return a, nil
}

// Close drains pending snapshot writes, then releases the provider and the
// history. The taxonomy is not saved; call Save first.
func (w *Workspace) Close() error {
	w.mu.Lock()
	analyzers := w.analyzers
	w.analyzers = nil
	w.mu.Unlock()

	for _, a := range analyzers {
		if err := a.Close(); err != nil {
			w.logger.Error("error closing analyzer", "err", err)
		}
	}

	if w.provider != nil {
		if err := w.provider.Close(); err != nil {
			w.logger.Error("error closing provider", "err", err)
		}
	}

	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing history storage", "err", err)
		return err
	}
	return nil
}

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/extract"
	"github.com/poiesic/trendscout/metrics"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/taxonomy"
)

// Engine refreshes the auto keywords of taxonomy nodes from shopping search.
// Nodes are visited one at a time; an Engine must not run concurrently with
// another writer of the same store.
type Engine struct {
	store         *taxonomy.Store
	searcher      provider.ProductSearcher
	extractorOpts []extract.Option
	extractor     *extract.Extractor
	monitor       Monitor
	metrics       *metrics.Recorder
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithMinFrequency sets how often a title word must repeat within one node's
// listings to become a keyword.
func WithMinFrequency(n int) Option {
	return func(e *Engine) {
		e.extractorOpts = append(e.extractorOpts, extract.WithMinFrequency(n))
	}
}

// WithMaxKeywords caps the keywords kept per node. Zero means no cap.
func WithMaxKeywords(n int) Option {
	return func(e *Engine) {
		e.extractorOpts = append(e.extractorOpts, extract.WithMaxKeywords(n))
	}
}

// WithMonitor observes the run.
func WithMonitor(m Monitor) Option {
	return func(e *Engine) {
		if m != nil {
			e.monitor = m
		}
	}
}

// WithMetrics records node outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// NewEngine creates a discovery engine writing into store.
func NewEngine(store *taxonomy.Store, searcher provider.ProductSearcher, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	e := &Engine{
		store:    store,
		searcher: searcher,
		monitor:  &noopMonitor{},
		logger:   slog.Default().With("component", "discovery"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.extractor = extract.New(e.extractorOpts...)
	return e, nil
}

// Discover visits every major node in sorted order, each followed by its
// sorted subcategories.
func (e *Engine) Discover(ctx context.Context) (*Report, error) {
	var paths []NodePath
	for _, major := range e.store.Majors() {
		paths = append(paths, NodePath{Major: major})
		subs, err := e.store.Subcategories(major)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			paths = append(paths, NodePath{Major: major, Sub: sub})
		}
	}
	return e.DiscoverNodes(ctx, paths)
}

// DiscoverNodes visits the given nodes in order.
//
// A node that fails with a transient, data-shape or validation error, or whose
// search yields nothing, keeps its previous auto keywords and is reported as a
// warning; the run continues. Credential rejection, rate limiting and context
// cancellation stop the run: the unvisited nodes are listed in Report.Pending
// and the error is returned together with the partial report.
func (e *Engine) DiscoverNodes(ctx context.Context, paths []NodePath) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: e.now().UTC(),
	}
	logger := e.logger.With("run", report.RunID)
	logger.Info("discovery started", "nodes", len(paths))
	e.monitor.Start(len(paths))

	var stop error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			stop = err
			report.Pending = append(report.Pending, paths[i:]...)
			break
		}

		e.monitor.StartNode(path)
		result := e.visit(ctx, path)
		report.Nodes = append(report.Nodes, result)
		e.monitor.FinishNode(result)

		if result.Err == nil {
			e.metrics.ObserveNode(metrics.OutcomeOK)
			logger.Debug("node updated", "node", path.String(), "products", result.Products, "keywords", len(result.Keywords))
			continue
		}

		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", path, result.Err))
		if errors.Is(result.Err, ErrEmptyResult) {
			e.metrics.ObserveNode(metrics.OutcomeEmpty)
		} else {
			e.metrics.ObserveNode(metrics.Outcome(result.Err))
		}

		if core.IsAuth(result.Err) || core.IsRateLimit(result.Err) || ctx.Err() != nil {
			stop = result.Err
			if ctx.Err() != nil {
				stop = ctx.Err()
			}
			report.Pending = append(report.Pending, paths[i+1:]...)
			logger.Error("discovery stopped", "node", path.String(), "pending", len(report.Pending), "err", result.Err)
			break
		}
		logger.Warn("node skipped", "node", path.String(), "err", result.Err)
	}

	report.FinishedAt = e.now().UTC()
	e.monitor.Finish(report)
	logger.Info("discovery finished",
		"updated", len(report.Updated()),
		"failed", len(report.Failed()),
		"pending", len(report.Pending),
		"elapsed", report.FinishedAt.Sub(report.StartedAt))
	return report, stop
}

func (e *Engine) visit(ctx context.Context, path NodePath) (result NodeResult) {
	start := e.now()
	result.Path = path
	defer func() {
		result.Elapsed = e.now().Sub(start)
	}()

	query := path.Major
	if path.Sub != "" {
		query = path.Sub
	}

	products, err := e.searcher.SearchProducts(ctx, provider.SearchRequest{
		Query:   query,
		Display: provider.MaxDisplay,
		Sort:    provider.SortSimilarity,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Products = len(products)

	keywords := e.extractor.Extract(products)
	if len(keywords) == 0 {
		result.Err = ErrEmptyResult
		return result
	}

	if err := e.store.UpdateAutoKeywords(path.Major, path.Sub, keywords); err != nil {
		result.Err = err
		return result
	}
	result.Keywords = keywords
	return result
}

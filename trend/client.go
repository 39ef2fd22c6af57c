package trend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/metrics"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/storage"
)

// ProgressFunc is called after every chunk with the number of chunks handled so far.
type ProgressFunc func(done, total int)

// Option configures a BatchClient.
type Option func(*BatchClient)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *BatchClient) {
		c.logger = logger
	}
}

// WithMetrics records chunk outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *BatchClient) {
		c.metrics = r
	}
}

// WithCache serves keywords from cache when present and stores fresh series for ttl.
func WithCache(cache storage.TrendCache, ttl time.Duration) Option {
	return func(c *BatchClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithProgress registers a per-chunk progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *BatchClient) {
		c.progress = fn
	}
}

// BatchClient fetches trend series for arbitrarily many keywords by splitting
// them into provider-sized chunks. Chunks are sent one at a time, in order.
// It never retries; callers decide what to do with failed chunks.
type BatchClient struct {
	fetcher  provider.TrendFetcher
	cache    storage.TrendCache
	cacheTTL time.Duration
	metrics  *metrics.Recorder
	progress ProgressFunc
	logger   *slog.Logger
}

// NewBatchClient creates a batch client over fetcher.
func NewBatchClient(fetcher provider.TrendFetcher, opts ...Option) *BatchClient {
	c := &BatchClient{
		fetcher: fetcher,
		logger:  slog.Default().With("component", "trend-batch"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch validates q, then fetches every keyword chunk by chunk.
// A query without keywords yields an empty Result and makes no calls.
//
// A transient, data-shape or validation failure fails its chunk only. An
// authentication failure stops the run and is returned with the partial
// result. A rate limit stops the run too: later chunks are marked ErrSkipped
// and the *core.ProviderRateLimitError naming the offending chunk is returned
// with the partial result.
func (c *BatchClient) Fetch(ctx context.Context, q core.TrendQuery) (*Result, error) {
	if len(q.Keywords) == 0 {
		if err := core.ValidateTrendWindow(q); err != nil {
			return nil, err
		}
		return newResult(q), nil
	}
	if err := core.ValidateTrendQuery(q); err != nil {
		return nil, err
	}
	q.Keywords = Dedupe(q.Keywords)

	result := newResult(q)
	pending := c.fromCache(ctx, q, result)
	chunks := Chunk(pending, provider.MaxKeywordGroups)

	c.logger.Debug("fetching trends",
		"keywords", len(q.Keywords),
		"cached", len(result.Cached),
		"chunks", len(chunks),
		"start", q.Start.Format(core.DateLayout),
		"end", q.End.Format(core.DateLayout))

	var stop error
	for i, chunk := range chunks {
		outcome := BatchOutcome{Index: i, Keywords: chunk}

		if stop != nil {
			outcome.Err = ErrSkipped
			result.Batches = append(result.Batches, outcome)
			c.metrics.ObserveBatch(metrics.OutcomeSkipped)
			continue
		}

		outcome.Err = c.fetchChunk(ctx, q, chunk, result)
		result.Batches = append(result.Batches, outcome)
		c.metrics.ObserveBatch(metrics.Outcome(outcome.Err))
		if c.progress != nil {
			c.progress(i+1, len(chunks))
		}

		switch {
		case outcome.Err == nil:
		case core.IsAuth(outcome.Err):
			c.logger.Error("trend fetch aborted: credentials rejected", "chunk", i, "err", outcome.Err)
			stop = outcome.Err
		case core.IsRateLimit(outcome.Err):
			c.logger.Warn("trend fetch stopped: rate limit reached", "chunk", i, "keywords", chunk, "err", outcome.Err)
			stop = outcome.Err
		case ctx.Err() != nil:
			stop = ctx.Err()
		default:
			c.logger.Warn("trend chunk failed", "chunk", i, "keywords", chunk, "err", outcome.Err)
		}
	}

	return result, stop
}

// fromCache fills result with cached series and returns the keywords still to fetch.
func (c *BatchClient) fromCache(ctx context.Context, q core.TrendQuery, result *Result) []string {
	if c.cache == nil {
		return q.Keywords
	}
	pending := make([]string, 0, len(q.Keywords))
	for _, k := range q.Keywords {
		points, ok, err := c.cache.GetSeries(ctx, q.Fingerprint(k))
		if err != nil {
			c.logger.Warn("trend cache read failed", "keyword", k, "err", err)
		}
		if err != nil || !ok {
			pending = append(pending, k)
			continue
		}
		result.Cached = append(result.Cached, k)
		c.store(result, k, points)
	}
	return pending
}

func (c *BatchClient) fetchChunk(ctx context.Context, q core.TrendQuery, chunk []string, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := c.fetcher.FetchTrends(ctx, provider.NewTrendRequest(q, chunk))
	if err != nil {
		return err
	}

	series, err := c.mapResults(chunk, resp)
	if err != nil {
		return err
	}

	for i, k := range chunk {
		c.store(result, k, series[i])
		if c.cache != nil {
			if err := c.cache.PutSeries(ctx, q.Fingerprint(k), series[i], c.cacheTTL); err != nil {
				c.logger.Warn("trend cache write failed", "keyword", k, "err", err)
			}
		}
	}
	return nil
}

// mapResults pairs results with chunk keywords by position.
func (c *BatchClient) mapResults(chunk []string, resp *provider.TrendResponse) ([][]core.TrendPoint, error) {
	if resp == nil {
		return nil, &core.DataShapeError{Op: "trend", Keywords: chunk, Message: "empty response"}
	}
	if len(resp.Results) != len(chunk) {
		return nil, &core.DataShapeError{
			Op:       "trend",
			Keywords: chunk,
			Message:  fmt.Sprintf("expected %d results, got %d", len(chunk), len(resp.Results)),
		}
	}

	series := make([][]core.TrendPoint, len(chunk))
	for i, res := range resp.Results {
		if res.Title != chunk[i] {
			c.logger.Warn("trend result title does not match its keyword", "position", i, "keyword", chunk[i], "title", res.Title)
		}
		points := make([]core.TrendPoint, 0, len(res.Data))
		for _, d := range res.Data {
			period, err := time.Parse(core.DateLayout, d.Period)
			if err != nil {
				return nil, &core.DataShapeError{
					Op:       "trend",
					Keywords: chunk,
					Message:  fmt.Sprintf("bad period %q for %q", d.Period, chunk[i]),
				}
			}
			points = append(points, core.TrendPoint{Period: period, Ratio: d.Ratio})
		}
		series[i] = points
	}
	return series, nil
}

func (c *BatchClient) store(result *Result, keyword string, points []core.TrendPoint) {
	if len(points) == 0 {
		result.NoData = append(result.NoData, keyword)
		return
	}
	result.Series[keyword] = points
}

// IsSkipped reports whether err marks a chunk that was never sent.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrSkipped)
}

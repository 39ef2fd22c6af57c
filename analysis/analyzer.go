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


package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/rising"
	"github.com/poiesic/trendscout/storage"
	"github.com/poiesic/trendscout/taxonomy"
	"github.com/poiesic/trendscout/trend"
)

// Request selects what to analyze. Sub may be empty to analyze a whole major
// category. TimeUnit defaults to daily data and TopK to Config.TopK.
type Request struct {
	Major    string        `json:"major"`
	Sub      string        `json:"sub,omitempty"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	TimeUnit core.TimeUnit `json:"time_unit"`
	Device   core.Device   `json:"device,omitempty"`
	Gender   core.Gender   `json:"gender,omitempty"`
	Ages     []string      `json:"ages,omitempty"`
	TopK     int           `json:"top_k"`
}

// Selection returns the selection key of the request.
func (r Request) Selection() string {
	return core.SelectionKey(r.Major, r.Sub)
}

// Analysis is the outcome of one run.
type Analysis struct {
	RunID      string
	Request    Request
	Candidates []core.RisingCandidate
	Movements  []Movement

	// Dropped lists keywords of the previous snapshot that fell out of the ranking.
	Dropped []string

	// Previous is the snapshot the movements were computed against, if any.
	Previous *core.Snapshot

	// Result holds the raw series and per-chunk outcomes.
	Result *trend.Result

	// Snapshot is the ranking queued for the history. Nil when the run
	// stopped early or no history is configured.
	Snapshot *core.Snapshot
}

// Analyzer runs analyses against one taxonomy store.
type Analyzer struct {
	store     *taxonomy.Store
	fetcher   provider.TrendFetcher
	history   storage.SnapshotRepository
	config    *Config
	batchOpts []trend.Option
	progress  io.Writer
	pool      *ants.Pool
	pending   sync.WaitGroup
	closed    atomic.Bool
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// WithHistory enables movement tracking and snapshot persistence.
func WithHistory(history storage.SnapshotRepository) Option {
	return func(a *Analyzer) {
		a.history = history
	}
}

// WithBatchOptions passes options to every trend.BatchClient the analyzer builds.
func WithBatchOptions(opts ...trend.Option) Option {
	return func(a *Analyzer) {
		a.batchOpts = append(a.batchOpts, opts...)
	}
}

// WithProgressWriter reports chunk progress on w.
func WithProgressWriter(w io.Writer) Option {
	return func(a *Analyzer) {
		a.progress = w
	}
}

// NewAnalyzer creates an analyzer. A nil config means DefaultConfig.
func NewAnalyzer(store *taxonomy.Store, fetcher provider.TrendFetcher, config *Config, opts ...Option) (*Analyzer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	cfg.normalize()

	// One worker keeps snapshot writes in submission order.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		store:   store,
		fetcher: fetcher,
		config:  &cfg,
		pool:    pool,
		logger:  slog.Default().With("component", "analysis"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run analyzes the enabled keywords of the requested selection.
//
// When the batch client stops early (credentials rejected, rate limit, or
// cancellation) Run still ranks what was fetched and returns it together with
// the error; such partial rankings are not written to the history.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Analysis, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	keywords, err := a.store.EnabledKeywords(req.Major, req.Sub)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	if req.TimeUnit == "" {
		req.TimeUnit = core.TimeUnitDate
	}
	topK := req.TopK
	if topK <= 0 {
		topK = a.config.TopK
	}

	q := core.TrendQuery{
		Keywords: keywords,
		Start:    req.Start,
		End:      req.End,
		TimeUnit: req.TimeUnit,
		Device:   req.Device,
		Gender:   req.Gender,
		Ages:     req.Ages,
	}

	runID := uuid.NewString()
	logger := a.logger.With("run", runID, "selection", req.Selection())
	logger.Info("analysis started", "keywords", len(keywords))

	opts := a.batchOpts
	var tracker *Progress
	if a.progress != nil {
		tracker = NewProgress(a.progress, 0, a.config.ProgressInterval)
		tracker.Start()
		opts = append(opts[:len(opts):len(opts)], trend.WithProgress(tracker.Observe))
	}

	result, stop := trend.NewBatchClient(a.fetcher, opts...).Fetch(ctx, q)
	if result == nil {
		return nil, stop
	}
	if stop == nil {
		stop = a.retryTransient(ctx, q, result, logger)
	}
	if tracker != nil {
		tracker.Finish()
	}

	analysis := &Analysis{
		RunID:      runID,
		Request:    req,
		Candidates: rising.Rank(result.Series, topK),
		Result:     result,
	}

	previous, err := a.previous(ctx, req.Selection())
	if err != nil {
		logger.Warn("error reading previous snapshot", "err", err)
	}
	analysis.Previous = previous
	analysis.Movements = Movements(analysis.Candidates, previous)
	analysis.Dropped = Dropped(analysis.Candidates, previous)

	if stop != nil {
		logger.Warn("analysis incomplete", "ranked", len(analysis.Candidates), "err", stop)
		return analysis, stop
	}

	if a.history != nil {
		createdAt := a.now().UTC()
		analysis.Snapshot = &core.Snapshot{
			Id:         core.IDFromContent(req.Selection() + "|" + runID + "|" + strconv.FormatInt(createdAt.UnixNano(), 10)),
			RunID:      runID,
			Selection:  req.Selection(),
			Start:      req.Start,
			End:        req.End,
			TimeUnit:   req.TimeUnit,
			CreatedAt:  createdAt,
			Candidates: analysis.Candidates,
		}
		a.persist(analysis.Snapshot, logger)
	}

	logger.Info("analysis finished",
		"ranked", len(analysis.Candidates),
		"failed_chunks", len(result.Failed()),
		"no_data", len(result.NoData))
	return analysis, nil
}

// retryTransient re-fetches the keywords of transiently failed chunks until
// they succeed or Config.MaxAttempts is used up. Chunks still failing
// afterwards stay failed in result; only a stop condition is returned.
func (a *Analyzer) retryTransient(ctx context.Context, q core.TrendQuery, result *trend.Result, logger *slog.Logger) error {
	if a.config.MaxAttempts <= 1 {
		return nil
	}
	keywords := transientKeywords(result)
	if len(keywords) == 0 {
		return nil
	}

	client := trend.NewBatchClient(a.fetcher, a.batchOpts...)
	pending, err := RetryPending(ctx, keywords, func(ctx context.Context, keywords []string) ([]string, error) {
		logger.Debug("retrying failed chunks", "keywords", len(keywords))
		q.Keywords = keywords
		retried, err := client.Fetch(ctx, q)
		if retried == nil {
			return keywords, err
		}
		result.Merge(retried)
		return transientKeywords(retried), err
	}, a.config.MaxAttempts-1, a.config.RetryDelay)

	if err == nil && len(pending) > 0 {
		logger.Warn("chunks still failing after retries", "keywords", pending, "attempts", a.config.MaxAttempts)
	}
	return err
}

func transientKeywords(result *trend.Result) []string {
	var out []string
	for _, b := range result.Batches {
		if core.IsTransient(b.Err) {
			out = append(out, b.Keywords...)
		}
	}
	return out
}

// previous returns the newest stored snapshot of selection, or nil.
// Pending writes are flushed first so back-to-back runs see each other.
func (a *Analyzer) previous(ctx context.Context, selection string) (*core.Snapshot, error) {
	if a.history == nil {
		return nil, nil
	}
	a.pending.Wait()
	snap, err := a.history.LatestSnapshot(ctx, selection)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return snap, err
}

func (a *Analyzer) persist(snap *core.Snapshot, logger *slog.Logger) {
	a.pending.Add(1)
	err := a.pool.Submit(func() {
		defer a.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.config.SaveTimeout)
		defer cancel()
		if err := a.history.SaveSnapshot(ctx, snap); err != nil {
			logger.Error("error saving snapshot", "err", err)
			return
		}
		logger.Debug("snapshot saved", "id", snap.Id)
	})
	if err != nil {
		a.pending.Done()
		logger.Error("error scheduling snapshot", "err", err)
	}
}

// Flush waits for queued snapshot writes.
func (a *Analyzer) Flush() {
	a.pending.Wait()
}

// Close waits for queued snapshot writes and releases the worker pool.
// The analyzer should not be used after calling Close.
func (a *Analyzer) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.pending.Wait()
	a.pool.Release()
	return nil
}

package trend

import (
	"github.com/poiesic/trendscout/core"
)

// BatchOutcome records what happened to one chunk.
type BatchOutcome struct {
	Index    int
	Keywords []string
	Err      error
}

// OK reports whether the chunk succeeded.
func (b BatchOutcome) OK() bool {
	return b.Err == nil
}

// Result is the outcome of one Fetch.
type Result struct {
	// Query is the validated query with normalized, deduplicated keywords.
	Query core.TrendQuery

	// Series maps keyword to its points, in provider period order.
	// Keywords without data or in failed chunks are absent.
	Series map[string][]core.TrendPoint

	// Batches lists every chunk in send order.
	Batches []BatchOutcome

	// NoData lists keywords whose series came back empty.
	NoData []string

	// Cached lists keywords served from the trend cache.
	Cached []string
}

func newResult(q core.TrendQuery) *Result {
	return &Result{
		Query:  q,
		Series: make(map[string][]core.TrendPoint),
	}
}

// Failed returns the chunks that did not succeed, skipped ones included.
func (r *Result) Failed() []BatchOutcome {
	var failed []BatchOutcome
	for _, b := range r.Batches {
		if b.Err != nil {
			failed = append(failed, b)
		}
	}
	return failed
}

// FailedKeywords returns the keywords of every failed chunk, in chunk order.
func (r *Result) FailedKeywords() []string {
	var out []string
	for _, b := range r.Failed() {
		out = append(out, b.Keywords...)
	}
	return out
}

// Merge folds a re-fetch of failed keywords into r. Failed chunks always hold
// full groups except possibly the last, so re-chunking their keywords yields
// the same groups and outcomes are matched by first keyword.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for k, points := range other.Series {
		r.Series[k] = points
	}
	r.NoData = append(r.NoData, other.NoData...)
	r.Cached = append(r.Cached, other.Cached...)

	byFirst := make(map[string]BatchOutcome, len(other.Batches))
	for _, b := range other.Batches {
		if len(b.Keywords) > 0 {
			byFirst[b.Keywords[0]] = b
		}
	}
	for i, b := range r.Batches {
		if b.Err == nil || len(b.Keywords) == 0 {
			continue
		}
		if nb, ok := byFirst[b.Keywords[0]]; ok {
			r.Batches[i].Err = nb.Err
		}
	}
}

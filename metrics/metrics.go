// Package metrics counts provider calls and per-unit outcomes of discovery
// and trend runs.
//
// A nil *Recorder is valid and records nothing, so components can take an
// optional recorder without branching.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeAuth       = "auth"
	OutcomeRateLimit  = "rate_limit"
	OutcomeTransient  = "transient"
	OutcomeDataShape  = "data_shape"
	OutcomeValidation = "validation"
	OutcomeEmpty      = "empty"
	OutcomeSkipped    = "skipped"
	OutcomeError      = "error"
)

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, core.ErrProviderAuth):
		return OutcomeAuth
	case errors.Is(err, core.ErrProviderRateLimit):
		return OutcomeRateLimit
	case errors.Is(err, core.ErrProviderTransient):
		return OutcomeTransient
	case errors.Is(err, core.ErrDataShape):
		return OutcomeDataShape
	case errors.Is(err, core.ErrValidation):
		return OutcomeValidation
	}
	return OutcomeError
}

// Recorder owns a registry with the trendscout collectors.
type Recorder struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
	nodes          *prometheus.CounterVec
	batches        *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendscout_provider_requests_total",
			Help: "External provider calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trendscout_provider_request_duration_seconds",
			Help:    "External provider call latency by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendscout_discovery_nodes_total",
			Help: "Discovery taxonomy nodes by outcome",
		}, []string{"outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendscout_trend_batches_total",
			Help: "Trend keyword batches by outcome",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{r.requests, r.requestSeconds, r.nodes, r.batches} {
		if err := r.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return r, nil
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRequest records one provider call.
func (r *Recorder) ObserveRequest(endpoint string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(endpoint, Outcome(err)).Inc()
	r.requestSeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveNode records the outcome of one discovery node.
func (r *Recorder) ObserveNode(outcome string) {
	if r == nil {
		return
	}
	r.nodes.WithLabelValues(outcome).Inc()
}

// ObserveBatch records the outcome of one trend batch.
func (r *Recorder) ObserveBatch(outcome string) {
	if r == nil {
		return
	}
	r.batches.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes every metric in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

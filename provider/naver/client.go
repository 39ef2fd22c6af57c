package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/metrics"
	"github.com/poiesic/trendscout/provider"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/sync/semaphore"
)

const (
	headerClientID     = "X-Naver-Client-Id"
	headerClientSecret = "X-Naver-Client-Secret"

	maxResponseBytes = 8 << 20
	limiterKey       = "naver-openapi"
	minPacingWait    = 100 * time.Millisecond
)

// Option configures the HTTP client shared by the searcher and the trend fetcher.
type Option func(*client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// WithMetrics records every call on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *client) {
		c.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *client) {
		c.logger = logger
	}
}

// client performs authenticated calls with at most one call in flight.
type client struct {
	http    *http.Client
	baseURL string
	creds   core.Credentials
	timeout time.Duration
	sem     *semaphore.Weighted
	pacer   *limiter.Limiter
	metrics *metrics.Recorder
	logger  *slog.Logger
}

func newClient(config *provider.Config, opts ...Option) (*client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &client{
		http:    &http.Client{},
		baseURL: config.BaseURL,
		creds:   config.Credentials(),
		timeout: config.Timeout,
		sem:     semaphore.NewWeighted(1),
		logger:  slog.Default().With("component", "naver-client"),
	}

	if config.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(config.RateLimit)
		if err != nil {
			return nil, err
		}
		c.pacer = limiter.New(memory.NewStore(), rate)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call is one request. keywords identify the unit of work in returned errors.
type call struct {
	op       string
	endpoint string
	keywords []string
	build    func(ctx context.Context) (*http.Request, error)
}

// do runs a call and returns the body of a 2xx response. Every error is one of
// the core provider error types.
func (c *client) do(ctx context.Context, cl call) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &core.ProviderTransientError{Op: cl.op, Err: err}
	}
	defer c.sem.Release(1)

	if err := c.pace(ctx); err != nil {
		return nil, &core.ProviderTransientError{Op: cl.op, Err: err}
	}

	start := time.Now()
	body, err := c.send(ctx, cl)
	c.metrics.ObserveRequest(cl.endpoint, time.Since(start), err)
	if err != nil {
		c.logger.Debug("provider call failed", "op", cl.op, "keywords", cl.keywords, "err", err)
		return nil, err
	}
	return body, nil
}

func (c *client) send(ctx context.Context, cl call) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := cl.build(callCtx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", cl.op, err)
	}
	req.Header.Set(headerClientID, c.creds.ClientID)
	req.Header.Set(headerClientSecret, c.creds.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.ProviderTransientError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &core.ProviderTransientError{Op: cl.op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(cl, resp.StatusCode, body)
}

// pace blocks until the local rate window admits another call.
func (c *client) pace(ctx context.Context) error {
	if c.pacer == nil {
		return nil
	}
	for {
		lctx, err := c.pacer.Get(ctx, limiterKey)
		if err != nil {
			c.logger.Warn("rate limiter unavailable, calling without pacing", "err", err)
			return nil
		}
		if !lctx.Reached {
			return nil
		}
		wait := max(time.Until(time.Unix(lctx.Reset, 0)), minPacingWait)
		c.logger.Debug("pacing provider call", "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

type errorBody struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

func classify(cl call, status int, body []byte) error {
	msg := http.StatusText(status)
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.ErrorMessage != "" {
		msg = eb.ErrorMessage
		if eb.ErrorCode != "" {
			msg = eb.ErrorCode + " " + msg
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &core.ProviderAuthError{Op: cl.op, StatusCode: status, Message: msg}
	case status == http.StatusTooManyRequests:
		return &core.ProviderRateLimitError{Op: cl.op, Keywords: cl.keywords, Message: msg}
	case status == http.StatusBadRequest:
		return &core.ValidationError{Field: "request", Message: fmt.Sprintf("%s rejected: %s", cl.op, msg)}
	}
	return &core.ProviderTransientError{Op: cl.op, StatusCode: status, Err: errors.New(msg)}
}

func decode(cl call, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &core.DataShapeError{Op: cl.op, Keywords: cl.keywords, Message: err.Error()}
	}
	return nil
}

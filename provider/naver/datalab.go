package naver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
)

const datalabPath = "/v1/datalab/search"

// TrendFetcher implements provider.TrendFetcher over the DataLab search trend API.
type TrendFetcher struct {
	client *client
	logger *slog.Logger
}

var _ provider.TrendFetcher = (*TrendFetcher)(nil)

// NewTrendFetcher creates a standalone trend fetcher.
//
// Returns provider.TrendFetcher interface to enforce abstraction.
func NewTrendFetcher(config *provider.Config, opts ...Option) (provider.TrendFetcher, error) {
	c, err := newClient(config, opts...)
	if err != nil {
		return nil, err
	}
	return newTrendFetcher(c), nil
}

func newTrendFetcher(c *client) *TrendFetcher {
	return &TrendFetcher{
		client: c,
		logger: c.logger.With("api", "datalab"),
	}
}

// FetchTrends issues one DataLab call. The request is validated against the
// provider limits before anything is sent.
func (f *TrendFetcher) FetchTrends(ctx context.Context, req provider.TrendRequest) (*provider.TrendResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	cl := call{
		op:       "trend",
		endpoint: "datalab",
		keywords: req.GroupNames(),
		build: func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, f.client.baseURL+datalabPath, bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			return r, nil
		},
	}

	body, err := f.client.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	var resp provider.TrendResponse
	if err := decode(cl, body, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, &core.DataShapeError{Op: cl.op, Keywords: cl.keywords, Message: "response has no results field"}
	}
	f.logger.Debug("trend call complete", "groups", len(req.KeywordGroups), "results", len(resp.Results))
	return &resp, nil
}

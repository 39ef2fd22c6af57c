package naver

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
)

const shopPath = "/v1/search/shop.json"

// Searcher implements provider.ProductSearcher over the shopping search API.
type Searcher struct {
	client *client
	logger *slog.Logger
}

var _ provider.ProductSearcher = (*Searcher)(nil)

// NewSearcher creates a standalone shopping searcher.
//
// Returns provider.ProductSearcher interface to enforce abstraction.
func NewSearcher(config *provider.Config, opts ...Option) (provider.ProductSearcher, error) {
	c, err := newClient(config, opts...)
	if err != nil {
		return nil, err
	}
	return newSearcher(c), nil
}

func newSearcher(c *client) *Searcher {
	return &Searcher{
		client: c,
		logger: c.logger.With("api", "shop"),
	}
}

type shopResponse struct {
	Total int64       `json:"total"`
	Items *[]shopItem `json:"items"`
}

type shopItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	LPrice    string `json:"lprice"`
	MallName  string `json:"mallName"`
	Brand     string `json:"brand"`
	Category1 string `json:"category1"`
	Category2 string `json:"category2"`
	Category3 string `json:"category3"`
	Category4 string `json:"category4"`
}

// SearchProducts runs one shopping search. Display defaults to
// provider.MaxDisplay and Sort to similarity.
func (s *Searcher) SearchProducts(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
	if req.Display == 0 {
		req.Display = provider.MaxDisplay
	}
	if req.Sort == "" {
		req.Sort = provider.SortSimilarity
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("display", strconv.Itoa(req.Display))
	params.Set("sort", req.Sort)
	if req.Start > 0 {
		params.Set("start", strconv.Itoa(req.Start))
	}
	endpoint := s.client.baseURL + shopPath + "?" + params.Encode()

	cl := call{
		op:       "search",
		endpoint: "shop",
		keywords: []string{req.Query},
		build: func(ctx context.Context) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		},
	}

	body, err := s.client.do(ctx, cl)
	if err != nil {
		return nil, err
	}

	var resp shopResponse
	if err := decode(cl, body, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, &core.DataShapeError{Op: cl.op, Keywords: cl.keywords, Message: "response has no items field"}
	}

	products := make([]core.Product, 0, len(*resp.Items))
	for _, it := range *resp.Items {
		products = append(products, core.Product{
			Title:    it.Title,
			Brand:    it.Brand,
			Category: joinCategories(it.Category1, it.Category2, it.Category3, it.Category4),
			MallName: it.MallName,
			LowPrice: parsePrice(it.LPrice),
			Link:     it.Link,
		})
	}
	s.logger.Debug("search complete", "query", req.Query, "items", len(products), "total", resp.Total)
	return products, nil
}

func joinCategories(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ">")
}

func parsePrice(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

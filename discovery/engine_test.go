package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/trendscout/core"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/provider/mock"
	"github.com/poiesic/trendscout/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *taxonomy.Store {
	return taxonomy.NewStore(taxonomy.Seed{
		{Name: "화장품/미용", Subcategories: []taxonomy.SeedSubcategory{{Name: "스킨케어"}, {Name: "메이크업"}}},
		{Name: "식품"},
	})
}

func skincareListings() []core.Product {
	return []core.Product{
		{Title: "ABC <b>크림</b> 세트", Brand: "ABC"},
		{Title: "크림 대용량"},
	}
}

func listingsFor(words ...string) []core.Product {
	products := make([]core.Product, 0, len(words)*2)
	for _, w := range words {
		products = append(products, core.Product{Title: w}, core.Product{Title: w})
	}
	return products
}

func TestDiscover_VisitsEveryNodeInOrder(t *testing.T) {
	store := testStore()
	searcher := mock.NewMockProductSearcher()
	engine, err := NewEngine(store, searcher)
	require.NoError(t, err)

	report, err := engine.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"식품", "화장품/미용", "메이크업", "스킨케어"}, searcher.Queries())
	require.Len(t, report.Nodes, 4)
	assert.Equal(t, NodePath{Major: "화장품/미용", Sub: "메이크업"}, report.Nodes[2].Path)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestDiscover_SearchRequestShape(t *testing.T) {
	searcher := mock.NewMockProductSearcher()
	var seen []provider.SearchRequest
	searcher.SearchProductsFunc = func(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
		seen = append(seen, req)
		return nil, nil
	}
	engine, err := NewEngine(testStore(), searcher)
	require.NoError(t, err)

	_, err = engine.DiscoverNodes(context.Background(), []NodePath{{Major: "식품"}})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, provider.SearchRequest{Query: "식품", Display: 100, Sort: "sim"}, seen[0])
}

func TestDiscover_ReplacesAutoKeywords(t *testing.T) {
	store := testStore()
	require.NoError(t, store.UpdateAutoKeywords("화장품/미용", "스킨케어", []string{"토너", "크림"}))
	require.NoError(t, store.SetEnabled("화장품/미용", "스킨케어", "크림", false))
	require.NoError(t, store.AddUserKeyword("화장품/미용", "스킨케어", "선크림"))

	searcher := mock.NewMockProductSearcher().WithProducts("스킨케어", skincareListings()...)
	engine, err := NewEngine(store, searcher)
	require.NoError(t, err)

	report, err := engine.DiscoverNodes(context.Background(), []NodePath{{Major: "화장품/미용", Sub: "스킨케어"}})
	require.NoError(t, err)
	require.Len(t, report.Updated(), 1)
	assert.Equal(t, []string{"ABC", "크림"}, report.Updated()[0].Keywords)
	assert.Equal(t, 2, report.Updated()[0].Products)

	sets, err := store.AllKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	// No union with the previous auto set
	assert.Equal(t, []string{"ABC", "크림"}, sets.Auto)
	assert.Equal(t, []string{"선크림"}, sets.User)
	// 크림 stays disabled across the replace
	assert.Equal(t, []string{"ABC", "선크림"}, sets.Enabled)
}

func TestDiscover_EmptyResultKeepsPriorKeywords(t *testing.T) {
	store := testStore()
	require.NoError(t, store.UpdateAutoKeywords("식품", "", []string{"김치"}))

	engine, err := NewEngine(store, mock.NewMockProductSearcher())
	require.NoError(t, err)

	report, err := engine.DiscoverNodes(context.Background(), []NodePath{{Major: "식품"}})
	require.NoError(t, err)

	require.Len(t, report.Failed(), 1)
	assert.ErrorIs(t, report.Failed()[0].Err, ErrEmptyResult)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "식품")

	sets, err := store.AllKeywords("식품", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"김치"}, sets.Auto)
}

func TestDiscover_TransientFailureIsIsolated(t *testing.T) {
	store := testStore()
	require.NoError(t, store.UpdateAutoKeywords("화장품/미용", "메이크업", []string{"립스틱"}))

	searcher := mock.NewMockProductSearcher()
	searcher.SearchProductsFunc = func(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
		if req.Query == "메이크업" {
			return nil, &core.ProviderTransientError{Op: "search", StatusCode: 500, Err: errors.New("boom")}
		}
		return listingsFor(req.Query+"상품", "인기템"), nil
	}
	engine, err := NewEngine(store, searcher)
	require.NoError(t, err)

	report, err := engine.Discover(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Updated(), 3)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "메이크업", report.Failed()[0].Path.Sub)
	assert.True(t, core.IsTransient(report.Failed()[0].Err))
	assert.True(t, report.Complete())

	sets, err := store.AllKeywords("화장품/미용", "메이크업")
	require.NoError(t, err)
	assert.Equal(t, []string{"립스틱"}, sets.Auto)

	sets, err = store.AllKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	assert.Equal(t, []string{"스킨케어상품", "인기템"}, sets.Auto)
}

func TestDiscover_AuthAborts(t *testing.T) {
	searcher := mock.NewMockProductSearcher()
	searcher.SearchProductsFunc = func(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
		if req.Query == "화장품/미용" {
			return nil, &core.ProviderAuthError{Op: "search", StatusCode: 401, Message: "bad key"}
		}
		return listingsFor("과자"), nil
	}
	engine, err := NewEngine(testStore(), searcher)
	require.NoError(t, err)

	report, err := engine.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsAuth(err))
	require.NotNil(t, report)

	assert.Equal(t, 2, searcher.CallCount())
	assert.Len(t, report.Nodes, 2)
	assert.Len(t, report.Updated(), 1)
	assert.Equal(t, []NodePath{
		{Major: "화장품/미용", Sub: "메이크업"},
		{Major: "화장품/미용", Sub: "스킨케어"},
	}, report.Pending)
}

func TestDiscover_RateLimitLeavesPendingToResume(t *testing.T) {
	store := testStore()
	limited := true
	searcher := mock.NewMockProductSearcher()
	searcher.SearchProductsFunc = func(ctx context.Context, req provider.SearchRequest) ([]core.Product, error) {
		if req.Query == "메이크업" && limited {
			return nil, &core.ProviderRateLimitError{Op: "search", Keywords: []string{req.Query}, Message: "quota"}
		}
		return listingsFor(req.Query + "템"), nil
	}
	engine, err := NewEngine(store, searcher)
	require.NoError(t, err)

	report, err := engine.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsRateLimit(err))
	assert.False(t, report.Complete())
	assert.Equal(t, []NodePath{{Major: "화장품/미용", Sub: "스킨케어"}}, report.Pending)

	// Resume from the failed node onwards
	limited = false
	resume := append([]NodePath{report.Failed()[0].Path}, report.Pending...)
	resumed, err := engine.DiscoverNodes(context.Background(), resume)
	require.NoError(t, err)
	assert.Len(t, resumed.Updated(), 2)
	assert.NotEqual(t, report.RunID, resumed.RunID)

	sets, err := store.AllKeywords("화장품/미용", "스킨케어")
	require.NoError(t, err)
	assert.Equal(t, []string{"스킨케어템"}, sets.Auto)
}

func TestDiscover_CancelledContext(t *testing.T) {
	searcher := mock.NewMockProductSearcher()
	engine, err := NewEngine(testStore(), searcher)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := engine.Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, searcher.CallCount())
	assert.Len(t, report.Pending, 4)
}

func TestDiscover_UnknownNode(t *testing.T) {
	searcher := mock.NewMockProductSearcher().WithProducts("없는분류", listingsFor("상품")...)
	engine, err := NewEngine(testStore(), searcher)
	require.NoError(t, err)

	report, err := engine.DiscoverNodes(context.Background(), []NodePath{{Major: "없는분류"}})
	require.NoError(t, err)
	require.Len(t, report.Failed(), 1)
	assert.ErrorIs(t, report.Failed()[0].Err, core.ErrNotFound)
}

func TestDiscover_ExtractorOptions(t *testing.T) {
	store := testStore()
	searcher := mock.NewMockProductSearcher().WithProducts("식품", core.Product{Title: "김치 만두"})
	engine, err := NewEngine(store, searcher, WithMinFrequency(1), WithMaxKeywords(1))
	require.NoError(t, err)

	report, err := engine.DiscoverNodes(context.Background(), []NodePath{{Major: "식품"}})
	require.NoError(t, err)
	require.Len(t, report.Updated(), 1)
	assert.Len(t, report.Updated()[0].Keywords, 1)
}

type recordingMonitor struct {
	total    int
	started  []NodePath
	finished []NodeResult
	report   *Report
}

func (m *recordingMonitor) Start(total int) { m.total = total }

func (m *recordingMonitor) StartNode(path NodePath) { m.started = append(m.started, path) }

func (m *recordingMonitor) FinishNode(result NodeResult) { m.finished = append(m.finished, result) }

func (m *recordingMonitor) Finish(report *Report) { m.report = report }

func TestDiscover_Monitor(t *testing.T) {
	monitor := &recordingMonitor{}
	engine, err := NewEngine(testStore(), mock.NewMockProductSearcher(), WithMonitor(monitor))
	require.NoError(t, err)

	report, err := engine.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, monitor.total)
	assert.Len(t, monitor.started, 4)
	assert.Len(t, monitor.finished, 4)
	assert.Same(t, report, monitor.report)
}

func TestNewEngine_RequiresCollaborators(t *testing.T) {
	_, err := NewEngine(nil, mock.NewMockProductSearcher())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewEngine(testStore(), nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
)

type stubAggregator struct {
	tags      []domain.TagCount
	top       []domain.StoreSummary
	err       error
	onLoad    func()
	tagCalls  int
	topCalls  int
	lastLimit int
}

func (s *stubAggregator) TagHistogram(context.Context) ([]domain.TagCount, error) {
	s.tagCalls++
	if s.onLoad != nil {
		s.onLoad()
	}
	return s.tags, s.err
}

func (s *stubAggregator) TopStores(_ context.Context, _, limit int) ([]domain.StoreSummary, error) {
	s.topCalls++
	s.lastLimit = limit
	if s.onLoad != nil {
		s.onLoad()
	}
	return s.top, s.err
}

func expectGeneration(c *mock.Client, gen string) *gomock.Call {
	return c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "catalog:gen")).
		Return(mock.Result(mock.RedisString(gen)))
}

func TestTagHistogram_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		expectGeneration(c, "3"),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g3:tags")).
			Return(mock.Result(mock.RedisString(`[{"Tag":"coffee","Count":2}]`))),
	)

	next := &stubAggregator{}
	tags, err := NewCatalogCache(c, next, time.Minute, nil).TagHistogram(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.TagCount{{Tag: "coffee", Count: 2}}, tags)
	assert.Zero(t, next.tagCalls)
}

func TestTagHistogram_MissLoadsAndStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:gen")).
			Return(mock.Result(mock.RedisNil())),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g0:tags")).
			Return(mock.Result(mock.RedisNil())),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "catalog:g0:tags", `[{"Tag":"wifi","Count":1}]`, "EX", "60")).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	next := &stubAggregator{tags: []domain.TagCount{{Tag: "wifi", Count: 1}}}
	tags, err := NewCatalogCache(c, next, time.Minute, nil).TagHistogram(context.Background())
	require.NoError(t, err)
	assert.Equal(t, next.tags, tags)
	assert.Equal(t, 1, next.tagCalls)
}

func TestTagHistogram_InvalidateDuringLoadStoresUnderRetiredGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		expectGeneration(c, "3"),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g3:tags")).
			Return(mock.Result(mock.RedisNil())),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("INCR", "catalog:gen")).
			Return(mock.Result(mock.RedisInt64(4))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "catalog:g3:tags", `[{"Tag":"wifi","Count":1}]`, "EX", "60")).
			Return(mock.Result(mock.RedisString("OK"))),
		expectGeneration(c, "4"),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g4:tags")).
			Return(mock.Result(mock.RedisNil())),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "catalog:g4:tags", `[{"Tag":"wifi","Count":2}]`, "EX", "60")).
			Return(mock.Result(mock.RedisString("OK"))),
	)

	next := &stubAggregator{tags: []domain.TagCount{{Tag: "wifi", Count: 1}}}
	cache := NewCatalogCache(c, next, time.Minute, nil)
	ctx := context.Background()
	next.onLoad = func() {
		// A write lands while the first load is still reading the old data.
		next.onLoad = nil
		cache.Invalidate(ctx)
	}

	stale, err := cache.TagHistogram(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TagCount{{Tag: "wifi", Count: 1}}, stale)

	next.tags = []domain.TagCount{{Tag: "wifi", Count: 2}}
	fresh, err := cache.TagHistogram(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.tags, fresh)
	assert.Equal(t, 2, next.tagCalls)
}

func TestTopStores_ReadErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		expectGeneration(c, "0"),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g0:top:2:10")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
		c.EXPECT().
			Do(gomock.Any(), gomock.Any()).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
	)

	next := &stubAggregator{top: []domain.StoreSummary{{Slug: "cafe-luna", AverageRating: 4.5, ReviewCount: 2}}}
	top, err := NewCatalogCache(c, next, time.Minute, nil).TopStores(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, next.top, top)
	assert.Equal(t, 10, next.lastLimit)
}

func TestTopStores_GenerationErrorSkipsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "catalog:gen")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	next := &stubAggregator{top: []domain.StoreSummary{{Slug: "moon-bar", AverageRating: 4, ReviewCount: 3}}}
	top, err := NewCatalogCache(c, next, time.Minute, nil).TopStores(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, next.top, top)
	assert.Equal(t, 1, next.topCalls)
}

func TestTopStores_LoadErrorNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		expectGeneration(c, "1"),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "catalog:g1:top:2:5")).
			Return(mock.Result(mock.RedisNil())),
	)

	boom := errors.New("boom")
	_, err := NewCatalogCache(c, &stubAggregator{err: boom}, time.Minute, nil).TopStores(context.Background(), 2, 5)
	assert.ErrorIs(t, err, boom)
}

func TestInvalidate_BumpsGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "catalog:gen")).
		Return(mock.Result(mock.RedisInt64(1)))

	NewCatalogCache(c, &stubAggregator{}, time.Minute, nil).Invalidate(context.Background())
}

func TestInvalidate_ErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "catalog:gen")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	assert.NotPanics(t, func() {
		NewCatalogCache(c, &stubAggregator{}, time.Minute, nil).Invalidate(context.Background())
	})
}

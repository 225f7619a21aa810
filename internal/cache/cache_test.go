package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"articlehub/internal/apperr"
	"articlehub/internal/backend/mocks"
	"articlehub/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type lookupCounter struct {
	hits, misses int
}

func (c *lookupCounter) RecordRequest(string, string, int, time.Duration) {}
func (c *lookupCounter) RecordUpstreamCall(string, int, time.Duration)    {}
func (c *lookupCounter) RecordRefetch()                                   {}
func (c *lookupCounter) RecordCacheLookup(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func setup(t *testing.T) (*ListCache, *mocks.MockService, *miniredis.Miniredis, *lookupCounter) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := mocks.NewMockService(gomock.NewController(t))
	counter := &lookupCounter{}
	return New(svc, rdb, time.Minute, zap.NewNop(), counter), svc, mr, counter
}

func samplePage() *model.ArticlePage {
	return &model.ArticlePage{
		Articles: []model.Article{{ID: 1, Title: "Cached", Status: model.StatusPublished}},
		Total:    1,
		Page:     1,
		Limit:    10,
	}
}

func TestList_SecondCallServedFromCache(t *testing.T) {
	c, svc, _, counter := setup(t)
	ctx := context.Background()
	svc.EXPECT().List(gomock.Any(), model.Filter{Page: 1, Limit: 10}).Return(samplePage(), nil).Times(1)

	first, err := c.List(ctx, model.Filter{})
	require.NoError(t, err)
	second, err := c.List(ctx, model.Filter{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	require.Len(t, second.Articles, 1)
	assert.Equal(t, "Cached", second.Articles[0].Title)
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)
}

func TestList_KeyIncludesFilter(t *testing.T) {
	c, svc, _, _ := setup(t)
	ctx := context.Background()
	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil).Times(2)

	_, err := c.List(ctx, model.Filter{Search: "go"})
	require.NoError(t, err)
	_, err = c.List(ctx, model.Filter{Search: "go", Status: model.StatusDraft})
	require.NoError(t, err)
}

func TestList_EntriesExpire(t *testing.T) {
	c, svc, mr, _ := setup(t)
	ctx := context.Background()
	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil).Times(2)

	_, err := c.List(ctx, model.Filter{})
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.List(ctx, model.Filter{})
	require.NoError(t, err)
}

func TestMutationsInvalidate(t *testing.T) {
	c, svc, _, _ := setup(t)
	ctx := context.Background()
	in := model.ArticleInput{Title: "T", Author: "A", Status: model.StatusDraft}

	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil).Times(4)
	svc.EXPECT().Create(gomock.Any(), in).Return(&model.Article{ID: 2}, nil)
	svc.EXPECT().Update(gomock.Any(), 2, in).Return(&model.Article{ID: 2}, nil)
	svc.EXPECT().Delete(gomock.Any(), 2).Return(nil)

	_, err := c.List(ctx, model.Filter{})
	require.NoError(t, err)

	_, err = c.Create(ctx, in)
	require.NoError(t, err)
	_, err = c.List(ctx, model.Filter{})
	require.NoError(t, err)

	_, err = c.Update(ctx, 2, in)
	require.NoError(t, err)
	_, err = c.List(ctx, model.Filter{})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, 2))
	_, err = c.List(ctx, model.Filter{})
	require.NoError(t, err)
}

func TestFailedMutationKeepsCache(t *testing.T) {
	c, svc, _, _ := setup(t)
	ctx := context.Background()

	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil).Times(1)
	svc.EXPECT().Delete(gomock.Any(), 9).Return(apperr.NotFound(9))

	_, err := c.List(ctx, model.Filter{})
	require.NoError(t, err)

	err = c.Delete(ctx, 9)
	assert.True(t, apperr.IsNotFound(err))

	_, err = c.List(ctx, model.Filter{})
	require.NoError(t, err)
}

func TestList_BackendErrorNotCached(t *testing.T) {
	c, svc, _, _ := setup(t)
	ctx := context.Background()
	boom := apperr.New(apperr.KindFetch, apperr.MsgFetchFailed, 503)

	gomock.InOrder(
		svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, boom),
		svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil),
	)

	_, err := c.List(ctx, model.Filter{})
	assert.True(t, errors.Is(err, boom))

	page, err := c.List(ctx, model.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestList_RedisDownFallsThrough(t *testing.T) {
	c, svc, mr, _ := setup(t)
	mr.Close()
	svc.EXPECT().List(gomock.Any(), gomock.Any()).Return(samplePage(), nil).Times(2)

	for i := 0; i < 2; i++ {
		page, err := c.List(context.Background(), model.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	rdb.Close()

	_, err = NewRedisClient(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}

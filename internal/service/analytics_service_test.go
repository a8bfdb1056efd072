package service

import (
	"context"
	"testing"

	"even/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_TrackView(t *testing.T) {
	t.Parallel()

	views := 0
	repo := noopPostRepo()
	repo.incrementViewsFn = func(_ context.Context, _ uint) (int, error) {
		views++
		return views, nil
	}
	svc := NewAnalyticsService(repo, "http://localhost:5173")

	first, cookie, err := svc.TrackView(context.Background(), 12, "")
	require.NoError(t, err)
	assert.Equal(t, &ViewResult{Viewed: true, TotalViews: 1}, first)
	assert.Equal(t, `["12"]`, cookie)

	second, cookie2, err := svc.TrackView(context.Background(), 12, cookie)
	require.NoError(t, err)
	assert.False(t, second.Viewed)
	assert.Empty(t, cookie2)
	assert.Equal(t, 1, views)

	_, cookie3, err := svc.TrackView(context.Background(), 13, cookie)
	require.NoError(t, err)
	assert.Equal(t, `["12","13"]`, cookie3)
}

func TestAnalyticsService_TrackView_BadCookieIsEmpty(t *testing.T) {
	t.Parallel()
	svc := NewAnalyticsService(noopPostRepo(), "")

	res, cookie, err := svc.TrackView(context.Background(), 3, "{not json")
	require.NoError(t, err)
	assert.True(t, res.Viewed)
	assert.Equal(t, `["3"]`, cookie)
}

func TestAnalyticsService_TrackView_MissingPost(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.incrementViewsFn = func(_ context.Context, id uint) (int, error) {
		return 0, models.NewNotFoundError("Post", id)
	}
	svc := NewAnalyticsService(repo, "")

	_, cookie, err := svc.TrackView(context.Background(), 3, "")
	assertNotFoundError(t, err)
	assert.Empty(t, cookie)
}

func TestParseViewedPosts(t *testing.T) {
	assert.Equal(t, []string{}, ParseViewedPosts(""))
	assert.Equal(t, []string{}, ParseViewedPosts("[1,2]"))
	assert.Equal(t, []string{"1", "2"}, ParseViewedPosts(`["1","2"]`))
}

func TestAnalyticsService_Trending(t *testing.T) {
	t.Parallel()
	var gotLimit int
	repo := noopPostRepo()
	repo.trendingFn = func(_ context.Context, limit int) ([]*models.Post, error) {
		gotLimit = limit
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewAnalyticsService(repo, "")

	posts, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 5, gotLimit)
}

func TestAnalyticsService_Share(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.incrementSharesFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Title: "Go & You (part 1)", Slug: "go-you-part-1", SharesCount: 4}, nil
	}
	svc := NewAnalyticsService(repo, "http://localhost:5173/")

	links, err := svc.Share(context.Background(), 9)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5173/posts/go-you-part-1", links.Copy)
	assert.Equal(t,
		"https://twitter.com/intent/tweet?url=http%3A%2F%2Flocalhost%3A5173%2Fposts%2Fgo-you-part-1&text=Check%20out%20this%20article%20on%20EVEN%3A%20Go%20%26%20You%20(part%201)",
		links.Twitter)
	assert.Equal(t,
		"https://www.linkedin.com/sharing/share-offsite/?url=http%3A%2F%2Flocalhost%3A5173%2Fposts%2Fgo-you-part-1",
		links.LinkedIn)
	assert.Equal(t,
		"https://www.facebook.com/sharer/sharer.php?u=http%3A%2F%2Flocalhost%3A5173%2Fposts%2Fgo-you-part-1",
		links.Facebook)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b!'()*~-_.", encodeURIComponent("a b!'()*~-_."))
	assert.Equal(t, "%2B%26%3D%3F", encodeURIComponent("+&=?"))
}

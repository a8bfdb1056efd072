package service

import (
	"context"
	"errors"
	"testing"

	"even/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_EmptyQuerySkipsStore(t *testing.T) {
	t.Parallel()
	users := noopUserRepo()
	users.searchFn = func(_ context.Context, _ string, _ int) ([]models.User, error) {
		t.Fatal("search must not run")
		return nil, nil
	}
	svc := NewSearchService(users, noopTechHubRepo(), noopPostRepo())

	res, err := svc.GlobalSearch(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestSearchService_FansOut(t *testing.T) {
	t.Parallel()
	users := noopUserRepo()
	users.searchFn = func(_ context.Context, q string, limit int) ([]models.User, error) {
		assert.Equal(t, "go", q)
		assert.Equal(t, 3, limit)
		return []models.User{{ID: 1}}, nil
	}
	hubs := noopTechHubRepo()
	hubs.searchFn = func(_ context.Context, q string, limit int) ([]models.TechHub, error) {
		assert.Equal(t, 3, limit)
		return []models.TechHub{{ID: 2}}, nil
	}
	svc := NewSearchService(users, hubs, noopPostRepo())

	res, err := svc.GlobalSearch(context.Background(), " go ")
	require.NoError(t, err)
	assert.Len(t, res.Users, 1)
	assert.Len(t, res.Hubs, 1)
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)
}

func TestSearchService_PropagatesErrors(t *testing.T) {
	t.Parallel()
	posts := noopPostRepo()
	posts.searchFn = func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
		return nil, models.NewInternalError(errors.New("db down"))
	}
	svc := NewSearchService(noopUserRepo(), noopTechHubRepo(), posts)

	_, err := svc.GlobalSearch(context.Background(), "go")
	assertAppErrorCode(t, err, models.CodeInternal)
}

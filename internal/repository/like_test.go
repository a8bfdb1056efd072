package repository

import (
	"context"
	"testing"

	"even/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_ToggleStateMachine(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")

	outcome, counts, err := repo.Toggle(ctx, reader.ID, post.ID, models.LikeTypeLike)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, outcome)
	assert.Equal(t, 1, counts.LikesCount)
	assert.Equal(t, 0, counts.DislikesCount)

	outcome, counts, err = repo.Toggle(ctx, reader.ID, post.ID, models.LikeTypeDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleSwitched, outcome)
	assert.Equal(t, 0, counts.LikesCount)
	assert.Equal(t, 1, counts.DislikesCount)
	assert.EqualValues(t, 1, countRows(t, db, &models.Like{}, "post_id = ?", post.ID))

	status, err := repo.Status(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.LikeTypeDislike, *status)

	outcome, counts, err = repo.Toggle(ctx, reader.ID, post.ID, models.LikeTypeDislike)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, outcome)
	assert.Equal(t, 0, counts.LikesCount)
	assert.Equal(t, 0, counts.DislikesCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.Like{}, "post_id = ?", post.ID))

	status, err = repo.Status(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestLikeRepository_CountersMatchRows(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")

	var users []*models.User
	for _, name := range []string{"ann", "bob", "cat", "dan"} {
		users = append(users, seedUser(t, db, name))
	}

	for _, u := range users {
		_, _, err := repo.Toggle(ctx, u.ID, post.ID, models.LikeTypeLike)
		require.NoError(t, err)
	}
	_, _, err := repo.Toggle(ctx, users[0].ID, post.ID, models.LikeTypeDislike)
	require.NoError(t, err)
	_, _, err = repo.Toggle(ctx, users[1].ID, post.ID, models.LikeTypeLike)
	require.NoError(t, err)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.EqualValues(t, countRows(t, db, &models.Like{}, "post_id = ? AND type = ?", post.ID, models.LikeTypeLike), stored.LikesCount)
	assert.EqualValues(t, countRows(t, db, &models.Like{}, "post_id = ? AND type = ?", post.ID, models.LikeTypeDislike), stored.DislikesCount)
	assert.Equal(t, 2, stored.LikesCount)
	assert.Equal(t, 1, stored.DislikesCount)
}

func TestLikeRepository_ToggleMissingPost(t *testing.T) {
	db := setupSQLiteDB(t)
	reader := seedUser(t, db, "reader")

	_, _, err := NewLikeRepository(db).Toggle(context.Background(), reader.ID, 404, models.LikeTypeLike)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusCode(err))
	assert.EqualValues(t, 0, countRows(t, db, &models.Like{}, "user_id = ?", reader.ID))
}

func TestLikeRepository_UniqueIndexGuardsDuplicates(t *testing.T) {
	db := setupSQLiteDB(t)
	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")

	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: author.ID, Type: models.LikeTypeLike}).Error)
	err := db.Create(&models.Like{PostID: post.ID, UserID: author.ID, Type: models.LikeTypeDislike}).Error
	require.Error(t, err)
	assert.True(t, isUniqueConstraintError(err))
}

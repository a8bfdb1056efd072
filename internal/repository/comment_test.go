package repository

import (
	"context"
	"regexp"
	"testing"

	"even/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "comments" SET "deleted_at"=$1 WHERE "comments"."id" = $2 AND "comments"."deleted_at" IS NULL`)).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(ctx, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_RepliesCountTracksInserts(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")
	parent := seedComment(t, db, author, post, nil)

	const replies = 4
	var last *models.Comment
	for i := 0; i < replies; i++ {
		last = seedComment(t, db, author, post, &parent.ID)
	}
	require.NotNil(t, last.Author)

	got, err := repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, replies, got.RepliesCount)

	require.NoError(t, repo.Delete(ctx, last.ID))
	got, err = repo.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, replies, got.RepliesCount, "deleting a reply leaves the parent's count alone")

	list, err := repo.ListReplies(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, list, replies-1)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestCommentRepository_ListTopLevelPaginates(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")
	var first *models.Comment
	for i := 0; i < 25; i++ {
		c := seedComment(t, db, author, post, nil)
		if first == nil {
			first = c
		}
	}
	seedComment(t, db, author, post, &first.ID)

	comments, total, err := repo.ListTopLevel(ctx, post.ID, 10, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	assert.Len(t, comments, 5)
	assert.Equal(t, 3, models.NewPagination(total, 3, 10).Pages)

	page1, _, err := repo.ListTopLevel(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Greater(t, page1[0].ID, page1[9].ID, "newest first")
	assert.NotNil(t, page1[0].Author)
}

func TestCommentRepository_ToggleClap(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, author, seedHub(t, db, "go"), "hello")
	comment := seedComment(t, db, author, post, nil)

	outcome, claps, err := repo.ToggleClap(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, outcome)
	assert.Equal(t, 1, claps)

	outcome, claps, err = repo.ToggleClap(ctx, author.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, outcome)
	assert.Equal(t, 2, claps)

	outcome, claps, err = repo.ToggleClap(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, outcome)
	assert.Equal(t, 1, claps)
	assert.EqualValues(t, 1, countRows(t, db, &models.CommentClap{}, "comment_id = ?", comment.ID))

	_, _, err = repo.ToggleClap(ctx, fan.ID, 999)
	assert.Equal(t, 404, models.StatusCode(err))
}

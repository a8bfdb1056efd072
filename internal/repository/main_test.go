package repository

import (
	"context"
	"fmt"
	"testing"

	"even/internal/database"
	"even/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB returns a GORM handle speaking the postgres dialect to sqlmock,
// for asserting the SQL a repository emits.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns a migrated in-memory database. A single connection
// keeps every statement on the same in-memory instance.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Password: "hash",
		Role:     models.RoleReader,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedHub(t *testing.T, db *gorm.DB, name string) *models.TechHub {
	t.Helper()
	hub := &models.TechHub{Name: name, Slug: name, Description: name + " hub"}
	require.NoError(t, db.Create(hub).Error)
	return hub
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, hub *models.TechHub, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Slug:      fmt.Sprintf("%s-%d", title, author.ID),
		Content:   "<p>content</p>",
		AuthorID:  author.ID,
		TechHubID: hub.ID,
		Status:    models.PostStatusPublished,
		ReadTime:  1,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post, nil))
	return post
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: "comment", PostID: post.ID, AuthorID: author.ID, ParentCommentID: parentID}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), comment))
	return comment
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

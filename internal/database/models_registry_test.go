package database

import (
	"testing"

	modelspkg "even/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPersistentModels_IncludesInteractionTables(t *testing.T) {
	var hasClap, hasSubscription bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.CommentClap:
			hasClap = true
		case *modelspkg.Subscription:
			hasSubscription = true
		}
	}
	require.True(t, hasClap, "PersistentModels should include CommentClap")
	require.True(t, hasSubscription, "PersistentModels should include Subscription")
}

func TestPersistentModels_AutoMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, runAutoMigrate(db))

	for _, table := range []string{"users", "tech_hubs", "posts", "post_tags", "comments", "comment_claps", "likes", "bookmarks", "subscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&modelspkg.Like{}, "idx_likes_post_user"))
	assert.True(t, db.Migrator().HasIndex(&modelspkg.Subscription{}, "idx_subscriptions_subscriber_hub"))
}

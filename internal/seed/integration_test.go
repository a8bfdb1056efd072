//go:build integration

package seed

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"

	"even/internal/config"
	"even/internal/database"
	"even/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	return &config.Config{
		DBHost:        u.Hostname(),
		DBPort:        port,
		DBUser:        u.User.Username(),
		DBPassword:    password,
		DBName:        strings.TrimPrefix(u.Path, "/"),
		DBSSLMode:     "disable",
		Env:           "test",
		DBAutoMigrate: true,
	}, nil
}

func TestIntegration_SeedPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	require.NoError(t, err)

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	require.NoError(t, err)

	summary, err := NewSeeder(db, Options{NumUsers: 9, NumPosts: 12, ShouldClean: true, FastHash: true, FakerSeed: 7}).
		Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, summary.Posts)

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Where("type = ?", models.LikeTypeLike).Count(&likes).Error)
	var counted int64
	require.NoError(t, db.Model(&models.Post{}).Select("COALESCE(SUM(likes_count), 0)").Scan(&counted).Error)
	assert.Equal(t, likes, counted)
}

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"even/internal/cache"
	"even/internal/config"
	"even/internal/database"
	"even/internal/middleware"
	"even/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedHubs bool
}

// InitRuntime connects to DB and Redis and optionally upserts the built-in
// hub catalog.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedHubs {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		hubs, err := seed.Hubs(ctx, db)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in hubs: %w", err)
		}
		middleware.Logger.Info("built-in hubs ensured", slog.Int("count", len(hubs)))
	}

	return db, r, nil
}

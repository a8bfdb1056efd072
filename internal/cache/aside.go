package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"even/internal/middleware"
)

// Aside implements the cache-aside pattern: dest is filled from key when
// present, otherwise fetch fills it and the result is stored for ttl.
// Redis failures degrade to calling fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	if raw, err := client.Get(ctx, key).Bytes(); err == nil {
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		middleware.Logger.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
		client.Del(ctx, key)
	}

	if err := fetch(); err != nil {
		return err
	}

	raw, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

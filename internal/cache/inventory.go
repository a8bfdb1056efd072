package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%d"
	HubsListKey    = "hubs:all"
	TrendingKey    = "posts:trending"
	DenylistPrefix = "blacklist:%s"
)

const (
	UserTTL     = 5 * time.Minute
	HubsTTL     = 10 * time.Minute
	TrendingTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func DenylistKey(jti string) string {
	return fmt.Sprintf(DenylistPrefix, jti)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, UserKey(id))
	}
	Invalidate(ctx, keys...)
}

func InvalidateHubs(ctx context.Context) {
	Invalidate(ctx, HubsListKey)
}

// RevokeToken denylists a token id until its natural expiry.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, DenylistKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti was denylisted. Without Redis nothing is.
func IsRevoked(ctx context.Context, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, DenylistKey(jti)).Result()
	return err == nil && n > 0
}

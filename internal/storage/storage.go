// Package storage holds the destinations uploaded images are written to.
package storage

import (
	"context"
	"errors"
	"log/slog"

	"even/internal/config"
)

// ErrNotFound is returned when deleting a key that does not exist.
var ErrNotFound = errors.New("object not found")

// Store persists uploaded objects and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New returns a MinIO store when an endpoint is configured and the local
// disk store otherwise.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.MinioEndpoint == "" {
		slog.Info("storage: using local disk", slog.String("dir", cfg.ImageUploadDir))
		return NewLocalStore(cfg.ImageUploadDir, cfg.PublicBaseURL+LocalURLPrefix)
	}
	slog.Info("storage: using minio",
		slog.String("endpoint", cfg.MinioEndpoint),
		slog.String("bucket", cfg.MinioBucket))
	return NewMinioStore(ctx, MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
}

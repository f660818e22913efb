package storage

import (
	"context"
	"fmt"

	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the object store selected by cfg.Backend, or nil for "none"
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (stockapp.ObjectStore, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "local":
		store, err := NewLocalStore(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("Storage bucket check failed", zap.String("bucket", cfg.Bucket), zap.Error(err))
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

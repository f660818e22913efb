package cache

import (
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the Redis-backed stores when Redis is enabled and reachable,
// falling back to local implementations otherwise
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(config.RedisConfig) (*redis.Client, error)

	client *redis.Client
	tried  bool
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis is tolerated. Default true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a Factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns the shared Redis client, connecting on first use.
// It returns nil without error when Redis is disabled or unreachable and fallback is allowed.
func (f *Factory) Client() (*redis.Client, error) {
	if f.tried {
		return f.client, nil
	}
	f.tried = true
	if !f.cfg.Enabled {
		return nil, nil
	}
	client, err := f.connect(f.cfg)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, using local stores; idempotency keys are not shared between instances",
			zap.String("addr", f.cfg.Addr()),
			zap.Error(err),
		)
		return nil, nil
	}
	f.client = client
	f.logger.Info("Connected to Redis", zap.String("addr", f.cfg.Addr()))
	return client, nil
}

// IdempotencyStore returns the Redis store, or an in-memory one without Redis
func (f *Factory) IdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewMemoryIdempotencyStore(time.Minute), nil
	}
	return NewRedisIdempotencyStore(client, ""), nil
}

// NumberSequence returns the Redis sequence when backend is "redis" and Redis is
// available, and fallback otherwise
func (f *Factory) NumberSequence(backend string, fallback manufacturing.NumberSequence) (manufacturing.NumberSequence, error) {
	if backend != "redis" {
		return fallback, nil
	}
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client == nil {
		f.logger.Warn("Redis numbering requested but Redis is unavailable, using the database sequence")
		return fallback, nil
	}
	return NewRedisNumberSequence(client, ""), nil
}

// Close closes the Redis client if one was opened
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

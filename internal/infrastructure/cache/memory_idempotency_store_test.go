package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewMemoryIdempotencyStore(0)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "wo:1:abc", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "wo:1:abc", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		processed, err := store.IsProcessed(ctx, "wo:1:abc")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired claim can be taken again", func(t *testing.T) {
		ok, err := store.MarkProcessed(ctx, "wo:2:abc", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		now = now.Add(2 * time.Minute)
		processed, err := store.IsProcessed(ctx, "wo:2:abc")
		require.NoError(t, err)
		assert.False(t, processed)

		ok, err = store.MarkProcessed(ctx, "wo:2:abc", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewMemoryIdempotencyStore(0)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	_, _ = store.MarkProcessed(ctx, "short", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	require.Equal(t, 2, store.Len())

	now = now.Add(time.Minute)
	store.sweep()
	assert.Equal(t, 1, store.Len())
}

func TestMemoryIdempotencyStore_CloseStopsSweeper(t *testing.T) {
	store := NewMemoryIdempotencyStore(5 * time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestFactory_FallsBackWithoutRedis(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, WithLogger(zaptest.NewLogger(t)))
	f.connect = func(config.RedisConfig) (*redis.Client, error) { return nil, errors.New("connection refused") }

	store, err := f.IdempotencyStore()
	require.NoError(t, err)
	assert.IsType(t, &MemoryIdempotencyStore{}, store)
	_ = store.Close()

	fallback := stubSequence{}
	seq, err := f.NumberSequence("redis", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, seq)
}

func TestFactory_RedisRequired(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: true}, WithInMemoryFallback(false))
	f.connect = func(config.RedisConfig) (*redis.Client, error) { return nil, errors.New("connection refused") }

	_, err := f.IdempotencyStore()
	assert.Error(t, err)
}

func TestFactory_DisabledRedisNeverConnects(t *testing.T) {
	f := NewFactory(config.RedisConfig{Enabled: false})
	f.connect = func(config.RedisConfig) (*redis.Client, error) {
		t.Fatal("connect must not be called")
		return nil, nil
	}
	seq, err := f.NumberSequence("database", stubSequence{})
	require.NoError(t, err)
	assert.Equal(t, stubSequence{}, seq)

	client, err := f.Client()
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, f.Close())
}

type stubSequence struct{}

func (stubSequence) Next(context.Context, string) (int64, error) { return 1, nil }

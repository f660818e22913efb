package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfgerp/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewS3Store_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3Store(ctx, config.StorageConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half configured credentials", func(t *testing.T) {
		_, err := NewS3Store(ctx, config.StorageConfig{Bucket: "exports", AccessKeyID: "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config", func(t *testing.T) {
		store, err := NewS3Store(ctx, config.StorageConfig{
			Bucket:          "exports",
			Endpoint:        "localhost:9000",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
			UsePathStyle:    true,
			Prefix:          "/mfg/",
		})
		require.NoError(t, err)
		assert.Equal(t, "mfg/exports/ledger.xlsx", store.objectKey("exports/ledger.xlsx"))
	})
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	loc, err := store.Put(context.Background(), "exports/stock-ledger/a.xlsx", "application/octet-stream", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "stock-ledger", "a.xlsx"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	_, err = store.Put(context.Background(), "../escape.txt", "text/plain", nil)
	assert.Error(t, err)
	_, err = store.Put(context.Background(), "", "text/plain", nil)
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	store, err := New(ctx, config.StorageConfig{Backend: "none"}, logger)
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(ctx, config.StorageConfig{Backend: "local", LocalDir: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(ctx, config.StorageConfig{Backend: "ftp"}, logger)
	assert.Error(t, err)
}

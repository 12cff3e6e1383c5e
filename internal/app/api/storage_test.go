package api

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOpenStorage_MemoryByDefault(t *testing.T) {
	storage, cleanup := OpenStorage(context.Background(), Config{Backend: BackendMemory}, quietLogger())
	defer cleanup()
	assert.Equal(t, BackendMemory, storage.Backend)
	assert.False(t, storage.Degraded)
	assert.NotNil(t, storage.Carts)
}

func TestOpenStorage_SQLiteMigratesSchema(t *testing.T) {
	cfg := Config{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "shop.db"), ConnectTimeout: time.Second, SessionTTL: time.Hour}
	storage, cleanup := OpenStorage(context.Background(), cfg, quietLogger())
	defer cleanup()
	require.Equal(t, BackendSQLite, storage.Backend)
	assert.False(t, storage.Degraded)

	products, err := storage.Products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpenStorage_FallsBackWhenUnreachable(t *testing.T) {
	cases := map[string]Config{
		"postgres without dsn": {Backend: BackendPostgres, ConnectTimeout: time.Second},
		"mongo without uri":    {Backend: BackendMongo, ConnectTimeout: time.Second},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			storage, cleanup := OpenStorage(context.Background(), cfg, quietLogger())
			defer cleanup()
			assert.Equal(t, BackendMemory, storage.Backend)
			assert.True(t, storage.Degraded)
			assert.Contains(t, storage.Reason, cfg.Backend)
		})
	}
}

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/infrastructure/cache"
	"github.com/jhoicas/Cobranza-api/pkg/config"
)

func TestNewClient_DisabledWithoutAddr(t *testing.T) {
	rdb, err := cache.NewClient(context.Background(), config.RedisConfig{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

// Requiere Redis: COBRANZA_TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestIdempotencyStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("COBRANZA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COBRANZA_TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := cache.NewClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	store := cache.NewIdempotencyStore(rdb, time.Minute)
	key := uuid.New().String()

	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	locked, err := store.Lock(ctx, key)
	require.NoError(t, err)
	assert.True(t, locked)
	again, err := store.Lock(ctx, key)
	require.NoError(t, err)
	assert.False(t, again, "la segunda reserva debe fallar")

	require.NoError(t, store.Save(ctx, key, cache.Response{RequestHash: "abc", Status: 201, ContentType: "application/json", Body: []byte(`{"ok":true}`)}))
	require.NoError(t, store.Unlock(ctx, key))

	got, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 201, got.Status)
	assert.Equal(t, "abc", got.RequestHash)
	assert.JSONEq(t, `{"ok":true}`, string(got.Body))
}

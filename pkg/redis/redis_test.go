package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return NewStore(c), mr
}

func TestStore_GetMissingKey(t *testing.T) {
	store, _ := setupStore(t)

	val, found, err := store.Get(context.Background(), "reviews:all")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestStore_SetGetDelete(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reviews:all", []byte(`[{"id":"r1"}]`)))
	assert.True(t, mr.Exists("reelnote:reviews:all"))

	val, found, err := store.Get(ctx, "reviews:all")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"r1"}]`, string(val))

	require.NoError(t, store.Delete(ctx, "reviews:all"))
	_, found, err = store.Get(ctx, "reviews:all")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Unreachable(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), "reviews:all")
	assert.Error(t, err)
}

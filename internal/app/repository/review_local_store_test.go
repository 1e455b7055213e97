package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalReviewStore(t *testing.T) (*LocalReviewStore, KeyValueStore) {
	kv := NewMemoryKeyValueStore()
	store := NewLocalReviewStore(kv)
	store.now = steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return store, kv
}

func TestLocalReviewStore_UpsertKeepsIdentity(t *testing.T) {
	store, _ := setupLocalReviewStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, newReview("u1", 157336, 8))
	require.NoError(t, err)

	second, err := store.Upsert(ctx, newReview("u1", 157336, 10))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, 10, second.Rating)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLocalReviewStore_IndexesFollowCollection(t *testing.T) {
	store, kv := setupLocalReviewStore(t)
	ctx := context.Background()

	a, err := store.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, newReview("u2", 1, 6))
	require.NoError(t, err)
	_, err = store.Upsert(ctx, newReview("u1", 2, 7))
	require.NoError(t, err)

	byMovie, err := store.FindByMovie(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byMovie, 2)
	assert.Equal(t, "u2", byMovie[0].UserID)

	byUser, err := store.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	require.NoError(t, store.Delete(ctx, a.ID, "u1"))
	byMovie, err = store.FindByMovie(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byMovie, 1)

	// a lost index is rebuilt from the authoritative collection
	require.NoError(t, kv.Delete(ctx, userIndexKey("u1")))
	byUser, err = store.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(2), byUser[0].MovieID)
}

func TestLocalReviewStore_OwnershipFilters(t *testing.T) {
	store, _ := setupLocalReviewStore(t)
	ctx := context.Background()

	saved, err := store.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)

	_, err = store.Update(ctx, saved.ID, "u2", model.ReviewForm{Rating: 1})
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.ErrorIs(t, store.Delete(ctx, saved.ID, "u2"), ErrReviewNotFound)

	updated, err := store.Update(ctx, saved.ID, "u1", model.ReviewForm{Rating: 3, Recommendation: model.RecommendationNeutral})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))

	found, err := store.FindByUserAndMovie(ctx, "u1", 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 3, found.Rating)

	missing, err := store.FindByUserAndMovie(ctx, "u1", 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

type failingKeyValueStore struct {
	KeyValueStore
	failSet bool
}

func (f *failingKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.KeyValueStore.Set(ctx, key, value)
}

func TestLocalReviewStore_WriteFailureSurfaces(t *testing.T) {
	kv := &failingKeyValueStore{KeyValueStore: NewMemoryKeyValueStore(), failSet: true}
	store := NewLocalReviewStore(kv)

	_, err := store.Upsert(context.Background(), newReview("u1", 1, 5))
	assert.Error(t, err)
}

func TestLocalReviewStore_DeleteIfUnchanged(t *testing.T) {
	store, _ := setupLocalReviewStore(t)
	ctx := context.Background()

	read, err := store.Upsert(ctx, &model.Review{UserID: "u1", MovieID: 1, Rating: 7, Recommendation: model.RecommendationDefault})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, &model.Review{UserID: "u1", MovieID: 1, Rating: 2, Recommendation: model.RecommendationNot})
	require.NoError(t, err)

	removed, err := store.DeleteIfUnchanged(ctx, read.ID, "u1", read.UpdatedAt)
	require.NoError(t, err)
	assert.False(t, removed)

	current, err := store.FindByUserAndMovie(ctx, "u1", 1)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 2, current.Rating)

	removed, err = store.DeleteIfUnchanged(ctx, current.ID, "u1", current.UpdatedAt)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = store.DeleteIfUnchanged(ctx, current.ID, "u1", current.UpdatedAt)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	byMovie, err := store.FindByMovie(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, byMovie)
}

package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errConnectionRefused = errors.New("connection refused")

// brokenReviewStore fails every call with err, optionally after blocking until ctx ends.
type brokenReviewStore struct {
	err   error
	block bool
	calls atomic.Int32
}

func (b *brokenReviewStore) fail(ctx context.Context) error {
	b.calls.Add(1)
	if b.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.err
}

func (b *brokenReviewStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	return nil, b.fail(ctx)
}

func (b *brokenReviewStore) FindByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return nil, b.fail(ctx)
}

func (b *brokenReviewStore) FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	return nil, b.fail(ctx)
}

func (b *brokenReviewStore) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	return nil, b.fail(ctx)
}

func (b *brokenReviewStore) Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error) {
	return nil, b.fail(ctx)
}

func (b *brokenReviewStore) Delete(ctx context.Context, reviewID, userID string) error {
	return b.fail(ctx)
}

func TestFallbackReviewStore_UsesSecondaryWhenPrimaryFails(t *testing.T) {
	primary := &brokenReviewStore{err: errConnectionRefused}
	local, _ := setupLocalReviewStore(t)
	store := NewFallbackReviewStore(primary, local, time.Second)
	ctx := context.Background()

	saved, err := store.Upsert(ctx, newReview("u1", 157336, 8))
	require.NoError(t, err)
	assert.Equal(t, 8, saved.Rating)

	reviews, err := store.FindByMovie(ctx, 157336)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, int32(2), primary.calls.Load())
}

func TestFallbackReviewStore_TerminalErrorsAreNotRetried(t *testing.T) {
	primaryRepo, local := setupReviewRepositoryTestStores(t)
	store := NewFallbackReviewStore(primaryRepo, local, time.Second)
	ctx := context.Background()

	saved, err := store.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)

	// the local tier holds a same-id review for u2; it must never be consulted
	_, err = local.Upsert(ctx, &model.Review{ID: saved.ID, UserID: "u2", MovieID: 1, Rating: 1, Recommendation: model.RecommendationNot})
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(ctx, saved.ID, "u2"), ErrReviewNotFound)
	inLocal, err := local.FindByUserAndMovie(ctx, "u2", 1)
	require.NoError(t, err)
	assert.NotNil(t, inLocal)
}

func setupReviewRepositoryTestStores(t *testing.T) (*ReviewRepository, *LocalReviewStore) {
	_, repo := setupReviewRepositoryTest(t)
	local, _ := setupLocalReviewStore(t)
	return repo, local
}

func TestFallbackReviewStore_PrimaryTimeout(t *testing.T) {
	primary := &brokenReviewStore{block: true}
	local, _ := setupLocalReviewStore(t)
	store := NewFallbackReviewStore(primary, local, 20*time.Millisecond)

	start := time.Now()
	reviews, err := store.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFallbackReviewStore_AllTiersFailed(t *testing.T) {
	primary := &brokenReviewStore{err: errConnectionRefused}
	secondary := &brokenReviewStore{err: errors.New("kv offline")}
	store := NewFallbackReviewStore(primary, secondary, time.Second)

	_, err := store.FindByMovie(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAllTiersFailed)
	assert.ErrorIs(t, err, errConnectionRefused)
	assert.Contains(t, err.Error(), "kv offline")
}

func TestFallbackReviewStore_NilPrimary(t *testing.T) {
	local, _ := setupLocalReviewStore(t)
	store := NewFallbackReviewStore(nil, local, 0)

	saved, err := store.Upsert(context.Background(), newReview("u1", 1, 5))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
}

func TestFallbackReviewStore_CancelledParentSkipsSecondary(t *testing.T) {
	primary := &brokenReviewStore{block: true}
	secondary := &brokenReviewStore{err: errors.New("unused")}
	store := NewFallbackReviewStore(primary, secondary, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindByMovie(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), secondary.calls.Load())
}

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func setupReviewRepositoryTest(t *testing.T) (*gorm.DB, *ReviewRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	repo := NewReviewRepository(testDB)
	repo.now = steppingClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	return testDB, repo
}

func newReview(userID string, movieID int64, rating int) *model.Review {
	return &model.Review{
		UserID:         userID,
		MovieID:        movieID,
		MovieTitle:     "Interstellar",
		Rating:         rating,
		Title:          "Title",
		Content:        "Content",
		Pros:           model.StringList{"visuals"},
		Recommendation: model.RecommendationDefault,
	}
}

func TestReviewRepository_UpsertCreatesThenUpdatesSameRow(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, newReview("u1", 157336, 8))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 8, first.Rating)
	assert.Equal(t, model.StringList{"visuals"}, first.Pros)
	assert.Equal(t, model.StringList{}, first.Cons)

	second, err := repo.Upsert(ctx, newReview("u1", 157336, 10))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 10, second.Rating)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	reviews, err := repo.FindByMovie(ctx, 157336)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestReviewRepository_FindOrdering(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, newReview("u2", 1, 6))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, newReview("u1", 2, 7))
	require.NoError(t, err)

	byMovie, err := repo.FindByMovie(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byMovie, 2)
	assert.Equal(t, "u2", byMovie[0].UserID)
	assert.Equal(t, "u1", byMovie[1].UserID)

	byUser, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, int64(2), byUser[0].MovieID)

	empty, err := repo.FindByMovie(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReviewRepository_FindByUserAndMovieMissing(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)

	review, err := repo.FindByUserAndMovie(context.Background(), "nobody", 1)
	assert.NoError(t, err)
	assert.Nil(t, review)
}

func TestReviewRepository_UpdateChecksOwnership(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)

	form := model.ReviewForm{Rating: 9, Title: "Better", Recommendation: model.RecommendationHighly}

	_, err = repo.Update(ctx, saved.ID, "u2", form)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	updated, err := repo.Update(ctx, saved.ID, "u1", form)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Rating)
	assert.Equal(t, "Better", updated.Title)
	assert.Equal(t, model.StringList{}, updated.Pros)
	assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))
}

func TestReviewRepository_DeleteChecksOwnership(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	saved, err := repo.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, saved.ID, "u2"), ErrReviewNotFound)

	remaining, err := repo.FindByMovie(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	require.NoError(t, repo.Delete(ctx, saved.ID, "u1"))
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID, "u1"), ErrReviewNotFound)
}

func TestReviewRepository_ImportKeepsNewerRow(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, newReview("u1", 1, 5))
	require.NoError(t, err)

	stale := newReview("u1", 1, 2)
	stale.CreatedAt = stored.CreatedAt.Add(-time.Hour)
	stale.UpdatedAt = stored.UpdatedAt.Add(-time.Hour)
	applied, err := repo.Import(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied)

	fresh := newReview("u1", 1, 9)
	fresh.CreatedAt = stored.CreatedAt
	fresh.UpdatedAt = stored.UpdatedAt.Add(time.Hour)
	applied, err = repo.Import(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, applied)

	current, err := repo.FindByUserAndMovie(ctx, "u1", 1)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, stored.ID, current.ID)
	assert.Equal(t, 9, current.Rating)
}

func TestReviewRepository_ConcurrentUpsertsConverge(t *testing.T) {
	_, repo := setupReviewRepositoryTest(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, newReview("u1", 157336, rating))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reviews, err := repo.FindByMovie(ctx, 157336)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

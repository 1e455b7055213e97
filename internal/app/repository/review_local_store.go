package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

const (
	localReviewsKey      = "reviews:all"
	localReviewsMoviePfx = "reviews:movie:"
	localReviewsUserPfx  = "reviews:user:"
)

// LocalReviewStore is the last-resort review tier over a KeyValueStore.
//
// The flat collection under reviews:all is authoritative. The by-movie and by-user
// indexes are rewritten from it after every mutation and are only a read shortcut:
// a missing index is rebuilt from the collection on read. Writers in other processes
// sharing the same KeyValueStore are not coordinated.
type LocalReviewStore struct {
	kv  KeyValueStore
	mu  sync.Mutex
	now func() time.Time
}

func NewLocalReviewStore(kv KeyValueStore) *LocalReviewStore {
	return &LocalReviewStore{
		kv:  kv,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func movieIndexKey(movieID int64) string {
	return fmt.Sprintf("%s%d", localReviewsMoviePfx, movieID)
}

func userIndexKey(userID string) string {
	return localReviewsUserPfx + userID
}

// All returns every review held by the local tier.
func (s *LocalReviewStore) All(ctx context.Context) ([]model.Review, error) {
	return s.loadAll(ctx)
}

func (s *LocalReviewStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	return s.readIndex(ctx, movieIndexKey(movieID), func(r model.Review) bool {
		return r.MovieID == movieID
	})
}

func (s *LocalReviewStore) FindByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return s.readIndex(ctx, userIndexKey(userID), func(r model.Review) bool {
		return r.UserID == userID
	})
}

func (s *LocalReviewStore) FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	reviews, err := s.FindByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].UserID == userID {
			return &reviews[i], nil
		}
	}
	return nil, nil
}

func (s *LocalReviewStore) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var saved model.Review
	idx := indexOfReview(all, func(r model.Review) bool {
		return r.UserID == review.UserID && r.MovieID == review.MovieID
	})
	if idx >= 0 {
		existing := &all[idx]
		existing.MovieTitle = review.MovieTitle
		existing.Rating = review.Rating
		existing.Title = review.Title
		existing.Content = review.Content
		existing.Pros = review.Pros
		existing.Cons = review.Cons
		existing.Recommendation = review.Recommendation
		if review.UserName != "" {
			existing.UserName = review.UserName
		}
		existing.UpdatedAt = now
		existing.Normalize()
		saved = *existing
	} else {
		saved = *review
		if saved.ID == "" {
			saved.ID = uuid.NewString()
		}
		saved.CreatedAt = now
		saved.UpdatedAt = now
		saved.Normalize()
		all = append(all, saved)
	}

	if err := s.commit(ctx, all, saved.MovieID, saved.UserID); err != nil {
		return nil, err
	}

	logger.Debug("Review saved to local tier", map[string]interface{}{
		"review_id": saved.ID,
		"user_id":   saved.UserID,
		"movie_id":  saved.MovieID,
	})
	return &saved, nil
}

func (s *LocalReviewStore) Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfReview(all, func(r model.Review) bool {
		return r.ID == reviewID && r.UserID == userID
	})
	if idx < 0 {
		return nil, ErrReviewNotFound
	}

	all[idx].Apply(form)
	all[idx].UpdatedAt = s.now()
	updated := all[idx]

	if err := s.commit(ctx, all, updated.MovieID, updated.UserID); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LocalReviewStore) Delete(ctx context.Context, reviewID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return err
	}

	idx := indexOfReview(all, func(r model.Review) bool {
		return r.ID == reviewID && r.UserID == userID
	})
	if idx < 0 {
		return ErrReviewNotFound
	}

	removed := all[idx]
	all = append(all[:idx], all[idx+1:]...)
	return s.commit(ctx, all, removed.MovieID, removed.UserID)
}

// DeleteIfUnchanged removes the review only while its updated_at still equals updatedAt.
// It reports false, leaving the row in place, when the review was rewritten since it was read,
// and ErrReviewNotFound when it is already gone.
func (s *LocalReviewStore) DeleteIfUnchanged(ctx context.Context, reviewID, userID string, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return false, err
	}

	idx := indexOfReview(all, func(r model.Review) bool {
		return r.ID == reviewID && r.UserID == userID
	})
	if idx < 0 {
		return false, ErrReviewNotFound
	}
	if !all[idx].UpdatedAt.Equal(updatedAt) {
		return false, nil
	}

	removed := all[idx]
	all = append(all[:idx], all[idx+1:]...)
	if err := s.commit(ctx, all, removed.MovieID, removed.UserID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LocalReviewStore) loadAll(ctx context.Context) ([]model.Review, error) {
	var all []model.Review
	if _, err := readJSON(ctx, s.kv, localReviewsKey, &all); err != nil {
		return nil, fmt.Errorf("read local reviews: %w", err)
	}
	for i := range all {
		all[i].Normalize()
	}
	return all, nil
}

func (s *LocalReviewStore) readIndex(ctx context.Context, key string, match func(model.Review) bool) ([]model.Review, error) {
	var reviews []model.Review
	found, err := readJSON(ctx, s.kv, key, &reviews)
	if err != nil {
		return nil, fmt.Errorf("read local review index %s: %w", key, err)
	}
	if !found {
		all, err := s.loadAll(ctx)
		if err != nil {
			return nil, err
		}
		reviews = filterReviews(all, match)
	}
	for i := range reviews {
		reviews[i].Normalize()
	}
	sortReviewsNewestFirst(reviews)
	return reviews, nil
}

// commit writes the authoritative collection, then rebuilds the two affected indexes.
// An index that cannot be written is dropped so reads fall back to the collection.
func (s *LocalReviewStore) commit(ctx context.Context, all []model.Review, movieID int64, userID string) error {
	if err := writeJSON(ctx, s.kv, localReviewsKey, all); err != nil {
		return fmt.Errorf("write local reviews: %w", err)
	}

	indexes := map[string][]model.Review{
		movieIndexKey(movieID): filterReviews(all, func(r model.Review) bool { return r.MovieID == movieID }),
		userIndexKey(userID):   filterReviews(all, func(r model.Review) bool { return r.UserID == userID }),
	}
	for key, subset := range indexes {
		var err error
		if len(subset) == 0 {
			err = s.kv.Delete(ctx, key)
		} else {
			err = writeJSON(ctx, s.kv, key, subset)
		}
		if err != nil {
			logger.Warn("Failed to rebuild local review index", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			if delErr := s.kv.Delete(ctx, key); delErr != nil {
				return fmt.Errorf("local review index %s diverged: %w", key, delErr)
			}
		}
	}
	return nil
}

func indexOfReview(reviews []model.Review, match func(model.Review) bool) int {
	for i := range reviews {
		if match(reviews[i]) {
			return i
		}
	}
	return -1
}

func filterReviews(reviews []model.Review, match func(model.Review) bool) []model.Review {
	out := make([]model.Review, 0)
	for _, r := range reviews {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortReviewsNewestFirst(reviews []model.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}

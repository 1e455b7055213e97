package service

import (
	"context"
	"strings"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

// Author identifies the writer of a review or comment.
type Author struct {
	ID          string
	DisplayName string          // 클라이언트가 보낸 표시 이름 (userName)
	Identity    *model.Identity // 검증된 세션이 있을 때만 설정
}

// identity returns the best identity available for creating the author's profile.
func (a Author) identity() model.Identity {
	if a.Identity != nil && a.Identity.ID == a.ID {
		return *a.Identity
	}
	return model.Identity{ID: a.ID, FullName: strings.TrimSpace(a.DisplayName)}
}

type ReviewService interface {
	GetReviewsForMovie(ctx context.Context, movieID int64) ([]model.Review, error)
	GetUserReviews(ctx context.Context, userID string) ([]model.Review, error)
	GetUserReviewForMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error)
	CreateOrUpdateReview(ctx context.Context, movieID int64, movieTitle string, form model.ReviewForm, author Author) (*model.Review, error)
	UpdateReview(ctx context.Context, reviewID, authorID string, form model.ReviewForm) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID, authorID string) error
	GetMovieStats(ctx context.Context, movieID int64) (*model.ReviewStats, error)
}

type reviewService struct {
	store    repository.ReviewStore
	profiles ProfileService
}

// NewReviewService serves every call from store, which is usually a FallbackReviewStore,
// so callers never learn which tier answered.
func NewReviewService(store repository.ReviewStore, profiles ProfileService) ReviewService {
	return &reviewService{store: store, profiles: profiles}
}

func (s *reviewService) GetReviewsForMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}

	reviews, err := s.store.FindByMovie(ctx, movieID)
	if err != nil {
		logger.Error("Failed to fetch movie reviews", err, map[string]interface{}{
			"movie_id": movieID,
		})
		return nil, err
	}
	return s.enrich(ctx, reviews), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	if userID == "" {
		return []model.Review{}, nil
	}

	reviews, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return s.enrich(ctx, reviews), nil
}

func (s *reviewService) GetUserReviewForMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	review, err := s.store.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, nil
	}
	return s.enrichOne(ctx, review), nil
}

func (s *reviewService) CreateOrUpdateReview(ctx context.Context, movieID int64, movieTitle string, form model.ReviewForm, author Author) (*model.Review, error) {
	if author.ID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	form = form.Clean()
	if form.Recommendation == "" {
		form.Recommendation = model.RecommendationDefault
	}
	if err := validateReviewForm(form); err != nil {
		return nil, err
	}

	s.profiles.EnsureProfile(ctx, author.identity())

	review := &model.Review{
		UserID:     author.ID,
		MovieID:    movieID,
		MovieTitle: strings.TrimSpace(movieTitle),
		UserName:   strings.TrimSpace(author.DisplayName),
	}
	review.Apply(form)

	saved, err := s.store.Upsert(ctx, review)
	if err != nil {
		logger.Error("Failed to save review", err, map[string]interface{}{
			"user_id":  author.ID,
			"movie_id": movieID,
		})
		return nil, err
	}

	if saved.UserName == "" {
		saved.UserName = review.UserName
	}

	logger.Info("Review saved", map[string]interface{}{
		"review_id": saved.ID,
		"user_id":   saved.UserID,
		"movie_id":  saved.MovieID,
	})
	return s.enrichOne(ctx, saved), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID, authorID string, form model.ReviewForm) (*model.Review, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	if reviewID == "" {
		return nil, ErrReviewNotFound
	}
	form = form.Clean()
	if form.Recommendation == "" {
		form.Recommendation = model.RecommendationDefault
	}
	if err := validateReviewForm(form); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, reviewID, authorID, form)
	if err != nil {
		return nil, err
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": updated.ID,
		"user_id":   authorID,
	})
	return s.enrichOne(ctx, updated), nil
}

// DeleteReview reports ErrReviewNotFound both for a missing review and for someone else's.
func (s *reviewService) DeleteReview(ctx context.Context, reviewID, authorID string) error {
	if authorID == "" {
		return ErrUnauthenticated
	}
	if reviewID == "" {
		return ErrReviewNotFound
	}

	if err := s.store.Delete(ctx, reviewID, authorID); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   authorID,
	})
	return nil
}

func (s *reviewService) GetMovieStats(ctx context.Context, movieID int64) (*model.ReviewStats, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	reviews, err := s.store.FindByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return model.NewReviewStats(movieID, reviews), nil
}

func (s *reviewService) enrich(ctx context.Context, reviews []model.Review) []model.Review {
	if reviews == nil {
		reviews = []model.Review{}
	}
	for i := range reviews {
		reviews[i].Normalize()
	}
	s.profiles.EnrichReviews(ctx, reviews)
	return reviews
}

func (s *reviewService) enrichOne(ctx context.Context, review *model.Review) *model.Review {
	batch := []model.Review{*review}
	s.enrich(ctx, batch)
	return &batch[0]
}

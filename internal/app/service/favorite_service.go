package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

// ListMembership 토글 결과
type ListMembership struct {
	MovieID  int64             `json:"movie_id"`
	InList   bool              `json:"in_list"`
	MovieIDs model.MovieIDList `json:"movie_ids"`
}

type FavoriteService interface {
	List(ctx context.Context, userID string, kind model.ListKind) (model.MovieIDList, error)
	Toggle(ctx context.Context, userID string, kind model.ListKind, movieID int64) (*ListMembership, error)
	Replace(ctx context.Context, userID string, kind model.ListKind, movieIDs []int64) (model.MovieIDList, error)
}

type favoriteService struct {
	store       *repository.FavoriteStore
	profileRepo repository.ProfileRepository
	timeout     time.Duration
}

// NewFavoriteService keeps lists in store; profileRepo, when not nil, receives a best-effort copy
// bounded by timeout.
func NewFavoriteService(store *repository.FavoriteStore, profileRepo repository.ProfileRepository, timeout time.Duration) FavoriteService {
	return &favoriteService{store: store, profileRepo: profileRepo, timeout: bestEffortTimeout(timeout)}
}

func (s *favoriteService) List(ctx context.Context, userID string, kind model.ListKind) (model.MovieIDList, error) {
	if err := validateListRequest(userID, kind); err != nil {
		return nil, err
	}
	return s.store.List(ctx, userID, kind)
}

func (s *favoriteService) Toggle(ctx context.Context, userID string, kind model.ListKind, movieID int64) (*ListMembership, error) {
	if err := validateListRequest(userID, kind); err != nil {
		return nil, err
	}
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}

	inList, ids, err := s.store.Toggle(ctx, userID, kind, movieID)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, userID, kind, ids)

	return &ListMembership{MovieID: movieID, InList: inList, MovieIDs: ids}, nil
}

func (s *favoriteService) Replace(ctx context.Context, userID string, kind model.ListKind, movieIDs []int64) (model.MovieIDList, error) {
	if err := validateListRequest(userID, kind); err != nil {
		return nil, err
	}
	for _, id := range movieIDs {
		if err := validateMovieID(id); err != nil {
			return nil, err
		}
	}

	ids, err := s.store.Replace(ctx, userID, kind, movieIDs)
	if err != nil {
		return nil, err
	}
	s.mirror(ctx, userID, kind, ids)
	return ids, nil
}

// mirror copies the list onto the profile row. The profile copy may lag; errors are only logged.
func (s *favoriteService) mirror(ctx context.Context, userID string, kind model.ListKind, ids model.MovieIDList) {
	if s.profileRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.profileRepo.UpdateList(ctx, userID, kind, ids)
	if errors.Is(err, repository.ErrProfileNotFound) {
		if err = s.profileRepo.EnsureExists(ctx, model.NewProfileFromIdentity(model.Identity{ID: userID})); err == nil {
			err = s.profileRepo.UpdateList(ctx, userID, kind, ids)
		}
	}
	if err != nil {
		logger.Warn("Failed to mirror list onto profile", map[string]interface{}{
			"user_id": userID,
			"list":    kind,
			"error":   err.Error(),
		})
	}
}

func validateListRequest(userID string, kind model.ListKind) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if !kind.Valid() {
		return newValidationError("list", "목록 종류가 올바르지 않습니다")
	}
	return nil
}

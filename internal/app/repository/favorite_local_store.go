package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ikkim/reelnote-backend/internal/app/model"
)

// FavoriteStore holds each user's favorites and watchlist as ordered movie id sets.
type FavoriteStore struct {
	kv KeyValueStore
	mu sync.Mutex
}

func NewFavoriteStore(kv KeyValueStore) *FavoriteStore {
	return &FavoriteStore{kv: kv}
}

func listKey(userID string, kind model.ListKind) string {
	return fmt.Sprintf("%s:%s", kind, userID)
}

func (s *FavoriteStore) List(ctx context.Context, userID string, kind model.ListKind) (model.MovieIDList, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidInput, kind)
	}
	ids := model.MovieIDList{}
	if _, err := readJSON(ctx, s.kv, listKey(userID, kind), &ids); err != nil {
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	return ids, nil
}

// Toggle adds movieID when absent and removes it when present.
// It reports whether movieID is in the list afterwards.
func (s *FavoriteStore) Toggle(ctx context.Context, userID string, kind model.ListKind, movieID int64) (bool, model.MovieIDList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.List(ctx, userID, kind)
	if err != nil {
		return false, nil, err
	}

	member := true
	next := make(model.MovieIDList, 0, len(ids)+1)
	for _, id := range ids {
		if id == movieID {
			member = false
			continue
		}
		next = append(next, id)
	}
	if member {
		next = append(next, movieID)
	}

	if err := writeJSON(ctx, s.kv, listKey(userID, kind), next); err != nil {
		return false, nil, fmt.Errorf("write %s: %w", kind, err)
	}
	return member, next, nil
}

// Replace stores movieIDs de-duplicated in first-seen order.
func (s *FavoriteStore) Replace(ctx context.Context, userID string, kind model.ListKind, movieIDs []int64) (model.MovieIDList, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown list %q", ErrInvalidInput, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(movieIDs))
	next := make(model.MovieIDList, 0, len(movieIDs))
	for _, id := range movieIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}

	if err := writeJSON(ctx, s.kv, listKey(userID, kind), next); err != nil {
		return nil, fmt.Errorf("write %s: %w", kind, err)
	}
	return next, nil
}

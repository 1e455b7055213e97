package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/reelnote-backend/internal/app/model"
)

const (
	localCommentsKey      = "comments:all"
	localCommentsMoviePfx = "comments:movie:"
)

// LocalCommentStore keeps comments in a KeyValueStore with the same layout as LocalReviewStore:
// an authoritative collection plus a by-movie index rebuilt on every write.
type LocalCommentStore struct {
	kv  KeyValueStore
	mu  sync.Mutex
	now func() time.Time
}

func NewLocalCommentStore(kv KeyValueStore) *LocalCommentStore {
	return &LocalCommentStore{
		kv:  kv,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func commentIndexKey(movieID int64) string {
	return fmt.Sprintf("%s%d", localCommentsMoviePfx, movieID)
}

func (s *LocalCommentStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Comment, error) {
	var comments []model.Comment
	found, err := readJSON(ctx, s.kv, commentIndexKey(movieID), &comments)
	if err != nil {
		return nil, fmt.Errorf("read local comment index: %w", err)
	}
	if !found {
		all, err := s.loadAll(ctx)
		if err != nil {
			return nil, err
		}
		comments = commentsForMovie(all, movieID)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *LocalCommentStore) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := *comment
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	all = append(all, created)

	if err := s.commit(ctx, all, created.MovieID); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LocalCommentStore) Update(ctx context.Context, commentID, userID, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfComment(all, commentID, userID)
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	all[idx].Content = content
	all[idx].UpdatedAt = s.now()
	updated := all[idx]

	if err := s.commit(ctx, all, updated.MovieID); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LocalCommentStore) Delete(ctx context.Context, commentID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll(ctx)
	if err != nil {
		return err
	}

	idx := indexOfComment(all, commentID, userID)
	if idx < 0 {
		return ErrCommentNotFound
	}
	movieID := all[idx].MovieID
	all = append(all[:idx], all[idx+1:]...)
	return s.commit(ctx, all, movieID)
}

func (s *LocalCommentStore) loadAll(ctx context.Context) ([]model.Comment, error) {
	var all []model.Comment
	if _, err := readJSON(ctx, s.kv, localCommentsKey, &all); err != nil {
		return nil, fmt.Errorf("read local comments: %w", err)
	}
	return all, nil
}

func (s *LocalCommentStore) commit(ctx context.Context, all []model.Comment, movieID int64) error {
	if err := writeJSON(ctx, s.kv, localCommentsKey, all); err != nil {
		return fmt.Errorf("write local comments: %w", err)
	}
	key := commentIndexKey(movieID)
	subset := commentsForMovie(all, movieID)
	if len(subset) == 0 {
		return s.kv.Delete(ctx, key)
	}
	if err := writeJSON(ctx, s.kv, key, subset); err != nil {
		// a stale index must not survive; reads fall back to the collection
		return s.kv.Delete(ctx, key)
	}
	return nil
}

func indexOfComment(comments []model.Comment, commentID, userID string) int {
	for i := range comments {
		if comments[i].ID == commentID && comments[i].UserID == userID {
			return i
		}
	}
	return -1
}

func commentsForMovie(comments []model.Comment, movieID int64) []model.Comment {
	out := make([]model.Comment, 0)
	for _, c := range comments {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	return out
}

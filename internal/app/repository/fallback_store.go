package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/metrics"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

const DefaultPrimaryTimeout = 5 * time.Second

// tierPair runs each operation against the primary tier first and, when that fails for a
// reason another tier could answer differently, replays it against the secondary.
// The primary attempt always finishes or times out before the secondary starts.
type tierPair struct {
	store   string
	timeout time.Duration
}

func attempt[T any](ctx context.Context, p tierPair, operation string, primary, secondary func(context.Context) (T, error), primaryConfigured bool) (T, error) {
	var zero T

	primaryErr := ErrPrimaryNotConfigured
	if primaryConfigured {
		pctx, cancel := context.WithTimeout(ctx, p.timeout)
		result, err := primary(pctx)
		cancel()
		if err == nil {
			return result, nil
		}
		if isTerminal(err) {
			return zero, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		primaryErr = err
	}

	logger.Warn("Primary storage tier failed, using fallback", map[string]interface{}{
		"store":     p.store,
		"operation": operation,
		"error":     primaryErr.Error(),
	})
	metrics.TierFallbacks.WithLabelValues(p.store, operation).Inc()

	result, err := secondary(ctx)
	if err == nil {
		return result, nil
	}
	if isTerminal(err) {
		return zero, err
	}

	logger.Error("All storage tiers failed", err, map[string]interface{}{
		"store":         p.store,
		"operation":     operation,
		"primary_error": primaryErr.Error(),
	})
	metrics.TierExhausted.WithLabelValues(p.store, operation).Inc()
	return zero, fmt.Errorf("%s %s: %w", p.store, operation, errors.Join(ErrAllTiersFailed, primaryErr, err))
}

func normalizeTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultPrimaryTimeout
	}
	return timeout
}

// FallbackReviewStore composes two review tiers behind the ReviewStore interface.
type FallbackReviewStore struct {
	primary   ReviewStore
	secondary ReviewStore
	tiers     tierPair
}

// NewFallbackReviewStore wraps primary with secondary. A nil primary sends every call to secondary.
func NewFallbackReviewStore(primary, secondary ReviewStore, timeout time.Duration) *FallbackReviewStore {
	return &FallbackReviewStore{
		primary:   primary,
		secondary: secondary,
		tiers:     tierPair{store: "reviews", timeout: normalizeTimeout(timeout)},
	}
}

func (f *FallbackReviewStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	return attempt(ctx, f.tiers, "find_by_movie",
		func(ctx context.Context) ([]model.Review, error) {
			return f.primary.FindByMovie(ctx, movieID)
		},
		func(ctx context.Context) ([]model.Review, error) {
			return f.secondary.FindByMovie(ctx, movieID)
		},
		f.primary != nil)
}

func (f *FallbackReviewStore) FindByUser(ctx context.Context, userID string) ([]model.Review, error) {
	return attempt(ctx, f.tiers, "find_by_user",
		func(ctx context.Context) ([]model.Review, error) {
			return f.primary.FindByUser(ctx, userID)
		},
		func(ctx context.Context) ([]model.Review, error) {
			return f.secondary.FindByUser(ctx, userID)
		},
		f.primary != nil)
}

func (f *FallbackReviewStore) FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	return attempt(ctx, f.tiers, "find_by_user_and_movie",
		func(ctx context.Context) (*model.Review, error) {
			return f.primary.FindByUserAndMovie(ctx, userID, movieID)
		},
		func(ctx context.Context) (*model.Review, error) {
			return f.secondary.FindByUserAndMovie(ctx, userID, movieID)
		},
		f.primary != nil)
}

func (f *FallbackReviewStore) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	return attempt(ctx, f.tiers, "upsert",
		func(ctx context.Context) (*model.Review, error) {
			return f.primary.Upsert(ctx, review)
		},
		func(ctx context.Context) (*model.Review, error) {
			return f.secondary.Upsert(ctx, review)
		},
		f.primary != nil)
}

func (f *FallbackReviewStore) Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error) {
	return attempt(ctx, f.tiers, "update",
		func(ctx context.Context) (*model.Review, error) {
			return f.primary.Update(ctx, reviewID, userID, form)
		},
		func(ctx context.Context) (*model.Review, error) {
			return f.secondary.Update(ctx, reviewID, userID, form)
		},
		f.primary != nil)
}

func (f *FallbackReviewStore) Delete(ctx context.Context, reviewID, userID string) error {
	_, err := attempt(ctx, f.tiers, "delete",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, f.primary.Delete(ctx, reviewID, userID)
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, f.secondary.Delete(ctx, reviewID, userID)
		},
		f.primary != nil)
	return err
}

// FallbackCommentStore composes two comment tiers behind the CommentStore interface.
type FallbackCommentStore struct {
	primary   CommentStore
	secondary CommentStore
	tiers     tierPair
}

func NewFallbackCommentStore(primary, secondary CommentStore, timeout time.Duration) *FallbackCommentStore {
	return &FallbackCommentStore{
		primary:   primary,
		secondary: secondary,
		tiers:     tierPair{store: "comments", timeout: normalizeTimeout(timeout)},
	}
}

func (f *FallbackCommentStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Comment, error) {
	return attempt(ctx, f.tiers, "find_by_movie",
		func(ctx context.Context) ([]model.Comment, error) {
			return f.primary.FindByMovie(ctx, movieID)
		},
		func(ctx context.Context) ([]model.Comment, error) {
			return f.secondary.FindByMovie(ctx, movieID)
		},
		f.primary != nil)
}

func (f *FallbackCommentStore) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	return attempt(ctx, f.tiers, "create",
		func(ctx context.Context) (*model.Comment, error) {
			return f.primary.Create(ctx, comment)
		},
		func(ctx context.Context) (*model.Comment, error) {
			return f.secondary.Create(ctx, comment)
		},
		f.primary != nil)
}

func (f *FallbackCommentStore) Update(ctx context.Context, commentID, userID, content string) (*model.Comment, error) {
	return attempt(ctx, f.tiers, "update",
		func(ctx context.Context) (*model.Comment, error) {
			return f.primary.Update(ctx, commentID, userID, content)
		},
		func(ctx context.Context) (*model.Comment, error) {
			return f.secondary.Update(ctx, commentID, userID, content)
		},
		f.primary != nil)
}

func (f *FallbackCommentStore) Delete(ctx context.Context, commentID, userID string) error {
	_, err := attempt(ctx, f.tiers, "delete",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, f.primary.Delete(ctx, commentID, userID)
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, f.secondary.Delete(ctx, commentID, userID)
		},
		f.primary != nil)
	return err
}

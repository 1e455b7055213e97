package repository

import (
	"context"
	"errors"

	"github.com/ikkim/reelnote-backend/internal/app/model"
)

var (
	// ErrReviewNotFound deliberately covers both "no such review" and "not your review".
	ErrReviewNotFound = errors.New("review not found or unauthorized")
	// ErrCommentNotFound deliberately covers both "no such comment" and "not your comment".
	ErrCommentNotFound = errors.New("comment not found or unauthorized")
	// ErrInvalidInput marks requests a tier rejected as malformed.
	ErrInvalidInput = errors.New("invalid input")

	ErrPrimaryNotConfigured = errors.New("primary storage tier is not configured")
	ErrRemoteUnavailable    = errors.New("remote review api unavailable")
	// ErrRemoteRejected marks a request the remote api refused (bad input, auth).
	ErrRemoteRejected = errors.New("remote review api rejected request")
	ErrAllTiersFailed = errors.New("all storage tiers failed")
)

// ReviewStore is the storage capability shared by every review tier.
// Lookups that find nothing succeed with a nil/empty result.
type ReviewStore interface {
	FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error)
	FindByUser(ctx context.Context, userID string) ([]model.Review, error)
	FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error)
	// Upsert inserts the review or, when (user_id, movie_id) already exists, overwrites
	// the mutable fields while keeping the stored id and created_at.
	Upsert(ctx context.Context, review *model.Review) (*model.Review, error)
	Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error)
	Delete(ctx context.Context, reviewID, userID string) error
}

// ReviewImporter accepts reviews carried over from another tier with their own timestamps.
type ReviewImporter interface {
	// Import reports whether the stored row now reflects the given review.
	Import(ctx context.Context, review *model.Review) (bool, error)
}

// CommentStore is the storage capability shared by every comment tier.
type CommentStore interface {
	FindByMovie(ctx context.Context, movieID int64) ([]model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	Update(ctx context.Context, commentID, userID, content string) (*model.Comment, error)
	Delete(ctx context.Context, commentID, userID string) error
}

// isTerminal reports errors that another tier would answer the same way.
func isTerminal(err error) bool {
	return errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrRemoteRejected)
}

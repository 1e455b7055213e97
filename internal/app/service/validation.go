package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
)

const (
	maxReviewTitleLength   = 200
	maxReviewContentLength = 5000
	maxCommentLength       = 2000
	maxProfileNameLength   = 100
	maxBioLength           = 1000
)

var (
	// ErrUnauthenticated is returned by writes that arrive without an author.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrReviewNotFound  = repository.ErrReviewNotFound
	ErrCommentNotFound = repository.ErrCommentNotFound
	ErrAllTiersFailed  = repository.ErrAllTiersFailed
)

// ValidationError 입력 검증 실패 (필드 단위)
type ValidationError struct {
	Field   string
	Message string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func validateMovieID(movieID int64) error {
	if movieID <= 0 {
		return newValidationError("movieId", "영화 ID가 올바르지 않습니다")
	}
	return nil
}

// validateReviewForm checks an already cleaned form.
func validateReviewForm(form model.ReviewForm) error {
	if form.Rating < model.MinRating || form.Rating > model.MaxRating {
		return newValidationError("rating", fmt.Sprintf("평점은 %d~%d 사이여야 합니다", model.MinRating, model.MaxRating))
	}
	if !form.Recommendation.Valid() {
		return newValidationError("recommendation", "추천 등급이 올바르지 않습니다")
	}
	if runeLen(form.Title) > maxReviewTitleLength {
		return newValidationError("title", fmt.Sprintf("제목은 %d자 이하여야 합니다", maxReviewTitleLength))
	}
	if runeLen(form.Content) > maxReviewContentLength {
		return newValidationError("content", fmt.Sprintf("내용은 %d자 이하여야 합니다", maxReviewContentLength))
	}
	return nil
}

func cleanCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", newValidationError("content", "댓글 내용을 입력해주세요")
	}
	if runeLen(content) > maxCommentLength {
		return "", newValidationError("content", fmt.Sprintf("댓글은 %d자 이하여야 합니다", maxCommentLength))
	}
	return content, nil
}

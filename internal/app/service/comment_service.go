package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

var ErrExternalCommentsUnavailable = errors.New("external comment store unavailable")

type CommentService interface {
	GetCommentsForMovie(ctx context.Context, movieID int64) ([]model.Comment, error)
	AddComment(ctx context.Context, movieID int64, movieTitle, content string, author Author) (*model.Comment, error)
	UpdateComment(ctx context.Context, commentID, authorID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID, authorID string) error

	GetExternalComments(ctx context.Context, movieID int64) ([]model.ExternalComment, error)
	AddExternalComment(ctx context.Context, req model.CreateExternalCommentRequest) (*model.ExternalComment, error)
	ImportExternalComments(ctx context.Context, comments []model.ExternalComment) (int, error)
}

type commentService struct {
	store        repository.CommentStore
	externalRepo repository.ExternalCommentRepository
	profiles     ProfileService
}

// NewCommentService accepts a nil externalRepo when no database is configured.
func NewCommentService(store repository.CommentStore, externalRepo repository.ExternalCommentRepository, profiles ProfileService) CommentService {
	return &commentService{
		store:        store,
		externalRepo: externalRepo,
		profiles:     profiles,
	}
}

func (s *commentService) GetCommentsForMovie(ctx context.Context, movieID int64) ([]model.Comment, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}

	comments, err := s.store.FindByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	s.profiles.EnrichComments(ctx, comments)
	return comments, nil
}

func (s *commentService) AddComment(ctx context.Context, movieID int64, movieTitle, content string, author Author) (*model.Comment, error) {
	if author.ID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	content, err := cleanCommentContent(content)
	if err != nil {
		return nil, err
	}

	s.profiles.EnsureProfile(ctx, author.identity())

	created, err := s.store.Create(ctx, &model.Comment{
		UserID:     author.ID,
		MovieID:    movieID,
		MovieTitle: strings.TrimSpace(movieTitle),
		Content:    content,
		UserName:   strings.TrimSpace(author.DisplayName),
	})
	if err != nil {
		logger.Error("Failed to add comment", err, map[string]interface{}{
			"user_id":  author.ID,
			"movie_id": movieID,
		})
		return nil, err
	}
	if created.UserName == "" {
		created.UserName = strings.TrimSpace(author.DisplayName)
	}

	logger.Info("Comment added", map[string]interface{}{
		"comment_id": created.ID,
		"movie_id":   movieID,
	})
	return s.enrichOne(ctx, created), nil
}

func (s *commentService) UpdateComment(ctx context.Context, commentID, authorID, content string) (*model.Comment, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	if commentID == "" {
		return nil, ErrCommentNotFound
	}
	content, err := cleanCommentContent(content)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, commentID, authorID, content)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, updated), nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, authorID string) error {
	if authorID == "" {
		return ErrUnauthenticated
	}
	if commentID == "" {
		return ErrCommentNotFound
	}
	return s.store.Delete(ctx, commentID, authorID)
}

func (s *commentService) GetExternalComments(ctx context.Context, movieID int64) ([]model.ExternalComment, error) {
	if err := validateMovieID(movieID); err != nil {
		return nil, err
	}
	if s.externalRepo == nil {
		return nil, ErrExternalCommentsUnavailable
	}
	comments, err := s.externalRepo.FindByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.ExternalComment{}
	}
	return comments, nil
}

func (s *commentService) AddExternalComment(ctx context.Context, req model.CreateExternalCommentRequest) (*model.ExternalComment, error) {
	comment, err := newExternalComment(req)
	if err != nil {
		return nil, err
	}
	if s.externalRepo == nil {
		return nil, ErrExternalCommentsUnavailable
	}
	if err := s.externalRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info("External comment received", map[string]interface{}{
		"comment_id": comment.ID,
		"movie_id":   comment.MovieID,
	})
	return comment, nil
}

// ImportExternalComments validates every row first and stores none if any is invalid.
func (s *commentService) ImportExternalComments(ctx context.Context, comments []model.ExternalComment) (int, error) {
	if s.externalRepo == nil {
		return 0, ErrExternalCommentsUnavailable
	}

	rows := make([]model.ExternalComment, 0, len(comments))
	for _, c := range comments {
		row, err := newExternalComment(model.CreateExternalCommentRequest{
			MovieID:    c.MovieID,
			MovieTitle: c.MovieTitle,
			Name:       c.Name,
			Email:      c.Email,
			Message:    c.Message,
		})
		if err != nil {
			return 0, err
		}
		row.CreatedAt = c.CreatedAt
		rows = append(rows, *row)
	}
	return s.externalRepo.BulkCreate(ctx, rows)
}

func newExternalComment(req model.CreateExternalCommentRequest) (*model.ExternalComment, error) {
	if err := validateMovieID(req.MovieID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("name", "이름을 입력해주세요")
	}
	message, err := cleanCommentContent(req.Message)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Field = "message"
		}
		return nil, err
	}
	return &model.ExternalComment{
		MovieID:    req.MovieID,
		MovieTitle: strings.TrimSpace(req.MovieTitle),
		Name:       name,
		Email:      strings.TrimSpace(req.Email),
		Message:    message,
	}, nil
}

func (s *commentService) enrichOne(ctx context.Context, comment *model.Comment) *model.Comment {
	batch := []model.Comment{*comment}
	s.profiles.EnrichComments(ctx, batch)
	return &batch[0]
}

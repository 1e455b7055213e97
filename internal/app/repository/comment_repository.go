package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"gorm.io/gorm"
)

// CommentRepository is the relational comment tier.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) FindByMovie(ctx context.Context, movieID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by movie in database", err, map[string]interface{}{
			"movie_id": movieID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	row := *comment
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"user_id":  row.UserID,
			"movie_id": row.MovieID,
		})
		return nil, err
	}

	logger.Debug("Comment created in database", map[string]interface{}{
		"comment_id": row.ID,
		"movie_id":   row.MovieID,
	})
	return &row, nil
}

func (r *CommentRepository) Update(ctx context.Context, commentID, userID, content string) (*model.Comment, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("content", content)
	if result.Error != nil {
		logger.Error("Failed to update comment in database", result.Error, map[string]interface{}{
			"comment_id": commentID,
			"user_id":    userID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommentNotFound
	}

	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, commentID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, userID).
		Delete(&model.Comment{})
	if result.Error != nil {
		logger.Error("Failed to delete comment from database", result.Error, map[string]interface{}{
			"comment_id": commentID,
			"user_id":    userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"gorm.io/gorm"
)

const externalCommentBatchSize = 100

type ExternalCommentRepository interface {
	FindByMovie(ctx context.Context, movieID int64) ([]model.ExternalComment, error)
	Create(ctx context.Context, comment *model.ExternalComment) error
	BulkCreate(ctx context.Context, comments []model.ExternalComment) (int, error)
}

type externalCommentRepository struct {
	db *gorm.DB
}

func NewExternalCommentRepository(db *gorm.DB) ExternalCommentRepository {
	return &externalCommentRepository{db: db}
}

func (r *externalCommentRepository) FindByMovie(ctx context.Context, movieID int64) ([]model.ExternalComment, error) {
	var comments []model.ExternalComment
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find external comments in database", err, map[string]interface{}{
			"movie_id": movieID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *externalCommentRepository) Create(ctx context.Context, comment *model.ExternalComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		logger.Error("Failed to create external comment in database", err, map[string]interface{}{
			"movie_id": comment.MovieID,
		})
		return err
	}
	return nil
}

// BulkCreate inserts the comments in batches inside one transaction.
func (r *externalCommentRepository) BulkCreate(ctx context.Context, comments []model.ExternalComment) (int, error) {
	if len(comments) == 0 {
		return 0, nil
	}
	for i := range comments {
		if comments[i].ID == "" {
			comments[i].ID = uuid.NewString()
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(comments, externalCommentBatchSize).Error
	})
	if err != nil {
		logger.Error("Failed to bulk create external comments", err, map[string]interface{}{
			"count": len(comments),
		})
		return 0, err
	}
	return len(comments), nil
}

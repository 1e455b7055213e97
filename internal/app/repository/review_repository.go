package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mutableReviewColumns are overwritten when an upsert hits an existing (user_id, movie_id).
var mutableReviewColumns = []string{
	"movie_title", "rating", "title", "content", "pros", "cons", "recommendation", "updated_at",
}

var reviewConflictColumns = []clause.Column{{Name: "user_id"}, {Name: "movie_id"}}

// ReviewRepository is the relational review tier.
type ReviewRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *ReviewRepository) FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	logger.Debug("Finding reviews by movie in database", map[string]interface{}{
		"movie_id": movieID,
	})

	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by movie in database", err, map[string]interface{}{
			"movie_id": movieID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByUser(ctx context.Context, userID string) ([]model.Review, error) {
	logger.Debug("Finding reviews by user in database", map[string]interface{}{
		"user_id": userID,
	})

	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to find review by user and movie", err, map[string]interface{}{
			"user_id":  userID,
			"movie_id": movieID,
		})
		return nil, err
	}
	return &review, nil
}

// Upsert performs INSERT ... ON CONFLICT (user_id, movie_id) DO UPDATE as one statement,
// so concurrent writers for the same pair converge on a single row.
func (r *ReviewRepository) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	now := r.now()
	row := *review
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	row.Normalize()

	logger.Debug("Upserting review in database", map[string]interface{}{
		"user_id":  row.UserID,
		"movie_id": row.MovieID,
	})

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   reviewConflictColumns,
		DoUpdates: clause.AssignmentColumns(mutableReviewColumns),
	}).Create(&row).Error
	if err != nil {
		logger.Error("Failed to upsert review in database", err, map[string]interface{}{
			"user_id":  row.UserID,
			"movie_id": row.MovieID,
		})
		return nil, err
	}

	// the row may predate this call, so read back its real id and created_at
	stored, err := r.FindByUserAndMovie(ctx, row.UserID, row.MovieID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("upserted review vanished before read-back")
	}
	return stored, nil
}

// Import keeps the incoming timestamps and only overwrites an existing row that is older.
func (r *ReviewRepository) Import(ctx context.Context, review *model.Review) (bool, error) {
	row := *review
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.CreatedAt = row.CreatedAt.UTC()
	row.UpdatedAt = row.UpdatedAt.UTC()
	row.Normalize()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   reviewConflictColumns,
		DoUpdates: clause.AssignmentColumns(mutableReviewColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "reviews.updated_at < excluded.updated_at"},
		}},
	}).Create(&row)
	if result.Error != nil {
		logger.Error("Failed to import review into database", result.Error, map[string]interface{}{
			"review_id": row.ID,
			"user_id":   row.UserID,
			"movie_id":  row.MovieID,
		})
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *ReviewRepository) Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error) {
	var patch model.Review
	patch.Apply(form)

	result := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Updates(map[string]interface{}{
			"rating":         patch.Rating,
			"title":          patch.Title,
			"content":        patch.Content,
			"pros":           patch.Pros,
			"cons":           patch.Cons,
			"recommendation": patch.Recommendation,
			"updated_at":     r.now(),
		})
	if result.Error != nil {
		logger.Error("Failed to update review in database", result.Error, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}

	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID, userID string) error {
	logger.Debug("Deleting review from database", map[string]interface{}{
		"review_id": reviewID,
		"user_id":   userID,
	})

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&model.Review{})
	if result.Error != nil {
		logger.Error("Failed to delete review from database", result.Error, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

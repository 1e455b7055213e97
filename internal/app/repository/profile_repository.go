package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = errors.New("profile not found")

var editableProfileColumns = []string{"email", "full_name", "avatar_url", "username", "bio", "updated_at"}

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.Profile, error)
	// EnsureExists inserts the profile unless one with the same id is already stored.
	EnsureExists(ctx context.Context, profile *model.Profile) error
	Save(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	UpdateList(ctx context.Context, id string, kind model.ListKind, movieIDs model.MovieIDList) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to find profile by ID in database", err, map[string]interface{}{
			"profile_id": id,
		})
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	profiles := make(map[string]*model.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	var rows []model.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		logger.Error("Failed to find profiles by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	for i := range rows {
		profiles[rows[i].ID] = &rows[i]
	}
	return profiles, nil
}

func (r *profileRepository) EnsureExists(ctx context.Context, profile *model.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
	if err != nil {
		logger.Error("Failed to ensure profile in database", err, map[string]interface{}{
			"profile_id": profile.ID,
		})
		return err
	}
	return nil
}

// Save upserts the editable columns; favorites and watchlist are left to UpdateList.
func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	logger.Debug("Saving profile in database", map[string]interface{}{
		"profile_id": profile.ID,
	})

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(editableProfileColumns),
	}).Create(profile).Error
	if err != nil {
		logger.Error("Failed to save profile in database", err, map[string]interface{}{
			"profile_id": profile.ID,
		})
		return nil, err
	}

	stored, err := r.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrProfileNotFound
	}
	return stored, nil
}

func (r *profileRepository) UpdateList(ctx context.Context, id string, kind model.ListKind, movieIDs model.MovieIDList) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown list %q", ErrInvalidInput, kind)
	}
	if movieIDs == nil {
		movieIDs = model.MovieIDList{}
	}

	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Update(string(kind), movieIDs)
	if result.Error != nil {
		logger.Error("Failed to update profile list in database", result.Error, map[string]interface{}{
			"profile_id": id,
			"list":       kind,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

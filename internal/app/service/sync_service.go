package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/metrics"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

// LocalReviewSource is the part of the local tier the migration drains.
type LocalReviewSource interface {
	All(ctx context.Context) ([]model.Review, error)
	// DeleteIfUnchanged removes a migrated row unless it was rewritten after updatedAt was read.
	DeleteIfUnchanged(ctx context.Context, reviewID, userID string, updatedAt time.Time) (bool, error)
}

// MigrationReport 로컬 → DB 이관 결과
type MigrationReport struct {
	Migrated  int `json:"migrated"`  // DB에 반영됨
	Stale     int `json:"stale"`     // DB 쪽이 더 최신이라 버려짐
	Requeued  int `json:"requeued"`  // 이관 중 로컬에서 다시 수정되어 다음 실행으로 넘김
	Remaining int `json:"remaining"` // 아직 로컬에 남아있음
}

type SyncService interface {
	MigrateLocalReviews(ctx context.Context) (*MigrationReport, error)
}

type syncService struct {
	local    LocalReviewSource
	importer repository.ReviewImporter
}

func NewSyncService(local LocalReviewSource, importer repository.ReviewImporter) SyncService {
	return &syncService{local: local, importer: importer}
}

// MigrateLocalReviews moves reviews written to the local tier during an outage into the relational tier,
// oldest first. The newer updated_at wins on either side. A row rewritten locally while it was being
// imported stays in the local tier for the next run. It stops at the first relational failure,
// leaving the rest for the next run.
func (s *syncService) MigrateLocalReviews(ctx context.Context) (*MigrationReport, error) {
	reviews, err := s.local.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local reviews: %w", err)
	}

	report := &MigrationReport{Remaining: len(reviews)}
	if len(reviews) == 0 {
		return report, nil
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].UpdatedAt.Before(reviews[j].UpdatedAt)
	})

	for i := range reviews {
		review := reviews[i]

		applied, err := s.importer.Import(ctx, &review)
		if err != nil {
			metrics.TierMigrated.WithLabelValues("failed").Inc()
			logger.Warn("Relational tier still unavailable, pausing migration", map[string]interface{}{
				"review_id": review.ID,
				"migrated":  report.Migrated,
				"remaining": report.Remaining,
				"error":     err.Error(),
			})
			return report, err
		}

		removed, err := s.local.DeleteIfUnchanged(ctx, review.ID, review.UserID, review.UpdatedAt)
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			// deleted locally mid-run; nothing left to drain
		case err != nil:
			logger.Error("Failed to remove migrated review from local tier", err, map[string]interface{}{
				"review_id": review.ID,
			})
			return report, err
		case !removed:
			report.Requeued++
			metrics.TierMigrated.WithLabelValues("requeued").Inc()
			logger.Info("Local review changed during migration, keeping it for the next run", map[string]interface{}{
				"review_id": review.ID,
			})
			continue
		}

		report.Remaining--
		if applied {
			report.Migrated++
			metrics.TierMigrated.WithLabelValues("migrated").Inc()
		} else {
			report.Stale++
			metrics.TierMigrated.WithLabelValues("stale").Inc()
		}
	}

	logger.Info("Local reviews migrated to relational tier", map[string]interface{}{
		"migrated": report.Migrated,
		"stale":    report.Stale,
		"requeued": report.Requeued,
	})
	return report, nil
}

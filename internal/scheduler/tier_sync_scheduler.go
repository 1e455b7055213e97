package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/service"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const migrationTimeout = 2 * time.Minute

// TierSyncScheduler 로컬 저장소에 쌓인 리뷰를 DB로 옮기는 스케줄러
type TierSyncScheduler struct {
	cron        *cron.Cron
	syncService service.SyncService
	schedule    string

	mu      sync.Mutex // 이전 실행이 끝나기 전에는 다음 실행을 건너뜀
	running bool
}

// NewTierSyncScheduler 스케줄러 생성 (schedule: cron 표현식 또는 "@every 5m")
func NewTierSyncScheduler(syncService service.SyncService, schedule string) *TierSyncScheduler {
	return &TierSyncScheduler{
		cron:        cron.New(),
		syncService: syncService,
		schedule:    schedule,
	}
}

// Start 스케줄러 시작
func (s *TierSyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for tier sync", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Tier sync scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce drains the local tier once. Overlapping runs are skipped.
func (s *TierSyncScheduler) RunOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Debug("Tier sync already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	report, err := s.syncService.MigrateLocalReviews(ctx)
	if err != nil {
		logger.Warn("Tier sync incomplete", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if report.Migrated+report.Stale+report.Requeued > 0 {
		logger.Info("Tier sync finished", map[string]interface{}{
			"migrated": report.Migrated,
			"stale":    report.Stale,
			"requeued": report.Requeued,
		})
	}
}

// Stop 스케줄러 중지 (진행 중인 작업은 끝날 때까지 기다림)
func (s *TierSyncScheduler) Stop() {
	logger.Info("Stopping tier sync scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Tier sync scheduler stopped")
}

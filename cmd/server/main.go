package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/reelnote-backend/config"
	"github.com/ikkim/reelnote-backend/internal/app/controller"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	"github.com/ikkim/reelnote-backend/internal/db"
	"github.com/ikkim/reelnote-backend/internal/middleware"
	"github.com/ikkim/reelnote-backend/internal/router"
	"github.com/ikkim/reelnote-backend/internal/scheduler"
	"github.com/ikkim/reelnote-backend/internal/storage"
	"github.com/ikkim/reelnote-backend/pkg/logger"
	"github.com/ikkim/reelnote-backend/pkg/redis"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting ReelNote Backend Server", map[string]interface{}{
		"environment":     cfg.Server.Environment,
		"port":            cfg.Server.Port,
		"log_level":       logLevel,
		"review_backend":  cfg.Review.Backend,
		"local_driver":    cfg.LocalStore.Driver,
		"primary_timeout": cfg.Review.PrimaryTimeout.String(),
	})

	// Relational tier is optional; without it every store falls through to the local tier
	conn := openDatabase(cfg)
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Local tier
	kv := openLocalStore(cfg)
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	localReviews := repository.NewLocalReviewStore(kv)
	localComments := repository.NewLocalCommentStore(kv)
	favoriteStore := repository.NewFavoriteStore(kv)

	// Initialize repositories
	var (
		profileRepo     repository.ProfileRepository
		externalRepo    repository.ExternalCommentRepository
		reviewRepo      *repository.ReviewRepository
		primaryReviews  repository.ReviewStore
		primaryComments repository.CommentStore
	)
	if conn != nil {
		profileRepo = repository.NewProfileRepository(conn)
		externalRepo = repository.NewExternalCommentRepository(conn)
		primaryComments = repository.NewCommentRepository(conn)
	}

	switch cfg.Review.Backend {
	case config.BackendRelational:
		if conn != nil {
			reviewRepo = repository.NewReviewRepository(conn)
			primaryReviews = reviewRepo
		}
	case config.BackendRemote:
		remote, err := repository.NewRemoteReviewStore(cfg.Review.RemoteBaseURL, nil)
		if err != nil {
			logger.Fatal("Failed to configure remote review store", err)
		}
		primaryReviews = remote
		// the remote service owns profiles and their names
		profileRepo = nil
	case config.BackendLocal:
	}

	reviewStore := repository.NewFallbackReviewStore(primaryReviews, localReviews, cfg.Review.PrimaryTimeout)
	commentStore := repository.NewFallbackCommentStore(primaryComments, localComments, cfg.Review.PrimaryTimeout)

	// Initialize services
	profileService := service.NewProfileService(profileRepo, cfg.Review.PrimaryTimeout)
	reviewService := service.NewReviewService(reviewStore, profileService)
	commentService := service.NewCommentService(commentStore, externalRepo, profileService)
	favoriteService := service.NewFavoriteService(favoriteStore, profileRepo, cfg.Review.PrimaryTimeout)
	exportService := service.NewExportService(reviewService)

	// Initialize controllers
	reviewController := controller.NewReviewController(reviewService, exportService)
	commentController := controller.NewCommentController(commentService)
	profileController := controller.NewProfileController(profileService)
	favoriteController := controller.NewFavoriteController(favoriteService)

	var uploadController *controller.UploadController
	if cfg.S3.Enabled() {
		uploadController = controller.NewUploadController(storage.NewS3Storage(context.Background(), cfg.S3))
	} else {
		logger.Warn("AWS_S3_BUCKET not set, avatar uploads disabled")
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Local → relational migration
	if reviewRepo != nil && cfg.Review.SyncSchedule != "" {
		tierSync := scheduler.NewTierSyncScheduler(service.NewSyncService(localReviews, reviewRepo), cfg.Review.SyncSchedule)
		if err := tierSync.Start(); err != nil {
			logger.Warn("Tier sync disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer tierSync.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(
		reviewController,
		commentController,
		profileController,
		favoriteController,
		uploadController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

func openDatabase(cfg *config.Config) *gorm.DB {
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Warn("Relational tier unavailable, continuing with local tier", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	return db.GetDB()
}

func openLocalStore(cfg *config.Config) repository.KeyValueStore {
	if cfg.LocalStore.Driver != config.LocalDriverRedis {
		return repository.NewMemoryKeyValueStore()
	}
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, local tier falls back to process memory", map[string]interface{}{
			"error": err.Error(),
		})
		return repository.NewMemoryKeyValueStore()
	}
	return redis.NewStore(redis.GetClient())
}

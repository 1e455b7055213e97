package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/config"
	"github.com/ikkim/reelnote-backend/internal/app/controller"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/metrics"
	"github.com/ikkim/reelnote-backend/internal/middleware"
)

type Router struct {
	reviewController   *controller.ReviewController
	commentController  *controller.CommentController
	profileController  *controller.ProfileController
	favoriteController *controller.FavoriteController
	uploadController   *controller.UploadController // nil when no bucket is configured
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	reviewController *controller.ReviewController,
	commentController *controller.CommentController,
	profileController *controller.ProfileController,
	favoriteController *controller.FavoriteController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		reviewController:   reviewController,
		commentController:  commentController,
		profileController:  profileController,
		favoriteController: favoriteController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "ReelNote API is running",
			"backend": r.config.Review.Backend,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 세션 필수 설정이면 모든 쓰기 요청에 검증된 토큰 요구
	writeSession := func(c *gin.Context) { c.Next() }
	if r.config.JWT.RequireVerifiedSession {
		writeSession = r.authMiddleware.Authenticate()
	}

	api := router.Group("/api")
	api.Use(r.authMiddleware.OptionalAuthenticate())
	{
		reviews := api.Group("/reviews")
		{
			reviews.GET("/movie/:movieId", r.reviewController.GetMovieReviews)
			reviews.GET("/movie/:movieId/stats", r.reviewController.GetMovieStats)
			reviews.GET("/movie/:movieId/user/:userId", r.reviewController.GetUserReviewForMovie)
			reviews.GET("/user/:userId", r.reviewController.GetUserReviews)
			reviews.GET("/user/:userId/export", r.reviewController.ExportUserReviews)
			reviews.POST("", writeSession, r.reviewController.UpsertReview)
			reviews.PUT("/:reviewId", writeSession, r.reviewController.UpdateReview)
			reviews.DELETE("/:reviewId", writeSession, r.reviewController.DeleteReview)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/movie/:movieId", r.commentController.GetMovieComments)
			comments.POST("", writeSession, r.commentController.CreateComment)
			comments.PUT("/:commentId", writeSession, r.commentController.UpdateComment)
			comments.DELETE("/:commentId", writeSession, r.commentController.DeleteComment)
		}

		external := api.Group("/external-comments")
		{
			external.GET("/movie/:movieId", r.commentController.GetExternalComments)
			external.POST("", r.commentController.CreateExternalComment)
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("/:userId", r.profileController.GetProfile)
			profiles.PUT("/:userId", writeSession, r.profileController.UpdateProfile)
		}

		users := api.Group("/users/:userId")
		for _, kind := range []model.ListKind{model.ListFavorites, model.ListWatchlist} {
			list := "/" + string(kind)
			users.GET(list, r.favoriteController.List(kind))
			users.PUT(list, writeSession, r.favoriteController.Replace(kind))
			users.POST(list+"/:movieId/toggle", writeSession, r.favoriteController.Toggle(kind))
		}

		if r.uploadController != nil {
			uploads := api.Group("/uploads")
			uploads.POST("/avatar", writeSession, r.uploadController.PresignAvatar)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReviewController struct {
	reviewService service.ReviewService
	exportService service.ExportService
}

func NewReviewController(reviewService service.ReviewService, exportService service.ExportService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		exportService: exportService,
	}
}

// GetMovieReviews 영화별 리뷰 목록 조회
// GET /api/reviews/movie/:movieId
func (ctrl *ReviewController) GetMovieReviews(c *gin.Context) {
	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetReviewsForMovie(requestContext(c), movieID)
	if err != nil {
		respondError(c, err, "fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetUserReviewForMovie 사용자의 특정 영화 리뷰 조회 (없으면 null)
// GET /api/reviews/movie/:movieId/user/:userId
func (ctrl *ReviewController) GetUserReviewForMovie(c *gin.Context) {
	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.GetUserReviewForMovie(requestContext(c), c.Param("userId"), movieID)
	if err != nil {
		respondError(c, err, "fetch review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetUserReviews 사용자의 리뷰 목록 조회
// GET /api/reviews/user/:userId
func (ctrl *ReviewController) GetUserReviews(c *gin.Context) {
	reviews, err := ctrl.reviewService.GetUserReviews(requestContext(c), c.Param("userId"))
	if err != nil {
		respondError(c, err, "fetch reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// UpsertReview 리뷰 작성 (이미 작성한 리뷰가 있으면 수정)
// POST /api/reviews
func (ctrl *ReviewController) UpsertReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	author, ok := resolveAuthor(c, req.UserID, req.UserName)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.CreateOrUpdateReview(requestContext(c), req.MovieID, req.MovieTitle, req.Form(), author)
	if err != nil {
		respondError(c, err, "save review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview 리뷰 수정 (작성자만)
// PUT /api/reviews/:reviewId
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	author, ok := resolveAuthor(c, req.UserID, "")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.UpdateReview(requestContext(c), c.Param("reviewId"), author.ID, req.Form())
	if err != nil {
		respondError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview 리뷰 삭제 (작성자만)
// DELETE /api/reviews/:reviewId
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	var req model.OwnerRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	author, ok := resolveAuthor(c, req.UserID, "")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(requestContext(c), c.Param("reviewId"), author.ID); err != nil {
		respondError(c, err, "delete review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMovieStats 영화별 리뷰 통계
// GET /api/reviews/movie/:movieId/stats
func (ctrl *ReviewController) GetMovieStats(c *gin.Context) {
	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	stats, err := ctrl.reviewService.GetMovieStats(requestContext(c), movieID)
	if err != nil {
		respondError(c, err, "fetch review stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportUserReviews 사용자 리뷰 엑셀 다운로드
// GET /api/reviews/user/:userId/export
func (ctrl *ReviewController) ExportUserReviews(c *gin.Context) {
	userID := c.Param("userId")

	data, err := ctrl.exportService.ExportUserReviews(requestContext(c), userID)
	if err != nil {
		respondError(c, err, "export reviews")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reviews-%s.xlsx"`, userID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// bindOptionalJSON accepts an empty body; a session alone can identify the owner.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return false
	}
	return true
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// GetMovieComments 영화별 댓글 목록
// GET /api/comments/movie/:movieId
func (ctrl *CommentController) GetMovieComments(c *gin.Context) {
	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	comments, err := ctrl.commentService.GetCommentsForMovie(requestContext(c), movieID)
	if err != nil {
		respondError(c, err, "fetch comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment 댓글 작성
// POST /api/comments
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid comment request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	author, ok := resolveAuthor(c, req.UserID, req.UserName)
	if !ok {
		return
	}

	comment, err := ctrl.commentService.AddComment(requestContext(c), req.MovieID, req.MovieTitle, req.Content, author)
	if err != nil {
		respondError(c, err, "create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UpdateComment 댓글 수정 (작성자만)
// PUT /api/comments/:commentId
func (ctrl *CommentController) UpdateComment(c *gin.Context) {
	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	author, ok := resolveAuthor(c, req.UserID, "")
	if !ok {
		return
	}

	comment, err := ctrl.commentService.UpdateComment(requestContext(c), c.Param("commentId"), author.ID, req.Content)
	if err != nil {
		respondError(c, err, "update comment")
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment 댓글 삭제 (작성자만)
// DELETE /api/comments/:commentId
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	var req model.OwnerRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	author, ok := resolveAuthor(c, req.UserID, "")
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(requestContext(c), c.Param("commentId"), author.ID); err != nil {
		respondError(c, err, "delete comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetExternalComments 외부 방문자 코멘트 목록
// GET /api/external-comments/movie/:movieId
func (ctrl *CommentController) GetExternalComments(c *gin.Context) {
	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	comments, err := ctrl.commentService.GetExternalComments(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err, "fetch comments")
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateExternalComment 외부 방문자 코멘트 작성 (로그인 불필요)
// POST /api/external-comments
func (ctrl *CommentController) CreateExternalComment(c *gin.Context) {
	var req model.CreateExternalCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	comment, err := ctrl.commentService.AddExternalComment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

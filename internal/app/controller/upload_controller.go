package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/internal/middleware"
	"github.com/ikkim/reelnote-backend/internal/storage"
)

// AvatarPresigner issues direct-to-bucket upload URLs.
type AvatarPresigner interface {
	PresignAvatarUpload(ctx context.Context, userID, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage AvatarPresigner
}

func NewUploadController(storage AvatarPresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type AvatarUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	UserID      string `json:"userId"`
}

// PresignAvatar 프로필 이미지 업로드 URL 발급
// POST /api/uploads/avatar
func (ctrl *UploadController) PresignAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	author, ok := resolveAuthor(c, req.UserID, "")
	if !ok {
		return
	}
	if author.ID == "" {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다 (JPEG, PNG, GIF, WEBP)")
		return
	}

	response, err := ctrl.storage.PresignAvatarUpload(c.Request.Context(), author.ID, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "업로드 URL 발급에 실패했습니다")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"user_id": author.ID,
		"key":     response.Key,
	})
	c.JSON(http.StatusOK, response)
}

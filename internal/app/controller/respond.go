package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/internal/middleware"
)

// respondError 서비스 에러를 HTTP 응답으로 변환
func respondError(c *gin.Context, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.BadRequest(c, validationCode(verr.Field), verr.Message)
	case errors.Is(err, service.ErrUnauthenticated):
		apperrors.Unauthorized(c, "")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없거나 권한이 없습니다")
	case errors.Is(err, service.ErrCommentNotFound):
		apperrors.NotFound(c, apperrors.CommentNotFound, "댓글을 찾을 수 없거나 권한이 없습니다")
	case errors.Is(err, service.ErrProfileNotFound):
		apperrors.NotFound(c, apperrors.ProfileNotFound, "프로필을 찾을 수 없습니다")
	case errors.Is(err, repository.ErrRemoteRejected):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "요청이 거부되었습니다")
	case errors.Is(err, service.ErrAllTiersFailed):
		apperrors.StorageFailure(c, "")
	case errors.Is(err, service.ErrProfileStoreUnavailable),
		errors.Is(err, service.ErrExternalCommentsUnavailable):
		apperrors.StorageFailure(c, "저장소가 설정되지 않았습니다")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
	}
}

func validationCode(field string) string {
	switch field {
	case "rating":
		return apperrors.ReviewInvalidRating
	case "recommendation":
		return apperrors.ReviewInvalidRecommendation
	case "movieId":
		return apperrors.ValidationInvalidID
	default:
		return apperrors.ValidationInvalidInput
	}
}

// parseMovieID 경로의 영화 ID 파싱 (실패 시 400 응답)
func parseMovieID(c *gin.Context, param string) (int64, bool) {
	movieID, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || movieID <= 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 영화 ID입니다")
		return 0, false
	}
	return movieID, true
}

// resolveAuthor picks the acting user. A verified session always wins; a body userId that
// disagrees with it is rejected. Without a session the body userId is trusted as-is.
func resolveAuthor(c *gin.Context, bodyUserID, displayName string) (service.Author, bool) {
	bodyUserID = strings.TrimSpace(bodyUserID)

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return service.Author{ID: bodyUserID, DisplayName: displayName}, true
	}

	if bodyUserID != "" && bodyUserID != identity.ID {
		middleware.GetLoggerFromContext(c).Warn("Body userId does not match session", map[string]interface{}{
			"session_user_id": identity.ID,
			"body_user_id":    bodyUserID,
		})
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzUserMismatch, "요청한 사용자와 로그인한 사용자가 다릅니다")
		return service.Author{}, false
	}

	if strings.TrimSpace(displayName) == "" {
		displayName = identity.DisplayName()
	}
	return service.Author{ID: identity.ID, DisplayName: displayName, Identity: identity}, true
}

// requireSameUser guards per-user resources addressed by path.
func requireSameUser(c *gin.Context, pathUserID string) bool {
	identity, ok := middleware.GetIdentity(c)
	if !ok || identity.ID == pathUserID {
		return true
	}
	apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인의 정보만 수정할 수 있습니다")
	return false
}

// requestContext forwards the session token so the remote tier can act on the user's behalf.
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if token := middleware.GetBearerToken(c); token != "" {
		ctx = repository.WithBearerToken(ctx, token)
	}
	return ctx
}

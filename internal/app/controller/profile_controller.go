package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/internal/middleware"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// GetProfile 프로필 조회
// GET /api/profiles/:userId
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	profile, err := ctrl.profileService.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "fetch profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 프로필 저장 (없으면 생성)
// PUT /api/profiles/:userId
func (ctrl *ProfileController) UpdateProfile(c *gin.Context) {
	userID := c.Param("userId")
	if !requireSameUser(c, userID) {
		return
	}

	var edit model.ProfileEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	identity := model.Identity{ID: userID}
	if session, ok := middleware.GetIdentity(c); ok {
		identity = *session
	}

	profile, err := ctrl.profileService.SaveProfile(c.Request.Context(), identity, edit)
	if err != nil {
		respondError(c, err, "save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

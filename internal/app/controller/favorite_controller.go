package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

// List 즐겨찾기/볼 영화 목록 조회
// GET /api/users/:userId/favorites, /api/users/:userId/watchlist
func (ctrl *FavoriteController) List(kind model.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := ctrl.favoriteService.List(c.Request.Context(), c.Param("userId"), kind)
		if err != nil {
			respondError(c, err, "fetch list")
			return
		}
		c.JSON(http.StatusOK, gin.H{"movie_ids": ids})
	}
}

// Replace 목록 전체 교체
// PUT /api/users/:userId/favorites, /api/users/:userId/watchlist
func (ctrl *FavoriteController) Replace(kind model.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !requireSameUser(c, userID) {
			return
		}

		var req model.ReplaceListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
			return
		}

		ids, err := ctrl.favoriteService.Replace(c.Request.Context(), userID, kind, req.MovieIDs)
		if err != nil {
			respondError(c, err, "update list")
			return
		}
		c.JSON(http.StatusOK, gin.H{"movie_ids": ids})
	}
}

// Toggle 목록에 영화 추가/제거
// POST /api/users/:userId/favorites/:movieId/toggle, /api/users/:userId/watchlist/:movieId/toggle
func (ctrl *FavoriteController) Toggle(kind model.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !requireSameUser(c, userID) {
			return
		}
		movieID, ok := parseMovieID(c, "movieId")
		if !ok {
			return
		}

		membership, err := ctrl.favoriteService.Toggle(c.Request.Context(), userID, kind, movieID)
		if err != nil {
			respondError(c, err, "update list")
			return
		}
		c.JSON(http.StatusOK, membership)
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	apperrors "github.com/ikkim/reelnote-backend/internal/errors"
	"github.com/ikkim/reelnote-backend/pkg/util"
)

// Context keys for session information
const (
	IdentityKey    = "identity"
	BearerTokenKey = "bearer_token"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the session token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			// 토큰 만료 에러인 경우 명확히 표시
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "로그인이 만료되었습니다")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "유효하지 않은 인증 토큰입니다")
			}
			c.Abort()
			return
		}

		setSession(c, claims, token)
		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": claims.UserID(),
		})

		c.Next()
	}
}

// OptionalAuthenticate validates the session token if present (optional)
// - If token is present and valid: sets identity in context
// - If token is missing or invalid: continues without identity
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok || m.jwtSecret == "" {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			// Invalid or expired token - continue as guest
			log.Debug("Token validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		setSession(c, claims, token)
		log.Debug("User authenticated successfully (optional)", map[string]interface{}{
			"user_id": claims.UserID(),
		})

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func setSession(c *gin.Context, claims *util.Claims, token string) {
	c.Set(IdentityKey, &model.Identity{
		ID:        claims.UserID(),
		Email:     claims.Email,
		FullName:  claims.Name,
		Username:  claims.PreferredUsername,
		AvatarURL: claims.Picture,
	})
	c.Set(BearerTokenKey, token)
}

// GetIdentity extracts the verified session identity from context
func GetIdentity(c *gin.Context) (*model.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*model.Identity)
	return identity, ok && identity != nil
}

// GetBearerToken returns the verified session token, if any
func GetBearerToken(c *gin.Context) string {
	return c.GetString(BearerTokenKey)
}

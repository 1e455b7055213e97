package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/reelnote-backend/config"
	"github.com/ikkim/reelnote-backend/internal/app/controller"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	"github.com/ikkim/reelnote-backend/internal/db"
	"github.com/ikkim/reelnote-backend/internal/middleware"
	"github.com/ikkim/reelnote-backend/internal/router"
	"github.com/ikkim/reelnote-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "integration-test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

// setupIntegrationTest wires the server like cmd/server does, with sqlite as the
// relational tier and process memory as the local tier.
func setupIntegrationTest(t *testing.T, requireSession bool) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	kv := repository.NewMemoryKeyValueStore()
	profileRepo := repository.NewProfileRepository(testDB)

	reviewStore := repository.NewFallbackReviewStore(repository.NewReviewRepository(testDB), repository.NewLocalReviewStore(kv), time.Second)
	commentStore := repository.NewFallbackCommentStore(repository.NewCommentRepository(testDB), repository.NewLocalCommentStore(kv), time.Second)

	profileService := service.NewProfileService(profileRepo, 0)
	reviewService := service.NewReviewService(reviewStore, profileService)
	commentService := service.NewCommentService(commentStore, repository.NewExternalCommentRepository(testDB), profileService)
	favoriteService := service.NewFavoriteService(repository.NewFavoriteStore(kv), profileRepo, 0)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		Review: config.ReviewConfig{Backend: config.BackendRelational},
		JWT:    config.JWTConfig{Secret: testJWTSecret, RequireVerifiedSession: requireSession},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	r := router.NewRouter(
		controller.NewReviewController(reviewService, service.NewExportService(reviewService)),
		controller.NewCommentController(commentService),
		controller.NewProfileController(profileService),
		controller.NewFavoriteController(favoriteService),
		nil,
		middleware.NewAuthMiddleware(testJWTSecret),
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func sessionToken(t *testing.T, userID, name string) string {
	token, err := util.GenerateToken(util.SessionUser{
		ID:    userID,
		Email: userID + "@example.com",
		Name:  name,
	}, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestCompleteReviewJourney(t *testing.T) {
	ts := setupIntegrationTest(t, false)
	token := sessionToken(t, "user-1", "Joseph Cooper")

	t.Log("Step 1: Write a review with a verified session")
	w := ts.do(t, http.MethodPost, "/api/reviews", token, map[string]interface{}{
		"movieId":        157336,
		"movieTitle":     "Interstellar",
		"rating":         10,
		"title":          "Stay",
		"content":        "The bookshelf scene.",
		"pros":           []string{"score"},
		"recommendation": "highly_recommend",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var review model.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, "user-1", review.UserID)
	assert.Equal(t, "Joseph Cooper", review.UserName)

	t.Log("Step 2: Profile was created from the session")
	w = ts.do(t, http.MethodGet, "/api/profiles/user-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile model.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Joseph Cooper", profile.FullName)
	assert.Equal(t, "user-1@example.com", profile.Email)

	t.Log("Step 3: Anyone can read the movie's reviews")
	w = ts.do(t, http.MethodGet, "/api/reviews/movie/157336", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []model.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Joseph Cooper", reviews[0].UserName)

	t.Log("Step 4: Comment and favorite")
	w = ts.do(t, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId": 157336,
		"content": "Murph!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/users/user-1/favorites/157336/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Log("Step 5: Another session cannot delete the review")
	other := sessionToken(t, "user-2", "Mann")
	w = ts.do(t, http.MethodDelete, "/api/reviews/"+review.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/reviews/"+review.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireVerifiedSession(t *testing.T) {
	ts := setupIntegrationTest(t, true)

	body := map[string]interface{}{"movieId": 157336, "rating": 7, "userId": "user-1"}

	w := ts.do(t, http.MethodPost, "/api/reviews", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/reviews", sessionToken(t, "user-1", "Cooper"), body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// reads stay public
	w = ts.do(t, http.MethodGet, "/api/reviews/movie/157336", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthMetricsAndCORS(t *testing.T) {
	ts := setupIntegrationTest(t, false)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "relational")

	ts.do(t, http.MethodGet, "/api/reviews/movie/157336", "", nil)
	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reelnote_http_request_duration_seconds")

	req := httptest.NewRequest(http.MethodOptions, "/api/reviews", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

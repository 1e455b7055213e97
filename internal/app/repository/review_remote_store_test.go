package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRemoteStore(t *testing.T, handler http.Handler) *RemoteReviewStore {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewRemoteReviewStore(server.URL+"/", server.Client())
	require.NoError(t, err)
	return store
}

func writeJSONResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNewRemoteReviewStore_RequiresBaseURL(t *testing.T) {
	_, err := NewRemoteReviewStore("  ", nil)
	assert.ErrorIs(t, err, ErrPrimaryNotConfigured)
}

func TestRemoteReviewStore_FindByMovie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews/movie/{movieId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "157336", r.PathValue("movieId"))
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		writeJSONResponse(w, http.StatusOK, []map[string]interface{}{
			{"id": "r1", "user_id": "u1", "movie_id": 157336, "rating": 8, "user_name": "Kim", "pros": nil},
		})
	})
	store := setupRemoteStore(t, mux)

	ctx := WithBearerToken(context.Background(), "session-token")
	reviews, err := store.FindByMovie(ctx, 157336)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Kim", reviews[0].UserName)
	assert.Equal(t, model.StringList{}, reviews[0].Pros)
}

func TestRemoteReviewStore_FindByUserAndMovieNull(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews/movie/{movieId}/user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u 1", r.PathValue("userId"))
		writeJSONResponse(w, http.StatusOK, nil)
	})
	store := setupRemoteStore(t, mux)

	review, err := store.FindByUserAndMovie(context.Background(), "u 1", 42)
	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestRemoteReviewStore_UpsertSendsCamelCaseBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reviews", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(157336), body["movieId"])
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, "Kim", body["userName"])
		assert.Equal(t, []interface{}{}, body["cons"])
		writeJSONResponse(w, http.StatusOK, map[string]interface{}{
			"id": "r1", "user_id": "u1", "movie_id": 157336, "rating": 8,
		})
	})
	store := setupRemoteStore(t, mux)

	review := newReview("u1", 157336, 8)
	review.UserName = "Kim"
	saved, err := store.Upsert(context.Background(), review)
	require.NoError(t, err)
	assert.Equal(t, "r1", saved.ID)
}

func TestRemoteReviewStore_StatusMapping(t *testing.T) {
	deleteReview := func(store *RemoteReviewStore) error {
		return store.Delete(context.Background(), "r1", "u1")
	}
	updateReview := func(store *RemoteReviewStore) error {
		_, err := store.Update(context.Background(), "r1", "u1", model.ReviewForm{Rating: 5})
		return err
	}
	listMovie := func(store *RemoteReviewStore) error {
		_, err := store.FindByMovie(context.Background(), 1)
		return err
	}
	upsertReview := func(store *RemoteReviewStore) error {
		_, err := store.Upsert(context.Background(), &model.Review{UserID: "u1", MovieID: 1, Rating: 5})
		return err
	}

	tests := []struct {
		name   string
		status int
		call   func(*RemoteReviewStore) error
		want   error
	}{
		{"delete not found", http.StatusNotFound, deleteReview, ErrReviewNotFound},
		{"update not found", http.StatusNotFound, updateReview, ErrReviewNotFound},
		{"list route missing", http.StatusNotFound, listMovie, ErrRemoteUnavailable},
		{"create route missing", http.StatusNotFound, upsertReview, ErrRemoteUnavailable},
		{"bad request", http.StatusBadRequest, deleteReview, ErrRemoteRejected},
		{"forbidden", http.StatusForbidden, deleteReview, ErrRemoteRejected},
		{"server error", http.StatusInternalServerError, deleteReview, ErrRemoteUnavailable},
		{"bad gateway", http.StatusBadGateway, deleteReview, ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSONResponse(w, tt.status, map[string]string{"error": "x"})
			}))

			err := tt.call(store)
			assert.ErrorIs(t, err, tt.want)
			if tt.want != ErrReviewNotFound {
				assert.NotErrorIs(t, err, ErrReviewNotFound)
			}
		})
	}
}

func TestRemoteReviewStore_MissingRouteFallsBackToLocal(t *testing.T) {
	remote := setupRemoteStore(t, http.NotFoundHandler())
	local := NewLocalReviewStore(NewMemoryKeyValueStore())
	ctx := context.Background()

	seeded, err := local.Upsert(ctx, &model.Review{UserID: "u1", MovieID: 7, Rating: 8, Recommendation: model.RecommendationHighly})
	require.NoError(t, err)

	store := NewFallbackReviewStore(remote, local, time.Second)
	reviews, err := store.FindByMovie(ctx, 7)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, seeded.ID, reviews[0].ID)

	saved, err := store.Upsert(ctx, &model.Review{UserID: "u2", MovieID: 7, Rating: 4, Recommendation: model.RecommendationNeutral})
	require.NoError(t, err)
	assert.Equal(t, "u2", saved.UserID)
}

func TestRemoteReviewStore_DeleteSendsOwner(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/reviews/{reviewId}", func(w http.ResponseWriter, r *http.Request) {
		var body model.OwnerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body.UserID)
		assert.Equal(t, "r1", r.PathValue("reviewId"))
		writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
	})
	store := setupRemoteStore(t, mux)

	assert.NoError(t, store.Delete(context.Background(), "r1", "u1"))
}

func TestRemoteReviewStore_TransportAndDecodeFailures(t *testing.T) {
	store := setupRemoteStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	}))
	_, err := store.FindByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	down, err := NewRemoteReviewStore(closed.URL, nil)
	require.NoError(t, err)
	_, err = down.FindByUser(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/pkg/logger"
)

type bearerTokenKey struct{}

// WithBearerToken attaches the caller's session token so remote calls carry it.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerTokenKey{}, token)
}

func bearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey{}).(string)
	return token
}

// RemoteReviewStore talks to another instance of this service over its /api/reviews endpoints.
type RemoteReviewStore struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemoteReviewStore(baseURL string, httpClient *http.Client) (*RemoteReviewStore, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("remote review store: %w", ErrPrimaryNotConfigured)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("remote review store: invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteReviewStore{baseURL: baseURL, httpClient: httpClient}, nil
}

func (s *RemoteReviewStore) FindByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/api/reviews/movie/%d", movieID), nil, &reviews); err != nil {
		return nil, err
	}
	return normalizeReviews(reviews), nil
}

func (s *RemoteReviewStore) FindByUser(ctx context.Context, userID string) ([]model.Review, error) {
	var reviews []model.Review
	path := "/api/reviews/user/" + url.PathEscape(userID)
	if err := s.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return normalizeReviews(reviews), nil
}

func (s *RemoteReviewStore) FindByUserAndMovie(ctx context.Context, userID string, movieID int64) (*model.Review, error) {
	var review *model.Review
	path := fmt.Sprintf("/api/reviews/movie/%d/user/%s", movieID, url.PathEscape(userID))
	if err := s.do(ctx, http.MethodGet, path, nil, &review); err != nil {
		return nil, err
	}
	if review != nil {
		review.Normalize()
	}
	return review, nil
}

func (s *RemoteReviewStore) Upsert(ctx context.Context, review *model.Review) (*model.Review, error) {
	body := model.UpsertReviewRequest{
		MovieID:        review.MovieID,
		MovieTitle:     review.MovieTitle,
		Rating:         review.Rating,
		Title:          review.Title,
		Content:        review.Content,
		Pros:           review.Pros,
		Cons:           review.Cons,
		Recommendation: review.Recommendation,
		UserID:         review.UserID,
		UserName:       review.UserName,
	}

	var saved model.Review
	if err := s.do(ctx, http.MethodPost, "/api/reviews", body, &saved); err != nil {
		return nil, err
	}
	saved.Normalize()
	return &saved, nil
}

func (s *RemoteReviewStore) Update(ctx context.Context, reviewID, userID string, form model.ReviewForm) (*model.Review, error) {
	body := model.UpdateReviewRequest{
		Rating:         form.Rating,
		Title:          form.Title,
		Content:        form.Content,
		Pros:           form.Pros,
		Cons:           form.Cons,
		Recommendation: form.Recommendation,
		UserID:         userID,
	}

	var updated model.Review
	if err := s.do(ctx, http.MethodPut, "/api/reviews/"+url.PathEscape(reviewID), body, &updated); err != nil {
		return nil, err
	}
	updated.Normalize()
	return &updated, nil
}

func (s *RemoteReviewStore) Delete(ctx context.Context, reviewID, userID string) error {
	return s.do(ctx, http.MethodDelete, "/api/reviews/"+url.PathEscape(reviewID), model.OwnerRequest{UserID: userID}, nil)
}

// do sends one JSON request and decodes a 200 response into out.
// 404 on PUT or DELETE maps to ErrReviewNotFound; on a read or create it means the route is
// missing and maps to ErrRemoteUnavailable. Other 4xx map to ErrRemoteRejected, anything else to
// ErrRemoteUnavailable.
func (s *RemoteReviewStore) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := bearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound && targetsReview(method):
		return ErrReviewNotFound
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d on %s %s", ErrRemoteUnavailable, resp.StatusCode, method, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		logger.Warn("Remote review api rejected request", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		})
		return fmt.Errorf("%w: status %d: %s", ErrRemoteRejected, resp.StatusCode, truncate(respBody, 256))
	default:
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func normalizeReviews(reviews []model.Review) []model.Review {
	if reviews == nil {
		return []model.Review{}
	}
	for i := range reviews {
		reviews[i].Normalize()
	}
	return reviews
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// targetsReview reports whether method addresses one existing review by id.
func targetsReview(method string) bool {
	return method == http.MethodPut || method == http.MethodDelete
}

package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Recommendation 추천 등급
type Recommendation string

const (
	RecommendationHighly  Recommendation = "highly_recommend" // 강력 추천
	RecommendationDefault Recommendation = "recommend"        // 추천
	RecommendationNeutral Recommendation = "neutral"          // 보통
	RecommendationNot     Recommendation = "not_recommend"    // 비추천
)

// Valid reports whether r is one of the fixed recommendation values.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationHighly, RecommendationDefault, RecommendationNeutral, RecommendationNot:
		return true
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 10

	AnonymousDisplayName = "Anonymous User"
)

// Review 영화 리뷰 모델
// (user_id, movie_id) 쌍마다 최대 하나만 존재한다.
type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID     string `gorm:"not null;uniqueIndex:idx_reviews_user_movie,priority:1" json:"user_id"`        // 작성자 ID (외부 인증 ID)
	MovieID    int64  `gorm:"not null;uniqueIndex:idx_reviews_user_movie,priority:2;index" json:"movie_id"` // 영화 ID
	MovieTitle string `gorm:"not null;default:''" json:"movie_title"`                                       // 영화 제목 (비정규화)

	Rating         int            `gorm:"not null" json:"rating"`                       // 평점 (1-10)
	Title          string         `gorm:"not null;default:''" json:"title"`             // 한줄 제목
	Content        string         `gorm:"type:text;not null;default:''" json:"content"` // 리뷰 내용
	Pros           StringList     `gorm:"not null" json:"pros"`                         // 장점 목록
	Cons           StringList     `gorm:"not null" json:"cons"`                         // 단점 목록
	Recommendation Recommendation `gorm:"type:varchar(32);not null" json:"recommendation"`

	// 조회 시 프로필에서 채워지는 표시용 정보 (저장하지 않음)
	UserName   string `gorm:"-" json:"user_name"`
	UserAvatar string `gorm:"-" json:"user_avatar,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// BeforeSave keeps pros/cons present as sequences.
func (r *Review) BeforeSave(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

// AfterFind keeps pros/cons present as sequences.
func (r *Review) AfterFind(tx *gorm.DB) error {
	r.Normalize()
	return nil
}

// Normalize replaces absent pros/cons with empty lists.
func (r *Review) Normalize() {
	if r.Pros == nil {
		r.Pros = StringList{}
	}
	if r.Cons == nil {
		r.Cons = StringList{}
	}
}

// Apply copies the mutable fields of a form onto the review.
func (r *Review) Apply(form ReviewForm) {
	r.Rating = form.Rating
	r.Title = form.Title
	r.Content = form.Content
	r.Pros = form.Pros
	r.Cons = form.Cons
	r.Recommendation = form.Recommendation
	r.Normalize()
}

// ReviewForm 사용자가 입력하는 리뷰 필드
type ReviewForm struct {
	Rating         int            `json:"rating"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Pros           StringList     `json:"pros"`
	Cons           StringList     `json:"cons"`
	Recommendation Recommendation `json:"recommendation"`
}

// Clean trims text fields and drops blank pros/cons entries.
func (f ReviewForm) Clean() ReviewForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.Pros = cleanList(f.Pros)
	f.Cons = cleanList(f.Cons)
	f.Recommendation = Recommendation(strings.TrimSpace(string(f.Recommendation)))
	return f
}

func cleanList(items StringList) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ReviewStats 영화별 리뷰 통계
type ReviewStats struct {
	MovieID         int64                  `json:"movie_id"`
	ReviewCount     int                    `json:"review_count"`
	AverageRating   float64                `json:"average_rating"`
	Recommendations map[Recommendation]int `json:"recommendations"`
}

// NewReviewStats aggregates the reviews of one movie.
func NewReviewStats(movieID int64, reviews []Review) *ReviewStats {
	stats := &ReviewStats{
		MovieID: movieID,
		Recommendations: map[Recommendation]int{
			RecommendationHighly:  0,
			RecommendationDefault: 0,
			RecommendationNeutral: 0,
			RecommendationNot:     0,
		},
	}
	if len(reviews) == 0 {
		return stats
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
		if r.Recommendation.Valid() {
			stats.Recommendations[r.Recommendation]++
		}
	}
	stats.ReviewCount = len(reviews)
	stats.AverageRating = float64(total) / float64(len(reviews))
	return stats
}

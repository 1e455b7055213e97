package model

// UpsertReviewRequest 리뷰 작성/수정 요청 (POST /api/reviews)
type UpsertReviewRequest struct {
	MovieID        int64          `json:"movieId" binding:"required"`
	MovieTitle     string         `json:"movieTitle"`
	Rating         int            `json:"rating"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Pros           StringList     `json:"pros"`
	Cons           StringList     `json:"cons"`
	Recommendation Recommendation `json:"recommendation"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
}

func (r UpsertReviewRequest) Form() ReviewForm {
	return ReviewForm{
		Rating:         r.Rating,
		Title:          r.Title,
		Content:        r.Content,
		Pros:           r.Pros,
		Cons:           r.Cons,
		Recommendation: r.Recommendation,
	}
}

// UpdateReviewRequest 리뷰 수정 요청 (PUT /api/reviews/:reviewId)
type UpdateReviewRequest struct {
	Rating         int            `json:"rating"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Pros           StringList     `json:"pros"`
	Cons           StringList     `json:"cons"`
	Recommendation Recommendation `json:"recommendation"`
	UserID         string         `json:"userId"`
}

func (r UpdateReviewRequest) Form() ReviewForm {
	return ReviewForm{
		Rating:         r.Rating,
		Title:          r.Title,
		Content:        r.Content,
		Pros:           r.Pros,
		Cons:           r.Cons,
		Recommendation: r.Recommendation,
	}
}

// OwnerRequest 작성자 확인용 요청 (DELETE 본문)
type OwnerRequest struct {
	UserID string `json:"userId"`
}

// CreateCommentRequest 댓글 작성 요청
type CreateCommentRequest struct {
	MovieID    int64  `json:"movieId" binding:"required"`
	MovieTitle string `json:"movieTitle"`
	Content    string `json:"content" binding:"required"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
}

// UpdateCommentRequest 댓글 수정 요청
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
	UserID  string `json:"userId"`
}

// CreateExternalCommentRequest 외부 댓글 접수 요청
type CreateExternalCommentRequest struct {
	MovieID    int64  `json:"movieId" binding:"required"`
	MovieTitle string `json:"movieTitle"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Message    string `json:"message" binding:"required"`
}

// ReplaceListRequest 목록 전체 교체 요청
type ReplaceListRequest struct {
	MovieIDs []int64 `json:"movieIds"`
}

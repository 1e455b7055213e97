package model

import (
	"time"
)

// Comment 영화 댓글 모델
type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID     string `gorm:"not null;index" json:"user_id"`          // 작성자 ID
	MovieID    int64  `gorm:"not null;index" json:"movie_id"`         // 영화 ID
	MovieTitle string `gorm:"not null;default:''" json:"movie_title"` // 영화 제목
	Content    string `gorm:"type:text;not null" json:"content"`      // 댓글 내용

	UserName   string `gorm:"-" json:"user_name"`
	UserAvatar string `gorm:"-" json:"user_avatar,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// ExternalComment 외부에서 접수된 댓글 (운영자가 직접 관리, 인증 없음)
type ExternalComment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MovieID    int64  `gorm:"not null;index" json:"movie_id"`
	MovieTitle string `gorm:"not null;default:''" json:"movie_title"`
	Name       string `gorm:"not null" json:"name"`
	Email      string `gorm:"default:''" json:"email,omitempty"`
	Message    string `gorm:"type:text;not null" json:"message"`
}

func (ExternalComment) TableName() string {
	return "external_comments"
}

package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Identity 외부 인증 공급자가 넘겨주는 사용자 정보
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DisplayName derives the best available display name from the identity fields.
func (i Identity) DisplayName() string {
	if name := strings.TrimSpace(i.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(i.Username); name != "" {
		return name
	}
	if at := strings.Index(i.Email, "@"); at > 0 {
		return i.Email[:at]
	}
	return AnonymousDisplayName
}

// Profile 사용자 프로필 모델
// ID는 외부 인증 공급자의 사용자 ID를 그대로 사용한다.
type Profile struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email     string `gorm:"default:''" json:"email"`
	FullName  string `gorm:"default:''" json:"full_name"`
	AvatarURL string `gorm:"default:''" json:"avatar_url"`
	Username  string `gorm:"default:''" json:"username"`
	Bio       string `gorm:"type:text;not null;default:''" json:"bio"`

	Favorites MovieIDList `gorm:"not null" json:"favorites"` // 즐겨찾기 영화 ID
	Watchlist MovieIDList `gorm:"not null" json:"watchlist"` // 볼 영화 목록
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if p.Favorites == nil {
		p.Favorites = MovieIDList{}
	}
	if p.Watchlist == nil {
		p.Watchlist = MovieIDList{}
	}
	return nil
}

// DisplayName resolves full_name, then username, then the anonymous fallback.
func (p *Profile) DisplayName() string {
	if p == nil {
		return AnonymousDisplayName
	}
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.Username); name != "" {
		return name
	}
	return AnonymousDisplayName
}

// HasName reports whether the profile carries any display name of its own.
func (p *Profile) HasName() bool {
	return p != nil && (strings.TrimSpace(p.FullName) != "" || strings.TrimSpace(p.Username) != "")
}

// NewProfileFromIdentity builds the profile created lazily on a user's first write.
func NewProfileFromIdentity(identity Identity) *Profile {
	fullName := strings.TrimSpace(identity.FullName)
	if fullName == "" && strings.TrimSpace(identity.Username) == "" {
		if name := identity.DisplayName(); name != AnonymousDisplayName {
			fullName = name
		}
	}
	return &Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		FullName:  fullName,
		AvatarURL: identity.AvatarURL,
		Username:  identity.Username,
		Favorites: MovieIDList{},
		Watchlist: MovieIDList{},
	}
}

// ProfileEdit 프로필 수정 요청
type ProfileEdit struct {
	Email     *string `json:"email"`
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
}

// ApplyTo copies the set fields onto p.
func (e ProfileEdit) ApplyTo(p *Profile) {
	if e.Email != nil {
		p.Email = strings.TrimSpace(*e.Email)
	}
	if e.FullName != nil {
		p.FullName = strings.TrimSpace(*e.FullName)
	}
	if e.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*e.AvatarURL)
	}
	if e.Username != nil {
		p.Username = strings.TrimSpace(*e.Username)
	}
	if e.Bio != nil {
		p.Bio = *e.Bio
	}
}

// ListKind 사용자 영화 목록 종류
type ListKind string

const (
	ListFavorites ListKind = "favorites" // 즐겨찾기
	ListWatchlist ListKind = "watchlist" // 볼 영화
)

func (k ListKind) Valid() bool {
	return k == ListFavorites || k == ListWatchlist
}

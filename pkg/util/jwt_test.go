package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

var testUser = SessionUser{
	ID:                "0f8c2a6e-user",
	Email:             "test@example.com",
	Name:              "Kim Jiwoo",
	PreferredUsername: "jiwoo",
	Picture:           "https://cdn.example.com/a.png",
}

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		user    SessionUser
		wantErr bool
	}{
		{
			name:    "Valid token generation",
			user:    testUser,
			wantErr: false,
		},
		{
			name:    "Subject only",
			user:    SessionUser{ID: "u2"},
			wantErr: false,
		},
		{
			name:    "Missing subject",
			user:    SessionUser{Email: "x@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.user, testSecret, 15*time.Minute)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken(testUser, testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   token,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Invalid secret",
			token:   token,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, testUser.ID, claims.UserID())
				assert.Equal(t, testUser.Email, claims.Email)
				assert.Equal(t, testUser.Name, claims.Name)
				assert.Equal(t, testUser.PreferredUsername, claims.PreferredUsername)
				assert.Equal(t, testUser.Picture, claims.Picture)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken(testUser, testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenClaims(t *testing.T) {
	token, err := GenerateToken(testUser, testSecret, 15*time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}

package identity

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/identity"
)

// RegisterInput is the input for creating an account
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginInput is the input for logging in
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput is the input for refreshing tokens
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenInfo is the issued token pair
type TokenInfo struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult is returned by Login and Register
type LoginResult struct {
	Token TokenInfo `json:"token"`
	User  UserInfo  `json:"user"`
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

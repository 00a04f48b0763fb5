package domain

import (
	"time"
)

// User represents a registered account in the system.
//
// RefreshToken is the single stored renewal credential for the account:
// issuing a session or rotating a refresh token overwrites it, logout clears
// it, and a presented refresh token is only redeemable while it matches this
// value byte for byte. It is never serialized to clients.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	PasswordHash  string    `json:"-"`
	RefreshToken  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TokenPair holds an access and refresh token pair issued for one session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

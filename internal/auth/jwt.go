package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token issuer recorded in the registered claims.
const issuer = "backend-api"

// Classified verification failures. Callers branch on these to report the
// exact reason a token was rejected instead of a generic parse error.
var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid means the signature did not verify, which includes
	// tokens signed with the other kind's secret.
	ErrTokenInvalid = errors.New("token signature invalid")

	// ErrTokenMalformed means the input was not a structurally valid token.
	ErrTokenMalformed = errors.New("token malformed")
)

// AccessClaims represents the JWT claims for an access token.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the JWT claims for a refresh token.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies access and refresh tokens. The two kinds
// are signed with distinct secrets so a compromise of one secret cannot be
// used to forge the other kind. Pure computation, no I/O.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenManager creates a token manager with per-kind secrets and expiries.
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateAccessToken creates a signed JWT access token for the given user.
func (m *TokenManager) GenerateAccessToken(userID, username, email string) (string, error) {
	now := time.Now().UTC()
	claims := &AccessClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signedToken, nil
}

// GenerateRefreshToken creates a signed JWT refresh token containing only the
// userID. Each token carries a unique jti so rotation always yields a new
// value, even for tokens minted within the same second.
func (m *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := &RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshExpiry)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return signedToken, nil
}

// ValidateAccessToken parses and validates an access token, returning the claims.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenString, claims, m.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token, returning the claims.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims, m.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// parse verifies tokenString against secret, filling claims. Failures are
// classified into the package sentinel errors.
func (m *TokenManager) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return classifyError(err)
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	default:
		// Signature mismatches, wrong-kind secrets, and unexpected signing
		// methods all land here.
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}

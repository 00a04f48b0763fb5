package repository

import (
	"context"

	"github.com/Deba1597/backendProject/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIdentifier retrieves a user whose username or email matches the
	// given identifier.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// ExistsByUsernameOrEmail reports whether any user already holds the
	// given username or email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// UpdateProfile modifies the user's mutable profile fields (full name
	// and email). It never touches credentials.
	UpdateProfile(ctx context.Context, user *domain.User) error

	// UpdateAvatar sets the user's avatar URL.
	UpdateAvatar(ctx context.Context, id, avatarURL string) error

	// UpdateCoverImage sets the user's cover image URL.
	UpdateCoverImage(ctx context.Context, id, coverImageURL string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateRefreshToken overwrites the user's single stored renewal
	// credential. Only that column is written.
	UpdateRefreshToken(ctx context.Context, id, token string) error

	// ClearRefreshToken removes the stored renewal credential, ending the
	// user's session server-side.
	ClearRefreshToken(ctx context.Context, id string) error
}

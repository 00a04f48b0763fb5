package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Deba1597/backendProject/internal/auth"
	"github.com/Deba1597/backendProject/internal/domain"
	apperrors "github.com/Deba1597/backendProject/internal/errors"
	"github.com/Deba1597/backendProject/internal/event"
	"github.com/Deba1597/backendProject/internal/repository"
	"github.com/Deba1597/backendProject/internal/storage"
	"github.com/Deba1597/backendProject/internal/validator"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// UserService implements the business logic for account and session operations.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	store    storage.Store
	events   event.Publisher
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	store storage.Store,
	events event.Publisher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		store:    store,
		events:   events,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a new user. Avatar is
// required; CoverImage may be nil.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=32,alphanum,lowercase"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,max=128"`
	Password string `validate:"required"`

	Avatar     *storage.UploadInput
	CoverImage *storage.UploadInput
}

// LoginInput holds the parameters for login. Identifier is a username or an
// email address.
type LoginInput struct {
	Identifier string
	Password   string
}

// UpdateProfileInput holds the parameters for updating a user's profile.
type UpdateProfileInput struct {
	FullName *string
	Email    *string
}

// Register creates a new account, stores its media files, and starts a
// session through the same issuer path login uses.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.TokenPair, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	if err := validator.Validate(input); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}
	if input.Avatar == nil {
		return nil, nil, apperrors.InvalidInput("avatar file is required")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, nil, apperrors.AlreadyExists("user", "username or email", input.Username)
	}

	avatar, err := s.store.Upload(ctx, *input.Avatar)
	if err != nil {
		return nil, nil, apperrors.Internal(fmt.Errorf("upload avatar: %w", err))
	}

	var coverURL, coverKey string
	if input.CoverImage != nil {
		cover, err := s.store.Upload(ctx, *input.CoverImage)
		if err != nil {
			s.cleanupUploads(ctx, avatar.Key)
			return nil, nil, apperrors.Internal(fmt.Errorf("upload cover image: %w", err))
		}
		coverURL = cover.URL
		coverKey = cover.Key
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		s.cleanupUploads(ctx, avatar.Key, coverKey)
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:            uuid.New().String(),
		Username:      input.Username,
		Email:         input.Email,
		FullName:      input.FullName,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
		PasswordHash:  string(hashedPassword),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.cleanupUploads(ctx, avatar.Key, coverKey)
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.RefreshToken = pair.RefreshToken

	if err := s.events.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, pair, nil
}

// Login authenticates a user by username or email and starts a session.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, *domain.TokenPair, error) {
	if strings.TrimSpace(input.Identifier) == "" {
		return nil, nil, apperrors.InvalidInput("username or email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, strings.TrimSpace(input.Identifier))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NotFound("user", input.Identifier)
		}
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid credentials")
	}

	pair, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.RefreshToken = pair.RefreshToken

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return user, pair, nil
}

// Refresh redeems a renewal token for a fresh pair, rotating the stored
// credential. Checks run in order and the first failure wins: no token,
// bad signature or expiry, unknown subject, then byte mismatch with the
// stored value (a redeemed or superseded token is stale).
func (s *UserService) Refresh(ctx context.Context, presented string) (*domain.TokenPair, error) {
	if presented == "" {
		return nil, apperrors.Unauthorized("refresh token is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(presented)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("refresh token expired")
		}
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		// Only a confirmed missing subject means the token is bad. A store
		// failure stays a store failure so clients retry instead of
		// dropping their session.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("look up refresh subject: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return nil, apperrors.Unauthorized("refresh token is stale")
	}

	pair, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session renewed",
		slog.String("user_id", user.ID),
	)

	return pair, nil
}

// Logout clears the stored renewal credential, ending the session
// server-side. The handler layer clears the cookies.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID),
	)
	return nil
}

// ChangePassword verifies the current password, stores a new hash, and
// clears the stored renewal credential so other devices must log in again.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for password change: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// The new hash is already stored at this point, but the caller has to
	// know when other devices may keep a live session.
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token after password change: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("user_id", userID),
	)
	return nil
}

// issueSession is the single choke point for starting or renewing a session:
// look up the user, mint both tokens, persist the renewal token. If the
// store write fails the minted pair is discarded and an internal error is
// returned, so a pair the server does not know about never reaches a client.
func (s *UserService) issueSession(ctx context.Context, userID string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for session: %w", err)
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate access token: %w", err))
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate refresh token: %w", err))
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("persist refresh token: %w", err))
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// cleanupUploads removes orphaned files after a failed registration or
// image update. Empty keys are skipped.
func (s *UserService) cleanupUploads(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned upload",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}

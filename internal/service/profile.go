package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Deba1597/backendProject/internal/domain"
	apperrors "github.com/Deba1597/backendProject/internal/errors"
	"github.com/Deba1597/backendProject/internal/storage"
	"github.com/Deba1597/backendProject/internal/validator"
)

// GetProfile returns the user's account record.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

type profileUpdate struct {
	FullName string `validate:"omitempty,max=128"`
	Email    string `validate:"omitempty,email"`
}

// UpdateProfile modifies the user's full name and/or email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	if input.FullName == nil && input.Email == nil {
		return nil, apperrors.InvalidInput("at least one field must be provided")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
		if user.FullName == "" {
			return nil, apperrors.InvalidInput("full name cannot be blank")
		}
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}

	if err := validator.Validate(profileUpdate{FullName: user.FullName, Email: user.Email}); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.publishUpdated(ctx, user)

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", user.ID),
	)
	return user, nil
}

// UpdateAvatar uploads a new avatar and stores its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, file storage.UploadInput) (*domain.User, error) {
	return s.updateImage(ctx, userID, file, "avatar")
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, file storage.UploadInput) (*domain.User, error) {
	return s.updateImage(ctx, userID, file, "cover image")
}

func (s *UserService) updateImage(ctx context.Context, userID string, file storage.UploadInput, kind string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for %s update: %w", kind, err)
	}

	uploaded, err := s.store.Upload(ctx, file)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("upload %s: %w", kind, err))
	}

	if kind == "avatar" {
		err = s.userRepo.UpdateAvatar(ctx, userID, uploaded.URL)
		user.AvatarURL = uploaded.URL
	} else {
		err = s.userRepo.UpdateCoverImage(ctx, userID, uploaded.URL)
		user.CoverImageURL = uploaded.URL
	}
	if err != nil {
		s.cleanupUploads(ctx, uploaded.Key)
		return nil, fmt.Errorf("store %s url: %w", kind, err)
	}

	s.publishUpdated(ctx, user)

	s.logger.InfoContext(ctx, kind+" updated",
		slog.String("user_id", userID),
	)
	return user, nil
}

// publishUpdated emits user.updated; failures are logged, never returned.
func (s *UserService) publishUpdated(ctx context.Context, user *domain.User) {
	if err := s.events.PublishUserUpdated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.updated event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
}

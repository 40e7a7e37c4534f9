package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Thanhfdq/task-app/internal/constants"
	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/repository"
)

// UserService handles profile management and user lookup.
type UserService struct {
	userRepo repository.UserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     NewAuthService(userRepo),
	}
}

// UpdateProfileInput holds the profile fields to change. Nil fields are left untouched.
type UpdateProfileInput struct {
	Username    *string
	FullName    *string
	Description *string
}

// UpdateProfile changes the actor's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actorID uint64, input UpdateProfileInput) (*models.User, error) {
	if _, err := s.auth.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Username != nil {
		username, err := normalizeUsername(*input.Username)
		if err != nil {
			return nil, err
		}
		if err := s.auth.ensureUsernameFree(ctx, username, actorID); err != nil {
			return nil, err
		}
		fields["username"] = username
	}
	if input.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, actorID, fields); err != nil {
			return nil, storageError("failed to update profile", err)
		}
	}

	return s.auth.GetUser(ctx, actorID)
}

// ChangePasswordInput holds the current and the new password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the actor's password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, actorID uint64, input ChangePasswordInput) error {
	user, err := s.auth.GetUser(ctx, actorID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(input.NewPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, actorID, hashed); err != nil {
		return storageError("failed to update password", err)
	}
	return nil
}

// SearchUsers returns up to UserSearchLimit users whose username contains keyword.
func (s *UserService) SearchUsers(ctx context.Context, actorID uint64, keyword string) ([]models.User, error) {
	if actorID == 0 {
		return nil, ErrNotAuthenticated
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, validationError("keyword is required")
	}

	users, err := s.userRepo.Search(ctx, keyword, constants.UserSearchLimit)
	if err != nil {
		return nil, storageError("failed to search users", err)
	}
	return users, nil
}

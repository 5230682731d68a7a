package service

import (
	"context"
	"strings"

	"trellis/internal/models"
	"trellis/internal/repository"
	"trellis/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProfileInput is the editable portion of a profile.
type ProfileInput struct {
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// AccountService handles profile and account lifecycle logic.
type AccountService interface {
	GetProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.Profile, error)
	ChangePassword(ctx context.Context, userID uint, current, next string) error
	RequestEmailChange(ctx context.Context, userID uint, newEmail string) (string, error)
	ConfirmEmailChange(ctx context.Context, token string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uint, password string) error
}

type accountService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewAccountService creates a new account service
func NewAccountService(users repository.UserRepository, profiles repository.ProfileRepository) AccountService {
	return &accountService{users: users, profiles: profiles}
}

// GetProfile loads the profile and re-syncs its email copy when the user
// record has moved on (e.g. after a confirmed email change that predates
// the sync-on-confirm behavior).
func (s *accountService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Email != user.Email {
		if err := s.profiles.UpdateEmail(ctx, userID, user.Email); err != nil {
			return nil, err
		}
		profile.Email = user.Email
	}

	return profile, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.Profile, error) {
	username := strings.TrimSpace(input.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	taken, err := s.profiles.UsernameTaken(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("username is already taken")
	}

	if err := s.profiles.Update(ctx, &models.Profile{
		UserID:    userID,
		FirstName: strings.TrimSpace(input.FirstName),
		Username:  username,
	}); err != nil {
		return nil, err
	}

	return s.profiles.GetByUserID(ctx, userID)
}

func (s *accountService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return models.NewUnauthorizedError("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	return s.users.UpdatePassword(ctx, userID, string(hashed))
}

// RequestEmailChange parks the new address and returns the confirmation
// token. Delivery of the token (email) is the caller's concern.
func (s *accountService) RequestEmailChange(ctx context.Context, userID uint, newEmail string) (string, error) {
	email := strings.TrimSpace(newEmail)
	if err := validation.ValidateEmail(email); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Email == email {
		return "", models.NewValidationError("new email matches the current address")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("email is already registered")
	}

	token := uuid.NewString()
	if err := s.users.SetPendingEmail(ctx, userID, email, token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *accountService) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.NewValidationError("confirmation token is required")
	}
	return s.users.ConfirmEmailChange(ctx, token)
}

// DeleteAccount verifies the password then hard-deletes the user and all
// owned journal data.
func (s *accountService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.NewUnauthorizedError("password is incorrect")
	}

	return s.users.Delete(ctx, userID)
}

package service

import (
	"context"
	"testing"

	"trellis/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestAccountService_GetProfileResyncsEmail(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Email: "current@example.com"}, nil
	}

	profiles := noopProfileRepo()
	profiles.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
		return &models.Profile{UserID: userID, Email: "stale@example.com"}, nil
	}
	var synced string
	profiles.updateEmailFn = func(_ context.Context, _ uint, email string) error {
		synced = email
		return nil
	}

	svc := NewAccountService(users, profiles)

	profile, err := svc.GetProfile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "current@example.com", profile.Email)
	assert.Equal(t, "current@example.com", synced)
}

func TestAccountService_UpdateProfile(t *testing.T) {
	t.Run("rejects taken username", func(t *testing.T) {
		profiles := noopProfileRepo()
		profiles.usernameTakenFn = func(_ context.Context, username string, exclude uint) (bool, error) {
			return username == "taken", nil
		}

		svc := NewAccountService(noopUserRepo(), profiles)

		_, err := svc.UpdateProfile(context.Background(), 7, ProfileInput{Username: "taken"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		svc := NewAccountService(noopUserRepo(), noopProfileRepo())

		_, err := svc.UpdateProfile(context.Background(), 7, ProfileInput{Username: "   "})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("trims fields before saving", func(t *testing.T) {
		profiles := noopProfileRepo()
		var saved *models.Profile
		profiles.updateFn = func(_ context.Context, p *models.Profile) error {
			saved = p
			return nil
		}

		svc := NewAccountService(noopUserRepo(), profiles)

		_, err := svc.UpdateProfile(context.Background(), 7, ProfileInput{
			FirstName: "  Rosa ",
			Username:  " rosa_g ",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Rosa", saved.FirstName)
		assert.Equal(t, "rosa_g", saved.Username)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Password: hashPassword(t, "old-secret")}, nil
	}
	var savedHash string
	users.updatePasswordFn = func(_ context.Context, _ uint, hashed string) error {
		savedHash = hashed
		return nil
	}

	svc := NewAccountService(users, noopProfileRepo())
	ctx := context.Background()

	t.Run("rejects short password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, 7, "old-secret", "tiny")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, 7, "not-the-password", "new-secret")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})

	t.Run("stores a bcrypt hash of the new password", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, 7, "old-secret", "new-secret"))
		require.NotEmpty(t, savedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedHash), []byte("new-secret")))
	})
}

func TestAccountService_RequestEmailChange(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid address", func(t *testing.T) {
		svc := NewAccountService(noopUserRepo(), noopProfileRepo())
		_, err := svc.RequestEmailChange(ctx, 7, "not-an-email")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects unchanged address", func(t *testing.T) {
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Email: "same@example.com"}, nil
		}
		svc := NewAccountService(users, noopProfileRepo())

		_, err := svc.RequestEmailChange(ctx, 7, "same@example.com")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects an address already registered", func(t *testing.T) {
		users := noopUserRepo()
		users.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 99, Email: email}, nil
		}
		svc := NewAccountService(users, noopProfileRepo())

		_, err := svc.RequestEmailChange(ctx, 7, "other@example.com")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	})

	t.Run("parks the address and returns a token", func(t *testing.T) {
		users := noopUserRepo()
		var parkedEmail, parkedToken string
		users.setPendingEmailFn = func(_ context.Context, _ uint, email, token string) error {
			parkedEmail = email
			parkedToken = token
			return nil
		}
		svc := NewAccountService(users, noopProfileRepo())

		token, err := svc.RequestEmailChange(ctx, 7, "  new@example.com ")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, token, parkedToken)
		assert.Equal(t, "new@example.com", parkedEmail)
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Password: hashPassword(t, "secret-pass")}, nil
	}
	deleted := false
	users.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}

	svc := NewAccountService(users, noopProfileRepo())
	ctx := context.Background()

	err := svc.DeleteAccount(ctx, 7, "wrong")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	assert.False(t, deleted)

	require.NoError(t, svc.DeleteAccount(ctx, 7, "secret-pass"))
	assert.True(t, deleted)
}

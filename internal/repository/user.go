package repository

import (
	"context"
	"errors"

	"trellis/internal/cache"
	"trellis/internal/models"
	"trellis/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	UpdatePassword(ctx context.Context, userID uint, hashed string) error
	SetPendingEmail(ctx context.Context, userID uint, email, token string) error
	ConfirmEmailChange(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, userID uint) error
}

// userRepository implements UserRepository
type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user exists, so callers can
// distinguish "not found" from a database failure without errors.Is.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the user and its profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		profile.Email = user.Email
		return tx.Create(profile).Error
	})
	if err != nil && isUniqueConstraintError(err) {
		return models.NewConflictError("email or username is already registered")
	}
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, hashed string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("user", userID)
	}
	return nil
}

func (r *userRepository) SetPendingEmail(ctx context.Context, userID uint, email, token string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"pending_email":      email,
			"email_change_token": token,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("user", userID)
	}
	return nil
}

// ConfirmEmailChange redeems the token: the pending address becomes the
// primary email and the pending fields are cleared.
func (r *userRepository) ConfirmEmailChange(ctx context.Context, token string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email_change_token = ? AND pending_email <> ''", token).
			First(&user).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"email":              user.PendingEmail,
			"pending_email":      "",
			"email_change_token": "",
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("email is already registered")
			}
			return err
		}

		// Keep the profile copy in sync
		if err := tx.Model(&models.Profile{}).
			Where("user_id = ?", user.ID).
			Update("email", user.PendingEmail).Error; err != nil {
			return err
		}

		user.Email = user.PendingEmail
		user.PendingEmail = ""
		user.EmailChangeToken = ""
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("email change request", token)
	}
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, user.ID)
	return &user, nil
}

// Delete removes the user and every row it owns. Hard delete: account
// removal is permanent, not a soft archive.
func (r *userRepository) Delete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM entry_tags WHERE entry_id IN (SELECT id FROM entries WHERE user_id = ?)`,
			userID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by = ?", userID).Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("created_by = ?", userID).Delete(&models.Bed{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}

		res := tx.Unscoped().Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("user", userID)
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogMutation(ctx, "delete", map[string]any{"user_id": userID})

	cache.InvalidateProfile(ctx, userID)
	cache.InvalidateBeds(ctx, userID)
	cache.InvalidateEntries(ctx, userID)
	return nil
}

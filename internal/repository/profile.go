package repository

import (
	"context"

	"trellis/internal/cache"
	"trellis/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error)
	UpdateAvatarURL(ctx context.Context, userID uint, url string) error
	UpdateEmail(ctx context.Context, userID uint, email string) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			First(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Updates(map[string]interface{}{
			"first_name": profile.FirstName,
			"username":   profile.Username,
			"updated_at": nowFunc(),
		})
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("username is already taken")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("profile", profile.UserID)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

// UsernameTaken reports whether another user already holds the username.
// The owner's own row is excluded so re-saving an unchanged profile passes.
func (r *profileRepository) UsernameTaken(ctx context.Context, username string, excludeUserID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("username = ? AND user_id <> ?", username, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *profileRepository) UpdateAvatarURL(ctx context.Context, userID uint, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"avatar_url": url, "updated_at": nowFunc()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("profile", userID)
	}
	cache.InvalidateProfile(ctx, userID)
	return nil
}

func (r *profileRepository) UpdateEmail(ctx context.Context, userID uint, email string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"email": email, "updated_at": nowFunc()})
	if res.Error != nil {
		return res.Error
	}
	cache.InvalidateProfile(ctx, userID)
	return nil
}

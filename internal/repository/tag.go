package repository

import (
	"context"

	"trellis/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Tag, error)
}

// tagRepository implements TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// GetOrCreate resolves a tag name to an ID, creating the row on first use.
// Same upsert shape as beds: DO UPDATE so RETURNING always yields the id.
func (r *tagRepository) GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error) {
	if name == "" {
		return 0, models.NewValidationError("tag name cannot be empty")
	}

	var id uint
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO tags (name, created_by, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (name, created_by) DO UPDATE SET name = excluded.name
		 RETURNING id`,
		name, ownerID, nowFunc(),
	).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *tagRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

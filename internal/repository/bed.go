package repository

import (
	"context"

	"trellis/internal/cache"
	"trellis/internal/middleware"
	"trellis/internal/models"
	"trellis/internal/observability"

	"gorm.io/gorm"
)

// BedRepository defines the interface for garden bed data operations.
type BedRepository interface {
	List(ctx context.Context, ownerID uint) ([]*models.Bed, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Bed, error)
	GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error)
	Rename(ctx context.Context, id, ownerID uint, name string) error
	Delete(ctx context.Context, id, ownerID uint) error
}

// bedRepository implements BedRepository
type bedRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBedRepository creates a new bed repository
func NewBedRepository(db *gorm.DB) BedRepository {
	return &bedRepository{db: db, log: observability.NewRepoLogger("beds")}
}

func (r *bedRepository) List(ctx context.Context, ownerID uint) ([]*models.Bed, error) {
	var beds []*models.Bed
	err := cache.Aside(ctx, cache.BedsKey(ownerID), &beds, cache.BedsTTL, func() error {
		return r.db.WithContext(ctx).
			Where("created_by = ?", ownerID).
			Order("name ASC").
			Find(&beds).Error
	})
	if err != nil {
		return nil, err
	}
	return beds, nil
}

func (r *bedRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Bed, error) {
	var bed models.Bed
	err := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, ownerID).
		First(&bed).Error
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

// GetOrCreate resolves a bed name to an ID, creating the row on first use.
// The upsert is atomic: concurrent requests for the same name both land on
// the existing row. DO UPDATE (a no-op write) instead of DO NOTHING so that
// RETURNING always yields the id.
func (r *bedRepository) GetOrCreate(ctx context.Context, name string, ownerID uint) (uint, error) {
	var id uint
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO beds (name, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (name, created_by) DO UPDATE SET updated_at = excluded.updated_at
		 RETURNING id`,
		name, ownerID, nowFunc(), nowFunc(),
	).Scan(&id).Error
	if err != nil {
		r.log.LogError(ctx, err, "upsert")
		return 0, err
	}
	middleware.BedUpserts.Inc()
	cache.InvalidateBeds(ctx, ownerID)
	return id, nil
}

func (r *bedRepository) Rename(ctx context.Context, id, ownerID uint, name string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Bed{}).
		Where("id = ? AND created_by = ?", id, ownerID).
		Updates(map[string]interface{}{"name": name, "updated_at": nowFunc()})
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("a bed with that name already exists")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("bed", id)
	}
	cache.InvalidateBeds(ctx, ownerID)
	return nil
}

// Delete removes the bed but keeps its entries: their bed reference is
// cleared in the same transaction.
func (r *bedRepository) Delete(ctx context.Context, id, ownerID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Entry{}).
			Where("bed_id = ? AND user_id = ?", id, ownerID).
			Update("bed_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND created_by = ?", id, ownerID).Delete(&models.Bed{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("bed", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateBeds(ctx, ownerID)
	cache.InvalidateEntries(ctx, ownerID)
	return nil
}

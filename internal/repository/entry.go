package repository

import (
	"context"

	"trellis/internal/cache"
	"trellis/internal/middleware"
	"trellis/internal/models"
	"trellis/internal/observability"

	"gorm.io/gorm"
)

// EntryRepository defines the interface for journal entry data operations.
type EntryRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Entry, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry, tagIDs []uint) error
	Update(ctx context.Context, entry *models.Entry, tagIDs []uint) error
	ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error)
	Delete(ctx context.Context, id, ownerID uint) error
}

// entryRepository implements EntryRepository
type entryRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db, log: observability.NewRepoLogger("entries")}
}

// ListByOwner returns the owner's entries newest-first with TagNames
// populated. Bed names are not joined here; callers resolve them against
// the bed list they already hold.
func (r *entryRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := cache.Aside(ctx, cache.EntriesKey(ownerID), &entries, cache.EntriesTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", ownerID).
			Order("entry_date DESC, id DESC").
			Find(&entries).Error; err != nil {
			return err
		}
		return r.attachTagNames(ctx, entries)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachTagNames(ctx, []*models.Entry{&entry}); err != nil {
		return nil, err
	}
	return &entry, nil
}

// attachTagNames fills TagNames for the given entries with one join query.
func (r *entryRepository) attachTagNames(ctx context.Context, entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(entries))
	byID := make(map[uint]*models.Entry, len(entries))
	for _, e := range entries {
		e.TagNames = []string{}
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	var rows []struct {
		EntryID uint
		Name    string
	}
	err := r.db.WithContext(ctx).
		Table("entry_tags").
		Select("entry_tags.entry_id, tags.name").
		Joins("JOIN tags ON tags.id = entry_tags.tag_id").
		Where("entry_tags.entry_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		if e, ok := byID[row.EntryID]; ok {
			e.TagNames = append(e.TagNames, row.Name)
		}
	}
	return nil
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry, tagIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return insertEntryTags(tx, entry.ID, tagIDs)
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	middleware.EntryWrites.WithLabelValues("create").Inc()
	r.log.LogMutation(ctx, "create", map[string]any{"entry_id": entry.ID, "user_id": entry.UserID})
	cache.InvalidateEntries(ctx, entry.UserID)
	return nil
}

// Update rewrites the entry's mutable columns and replaces its tag set.
// The tag set replacement is delete-all then insert-all, so the stored
// links always mirror the submitted list exactly.
func (r *entryRepository) Update(ctx context.Context, entry *models.Entry, tagIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Entry{}).
			Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
			Updates(map[string]interface{}{
				"entry_date": entry.EntryDate,
				"title":      entry.Title,
				"body":       entry.Body,
				"entry_type": entry.EntryType,
				"bed_id":     entry.BedID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("entry", entry.ID)
		}

		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.EntryTag{}).Error; err != nil {
			return err
		}
		return insertEntryTags(tx, entry.ID, tagIDs)
	})
	if err != nil {
		return err
	}
	middleware.EntryWrites.WithLabelValues("update").Inc()
	cache.InvalidateEntries(ctx, entry.UserID)
	return nil
}

// ToggleCompletion flips the completed flag in a single statement and
// returns the new value. Read-modify-write from the handler would race
// with concurrent toggles.
func (r *entryRepository) ToggleCompletion(ctx context.Context, id, ownerID uint) (bool, error) {
	var completed []bool
	err := r.db.WithContext(ctx).Raw(
		`UPDATE entries
		 SET completed = NOT completed, updated_at = ?
		 WHERE id = ? AND user_id = ?
		 RETURNING completed`,
		nowFunc(), id, ownerID,
	).Scan(&completed).Error
	if err != nil {
		return false, err
	}
	if len(completed) == 0 {
		return false, models.NewNotFoundError("entry", id)
	}
	middleware.EntryWrites.WithLabelValues("toggle").Inc()
	cache.InvalidateEntries(ctx, ownerID)
	return completed[0], nil
}

func (r *entryRepository) Delete(ctx context.Context, id, ownerID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Entry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("entry", id)
		}
		return tx.Where("entry_id = ?", id).Delete(&models.EntryTag{}).Error
	})
	if err != nil {
		return err
	}
	middleware.EntryWrites.WithLabelValues("delete").Inc()
	cache.InvalidateEntries(ctx, ownerID)
	return nil
}

func insertEntryTags(tx *gorm.DB, entryID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.EntryTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, models.EntryTag{EntryID: entryID, TagID: tagID})
	}
	return tx.Create(&links).Error
}

package seed

import (
	"fmt"
	"log"

	"trellis/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers       int
	EntriesPerUser int
	// ShouldClean wipes existing journal data before seeding.
	ShouldClean bool
}

// Run populates the database with demo users and journal data.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 3
	}
	if opts.EntriesPerUser <= 0 {
		opts.EntriesPerUser = 12
	}

	presets, err := LoadPresets()
	if err != nil {
		return err
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return err
		}
	}

	factory := NewFactory(db, presets)

	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}

		beds, err := factory.CreateBeds(user.ID, 2+factory.rng.Intn(3))
		if err != nil {
			return err
		}
		tags, err := factory.CreateTags(user.ID, 4+factory.rng.Intn(4))
		if err != nil {
			return err
		}

		for j := 0; j < opts.EntriesPerUser; j++ {
			if _, err := factory.CreateEntry(user.ID, beds, tags); err != nil {
				return err
			}
		}

		log.Printf("seeded user %s (%d beds, %d tags, %d entries); password %q",
			user.Email, len(beds), len(tags), opts.EntriesPerUser, DefaultPassword)
	}

	return nil
}

// Clean removes all journal data. Link tables go first so foreign keys
// never dangle mid-wipe.
func Clean(db *gorm.DB) error {
	tables := []any{
		&models.EntryTag{},
		&models.Entry{},
		&models.Tag{},
		&models.Bed{},
		&models.Profile{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("cleaning %T: %w", table, err)
		}
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("cleaning users: %w", err)
	}
	return nil
}

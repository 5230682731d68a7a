// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trellis/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account logs in with.
const DefaultPassword = "growgrowgrow"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db      *gorm.DB
	presets *Presets
	rng     *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, presets *Presets) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:      db,
		presets: presets,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// CreateUser persists a user with its profile. All seeded users share
// DefaultPassword so any of them can be used to log in.
func (f *Factory) CreateUser() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	first := gofakeit.FirstName()
	username := strings.ToLower(fmt.Sprintf("%s%s%d", first, gofakeit.LastName(), f.rng.Intn(1000)))
	email := fmt.Sprintf("%s@%s", username, gofakeit.DomainName())

	user := &models.User{
		Email:    email,
		Password: string(hashed),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	profile := &models.Profile{
		UserID:    user.ID,
		FirstName: first,
		Username:  username,
		Email:     email,
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	user.Profile = profile
	return user, nil
}

// CreateBeds persists a random sample of preset beds for the owner and
// returns them.
func (f *Factory) CreateBeds(ownerID uint, count int) ([]*models.Bed, error) {
	names := f.sample(f.presets.Beds, count)
	beds := make([]*models.Bed, 0, len(names))
	for _, name := range names {
		bed := &models.Bed{Name: name, CreatedBy: ownerID}
		if err := f.db.Create(bed).Error; err != nil {
			return nil, fmt.Errorf("creating bed %q: %w", name, err)
		}
		beds = append(beds, bed)
	}
	return beds, nil
}

// CreateTags persists a random sample of preset tags for the owner.
func (f *Factory) CreateTags(ownerID uint, count int) ([]*models.Tag, error) {
	names := f.sample(f.presets.Tags, count)
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag := &models.Tag{Name: name, CreatedBy: ownerID}
		if err := f.db.Create(tag).Error; err != nil {
			return nil, fmt.Errorf("creating tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreateEntry persists one entry from a random template, optionally
// assigned to one of the owner's beds and labelled with up to two tags.
// Dates spread from thirty days back to ten days ahead so the upcoming
// to-do views have content.
func (f *Factory) CreateEntry(ownerID uint, beds []*models.Bed, tags []*models.Tag) (*models.Entry, error) {
	entryType := models.EntryTypeNote
	templates := f.presets.Notes
	if f.rng.Intn(2) == 0 {
		entryType = models.EntryTypeTodo
		templates = f.presets.Todos
	}
	tmpl := templates[f.rng.Intn(len(templates))]

	var entryTags []*models.Tag
	if len(tags) > 0 {
		entryTags = f.sampleTags(tags, 1+f.rng.Intn(2))
	}

	fillTag := "plants"
	if len(entryTags) > 0 {
		fillTag = entryTags[0].Name
	}

	entry := &models.Entry{
		UserID:    ownerID,
		EntryDate: f.randomDate(),
		Title:     strings.ReplaceAll(tmpl.Title, "{tag}", fillTag),
		Body:      strings.ReplaceAll(tmpl.Body, "{tag}", fillTag),
		EntryType: entryType,
		Completed: entryType == models.EntryTypeTodo && f.rng.Intn(3) == 0,
	}

	// Roughly a quarter of entries stay unassigned
	if len(beds) > 0 && f.rng.Intn(4) != 0 {
		bed := beds[f.rng.Intn(len(beds))]
		entry.BedID = &bed.ID
	}

	if err := f.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	for _, tag := range entryTags {
		link := &models.EntryTag{EntryID: entry.ID, TagID: tag.ID}
		if err := f.db.Create(link).Error; err != nil {
			return nil, fmt.Errorf("linking entry tag: %w", err)
		}
	}
	return entry, nil
}

func (f *Factory) randomDate() time.Time {
	daysOffset := f.rng.Intn(41) - 30 // [-30, +10]
	day := time.Now().AddDate(0, 0, daysOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// sample returns up to n distinct values from pool in random order.
func (f *Factory) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := f.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

func (f *Factory) sampleTags(pool []*models.Tag, n int) []*models.Tag {
	if n > len(pool) {
		n = len(pool)
	}
	idx := f.rng.Perm(len(pool))[:n]
	out := make([]*models.Tag, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

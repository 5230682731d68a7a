package models

import "time"

// Entry types. Completed is only meaningful for to-dos.
const (
	EntryTypeNote = "note"
	EntryTypeTodo = "todo"
)

// Entry is a dated journal entry owned by a user. BedID is nullable: "no
// bed assigned" is a valid state, and deleting a bed clears the reference
// on its entries rather than deleting them.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	BedID     *uint     `gorm:"index" json:"bed_id"`
	EntryDate time.Time `gorm:"not null;index" json:"date"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	EntryType string    `gorm:"not null;default:note" json:"type"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated by the repository on list reads; not a column.
	TagNames []string `gorm:"-" json:"tags"`
}

// EntryTag links an entry to a tag. The pair is the identity; on entry
// update the full set is deleted and re-inserted, so duplicates cannot
// accumulate.
type EntryTag struct {
	EntryID uint `gorm:"primaryKey" json:"entry_id"`
	TagID   uint `gorm:"primaryKey" json:"tag_id"`
}

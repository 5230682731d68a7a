package models

import "time"

// Bed is a named garden plot. Names are unique per owner; creation goes
// through an upsert so repeated names collapse to the existing row.
type Bed struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_beds_name_owner" json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint      `gorm:"not null;uniqueIndex:idx_beds_name_owner;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tag is a per-owner label attached to entries. Tags are only ever
// get-or-created; they are never renamed or deleted on their own.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tags_name_owner" json:"name"`
	CreatedBy uint      `gorm:"not null;uniqueIndex:idx_tags_name_owner;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

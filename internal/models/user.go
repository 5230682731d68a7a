// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the authentication record. Journal data hangs off the user ID;
// display data lives on the 1:1 Profile.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Email changes are two-phase: the new address is parked here until the
	// confirmation token is redeemed.
	PendingEmail     string `json:"-"`
	EmailChangeToken string `gorm:"index" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile holds the user-facing identity for a User.
type Profile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string `json:"first_name"`
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	// Kept in sync with the User record; re-synced opportunistically on load.
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents an account that can own spots, book stays, and write reviews.
// Email and Username are stored lowercased; uniqueness is case-insensitive.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null" json:"last_name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Spots          []Spot    `gorm:"foreignKey:OwnerID" json:"spots,omitempty"`
	Bookings       []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Reviews        []Review  `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}

package models

import "time"

// Review is a user's rating of a spot. A user may review a given spot at
// most once, enforced both by the composite unique index and by the review
// service before the write.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_spot" json:"user_id"`
	SpotID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_spot;index" json:"spot_id"`
	Body      string    `gorm:"type:text;not null" json:"review"`
	Stars     int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Images    []Image   `gorm:"foreignKey:ReviewID" json:"images,omitempty"`
}

package models

import "time"

// Image is a photo attached to exactly one of a spot or a review. Preview is
// meaningful only for spot images; at most one image per spot has it set.
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SpotID    *uint     `gorm:"index" json:"spot_id"`
	ReviewID  *uint     `gorm:"index" json:"review_id"`
	URL       string    `gorm:"not null" json:"url"`
	Preview   bool      `gorm:"not null;default:false" json:"preview"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

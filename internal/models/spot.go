package models

import "time"

// Spot represents a rentable listing owned by a user.
//
// AvgRating and PreviewImage are not persisted: they are computed from the
// spot's reviews and images at read time and are nil (JSON null) when the
// spot has no reviews or no preview image.
type Spot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Address     string    `gorm:"not null" json:"address"`
	City        string    `gorm:"not null" json:"city"`
	State       string    `gorm:"not null" json:"state"`
	Country     string    `gorm:"not null" json:"country"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Bookings    []Booking `gorm:"foreignKey:SpotID" json:"bookings,omitempty"`
	Reviews     []Review  `gorm:"foreignKey:SpotID" json:"reviews,omitempty"`
	Images      []Image   `gorm:"foreignKey:SpotID" json:"images,omitempty"`

	// AvgRating is the full-precision mean of review stars (computed).
	AvgRating *float64 `gorm:"-" json:"avg_rating"`
	// PreviewImage is the URL of the single preview image (computed).
	PreviewImage *string `gorm:"-" json:"preview_image"`
}

package models

import "time"

// Booking statuses. Instant confirmation is gated by the "instant_booking"
// feature flag; bookings start pending otherwise.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// Booking reserves the half-open date range [StartDate, EndDate) of a spot
// for a renter. Committed bookings for the same spot never overlap; a
// booking ending exactly when another starts is allowed.
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	SpotID    uint      `gorm:"not null;index" json:"spot_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports whether the booking's [start, end) range intersects the
// given candidate range. Shared boundaries (back-to-back stays) do not count.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndDate) && b.StartDate.Before(end)
}

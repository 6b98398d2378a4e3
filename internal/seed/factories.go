// Package seed provides helpers to create demo data for development and
// testing. Writes go through the raw gorm handle on purpose: the seeder
// builds consistent data by construction and skips the service-layer checks.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"stayspot/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a Factory bound to the provided gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. All seeded users share
// the password "password123" so any account works for manual testing.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
	}

	if f.opts.SkipBcrypt {
		user.HashedPassword = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.HashedPassword = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSpot constructs and persists a sample spot owned by the given user.
func (f *Factory) CreateSpot(owner *models.User, overrides ...func(*models.Spot)) (*models.Spot, error) {
	addr := gofakeit.Address()
	spot := &models.Spot{
		OwnerID:     owner.ID,
		Address:     addr.Street,
		City:        addr.City,
		State:       addr.State,
		Country:     "United States",
		Lat:         addr.Latitude,
		Lng:         addr.Longitude,
		Name:        fmt.Sprintf("%s %s", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete()),
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		Price:       float64(gofakeit.Number(45, 950)),
	}

	for _, override := range overrides {
		override(spot)
	}

	if err := f.db.Create(spot).Error; err != nil {
		return nil, err
	}
	return spot, nil
}

// CreateBooking persists a booking of the spot by the user. Date ranges are
// half-open [start, end); the caller is responsible for avoiding overlaps
// (SpreadBookings does this by slicing the calendar).
func (f *Factory) CreateBooking(user *models.User, spot *models.Spot, start, end time.Time, overrides ...func(*models.Booking)) (*models.Booking, error) {
	status := models.BookingStatusPending
	if f.rand.Intn(2) == 0 {
		status = models.BookingStatusConfirmed
	}
	booking := &models.Booking{
		UserID:    user.ID,
		SpotID:    spot.ID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}

	for _, override := range overrides {
		override(booking)
	}

	if err := f.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateReview persists a review of the spot by the user. One per (user,
// spot); the seeder's pairing logic keeps this unique.
func (f *Factory) CreateReview(user *models.User, spot *models.Spot, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		UserID: user.ID,
		SpotID: spot.ID,
		Body:   gofakeit.Paragraph(1, 2, 10, " "),
		Stars:  gofakeit.Number(1, 5),
	}

	for _, override := range overrides {
		override(review)
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateSpotImage persists an image attached to a spot.
func (f *Factory) CreateSpotImage(spot *models.Spot, preview bool, overrides ...func(*models.Image)) (*models.Image, error) {
	image := &models.Image{
		SpotID:  &spot.ID,
		URL:     fmt.Sprintf("https://picsum.photos/seed/spot-%s/1200/800", gofakeit.UUID()),
		Preview: preview,
	}

	for _, override := range overrides {
		override(image)
	}

	if err := f.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// CreateReviewImage persists a photo attached to a review.
func (f *Factory) CreateReviewImage(review *models.Review, overrides ...func(*models.Image)) (*models.Image, error) {
	image := &models.Image{
		ReviewID: &review.ID,
		URL:      fmt.Sprintf("https://picsum.photos/seed/review-%s/800/600", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(image)
	}

	if err := f.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

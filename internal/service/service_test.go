package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"stayspot/internal/featureflags"
	"stayspot/internal/models"
	"stayspot/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	users    *UserService
	spots    *SpotService
	bookings *BookingService
	reviews  *ReviewService
	images   *ImageService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Spot{},
		&models.Booking{},
		&models.Review{},
		&models.Image{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	imageRepo := repository.NewImageRepository(db)

	return &testEnv{
		db:       db,
		users:    NewUserService(db, userRepo),
		spots:    NewSpotService(db, spotRepo, userRepo, imageRepo),
		bookings: NewBookingService(db, bookingRepo, featureflags.NewManager("")),
		reviews:  NewReviewService(db, reviewRepo),
		images:   NewImageService(db, imageRepo, spotRepo, reviewRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, tag string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Email:          fmt.Sprintf("%s@example.com", tag),
		Username:       tag,
		HashedPassword: "hashed",
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", tag, err)
	}
	return user
}

func (e *testEnv) createSpot(t *testing.T, owner *models.User) *models.Spot {
	t.Helper()
	spot := &models.Spot{
		OwnerID: owner.ID,
		Address: "123 Main St",
		City:    "Portland",
		State:   "OR",
		Country: "United States",
		Lat:     45.52,
		Lng:     -122.68,
		Name:    "Cozy Cabin",
		Price:   120,
	}
	if err := e.db.Create(spot).Error; err != nil {
		t.Fatalf("create spot: %v", err)
	}
	return spot
}

func (e *testEnv) createReview(t *testing.T, user *models.User, spot *models.Spot, stars int) *models.Review {
	t.Helper()
	review := &models.Review{UserID: user.ID, SpotID: spot.ID, Body: "Fine", Stars: stars}
	if err := e.db.Create(review).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}
	return review
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

var testCtx = context.Background()

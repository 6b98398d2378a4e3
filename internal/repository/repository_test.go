package repository

import (
	"fmt"
	"testing"
	"time"

	"stayspot/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, tag string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Email:          fmt.Sprintf("%s@example.com", tag),
		Username:       tag,
		HashedPassword: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", tag, err)
	}
	return user
}

func createTestSpot(t *testing.T, db *gorm.DB, owner *models.User) *models.Spot {
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
	if err := db.Create(spot).Error; err != nil {
		t.Fatalf("create spot: %v", err)
	}
	return spot
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

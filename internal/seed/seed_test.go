package seed

import (
	"testing"

	"stayspot/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Spot{},
		&models.Booking{},
		&models.Review{},
		&models.Image{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeederProducesConsistentData(t *testing.T) {
	db := setupSeedTestDB(t)

	s := NewSeeder(db, Options{NumUsers: 8, NumSpots: 12, SkipBcrypt: true})
	assert.NoError(t, s.Run())

	var userCount, spotCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Spot{}).Count(&spotCount)
	assert.Equal(t, int64(8), userCount)
	assert.Equal(t, int64(12), spotCount)

	t.Run("AtMostOnePreviewPerSpot", func(t *testing.T) {
		var spots []models.Spot
		assert.NoError(t, db.Find(&spots).Error)
		for _, spot := range spots {
			var previews int64
			db.Model(&models.Image{}).Where("spot_id = ? AND preview = ?", spot.ID, true).Count(&previews)
			assert.LessOrEqual(t, previews, int64(1), "spot %d", spot.ID)
		}
	})

	t.Run("NoOverlappingBookingsPerSpot", func(t *testing.T) {
		var bookings []models.Booking
		assert.NoError(t, db.Order("spot_id, start_date").Find(&bookings).Error)
		for i := 1; i < len(bookings); i++ {
			prev, cur := bookings[i-1], bookings[i]
			if prev.SpotID != cur.SpotID {
				continue
			}
			assert.False(t, cur.Overlaps(prev.StartDate, prev.EndDate),
				"spot %d: bookings %d and %d overlap", cur.SpotID, prev.ID, cur.ID)
		}
	})

	t.Run("OneReviewPerUserSpotPair", func(t *testing.T) {
		type pair struct {
			UserID uint
			SpotID uint
			N      int64
		}
		var pairs []pair
		assert.NoError(t, db.Model(&models.Review{}).
			Select("user_id, spot_id, count(*) as n").
			Group("user_id, spot_id").
			Scan(&pairs).Error)
		for _, p := range pairs {
			assert.Equal(t, int64(1), p.N)
		}
	})

	t.Run("EveryImageBelongsSomewhere", func(t *testing.T) {
		var orphaned int64
		db.Model(&models.Image{}).Where("spot_id IS NULL AND review_id IS NULL").Count(&orphaned)
		assert.Zero(t, orphaned)
	})
}

func TestSeederClearAll(t *testing.T) {
	db := setupSeedTestDB(t)

	s := NewSeeder(db, Options{NumUsers: 4, NumSpots: 4, SkipBcrypt: true})
	assert.NoError(t, s.Run())
	assert.NoError(t, s.ClearAll())

	for _, model := range []interface{}{
		&models.Image{}, &models.Review{}, &models.Booking{}, &models.Spot{}, &models.User{},
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count)
	}
}

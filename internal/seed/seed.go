package seed

import (
	"fmt"
	"log"
	"time"

	"stayspot/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumSpots    int
	ShouldClean bool
	SkipBcrypt  bool
}

// Seeder populates the database with realistic marketplace data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumSpots <= 0 {
		opts.NumSpots = 60
	}
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes all seeded data, children before parents.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Image{},
		&models.Review{},
		&models.Booking{},
		&models.Spot{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, spots, images, bookings, and reviews.
func (s *Seeder) Run() error {
	log.Printf("Seeding %d users and %d spots...", s.opts.NumUsers, s.opts.NumSpots)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	spots := make([]*models.Spot, 0, s.opts.NumSpots)
	for i := 0; i < s.opts.NumSpots; i++ {
		owner := users[s.factory.rand.Intn(len(users))]
		spot, err := s.factory.CreateSpot(owner)
		if err != nil {
			return fmt.Errorf("failed to create spot: %w", err)
		}
		spots = append(spots, spot)

		// 1-5 images, the first one the preview.
		numImages := 1 + s.factory.rand.Intn(5)
		for j := 0; j < numImages; j++ {
			if _, err := s.factory.CreateSpotImage(spot, j == 0); err != nil {
				return fmt.Errorf("failed to create spot image: %w", err)
			}
		}
	}
	log.Printf("created %d spots", len(spots))

	bookings, err := s.spreadBookings(users, spots)
	if err != nil {
		return err
	}
	log.Printf("created %d bookings", bookings)

	reviews, err := s.spreadReviews(users, spots)
	if err != nil {
		return err
	}
	log.Printf("created %d reviews", reviews)

	log.Println("seeding complete; all users have the password: password123")
	return nil
}

// spreadBookings gives each spot a run of non-overlapping stays by slicing
// the upcoming calendar into consecutive half-open ranges.
func (s *Seeder) spreadBookings(users []*models.User, spots []*models.Spot) (int, error) {
	count := 0
	for _, spot := range spots {
		cursor := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1+s.factory.rand.Intn(14))
		stays := s.factory.rand.Intn(4)
		for i := 0; i < stays; i++ {
			renter := users[s.factory.rand.Intn(len(users))]
			if renter.ID == spot.OwnerID {
				continue
			}
			nights := 1 + s.factory.rand.Intn(7)
			start := cursor
			end := start.AddDate(0, 0, nights)
			if _, err := s.factory.CreateBooking(renter, spot, start, end); err != nil {
				return count, fmt.Errorf("failed to create booking: %w", err)
			}
			count++
			// leave a gap before the next stay, sometimes back-to-back
			cursor = end.AddDate(0, 0, s.factory.rand.Intn(4))
		}
	}
	return count, nil
}

// spreadReviews lets a random subset of users review each spot, at most one
// review per (user, spot) pair and never the owner.
func (s *Seeder) spreadReviews(users []*models.User, spots []*models.Spot) (int, error) {
	count := 0
	for _, spot := range spots {
		reviewers := s.factory.rand.Perm(len(users))
		numReviews := s.factory.rand.Intn(len(users)/3 + 1)
		for _, idx := range reviewers[:numReviews] {
			reviewer := users[idx]
			if reviewer.ID == spot.OwnerID {
				continue
			}
			review, err := s.factory.CreateReview(reviewer, spot)
			if err != nil {
				return count, fmt.Errorf("failed to create review: %w", err)
			}
			count++
			if s.factory.rand.Intn(4) == 0 {
				if _, err := s.factory.CreateReviewImage(review); err != nil {
					return count, fmt.Errorf("failed to create review image: %w", err)
				}
			}
		}
	}
	return count, nil
}

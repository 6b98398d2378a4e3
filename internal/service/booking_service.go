package service

import (
	"context"
	"errors"
	"time"

	"stayspot/internal/featureflags"
	"stayspot/internal/middleware"
	"stayspot/internal/models"
	"stayspot/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking date-range rules. All checks and the
// write happen in one transaction; on Postgres the spot row is locked so
// concurrent bookings of the same spot serialize and a reader can never
// observe two overlapping committed bookings.
type BookingService struct {
	db    *gorm.DB
	repo  repository.BookingRepository
	flags *featureflags.Manager
}

// BookingInput carries the fields of a booking create or update.
type BookingInput struct {
	UserID    uint
	SpotID    uint
	StartDate time.Time
	EndDate   time.Time
}

// NewBookingService creates a BookingService.
func NewBookingService(db *gorm.DB, repo repository.BookingRepository, flags *featureflags.Manager) *BookingService {
	return &BookingService{db: db, repo: repo, flags: flags}
}

// lockSpot takes a row lock on the spot inside the transaction on Postgres.
// SQLite rejects FOR UPDATE and serializes write transactions on its own.
func lockSpot(tx *gorm.DB, spotID uint) (bool, error) {
	var spot models.Spot
	q := tx.Select("id")
	if tx.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&spot, spotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func validateBookingDates(start, end time.Time) error {
	v := models.NewViolations(models.CodeValidationError, "Validation error")
	if start.IsZero() {
		v.Add("Start date is required")
	}
	if end.IsZero() {
		v.Add("End date is required")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		v.Add("End date must be after start date")
	}
	return v.Err()
}

// conflictMessages reports which boundaries of the candidate range collide
// with existing bookings, one message per conflicting boundary.
func conflictMessages(existing []models.Booking, start, end time.Time, excludeID uint) []string {
	startConflict := false
	endConflict := false
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID || !b.Overlaps(start, end) {
			continue
		}
		// The candidate's start falls inside b, or b swallows the range.
		if !start.Before(b.StartDate) {
			startConflict = true
		} else {
			endConflict = true
		}
	}

	var msgs []string
	if startConflict {
		msgs = append(msgs, "Start date conflicts with an existing booking")
	}
	if endConflict {
		msgs = append(msgs, "End date conflicts with an existing booking")
	}
	return msgs
}

// CreateBooking reserves [StartDate, EndDate) of a spot. Back-to-back
// bookings (one ending exactly when another starts) are accepted. The
// booking is confirmed immediately when the instant_booking flag is on for
// the renter, pending otherwise.
func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (*models.Booking, error) {
	if err := validateBookingDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	status := models.BookingStatusPending
	if s.flags.Enabled(featureflags.FlagInstantBooking, in.UserID) {
		status = models.BookingStatusConfirmed
	}

	booking := &models.Booking{
		UserID:    in.UserID,
		SpotID:    in.SpotID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Status:    status,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		spotOK, err := lockSpot(tx, in.SpotID)
		if err != nil {
			return models.NewInternalError(err)
		}

		refs := models.NewViolations(models.CodeDanglingReference, "Invalid reference")
		if !spotOK {
			refs.Add("spotId does not reference an existing record")
		}
		userOK, err := repository.NewUserRepository(tx).Exists(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !userOK {
			refs.Add("userId does not reference an existing record")
		}
		if err := refs.Err(); err != nil {
			return err
		}

		repo := repository.NewBookingRepository(tx)
		existing, err := repo.ListBySpot(ctx, in.SpotID)
		if err != nil {
			return err
		}
		if msgs := conflictMessages(existing, in.StartDate, in.EndDate, 0); len(msgs) > 0 {
			middleware.BookingConflicts.Inc()
			return models.NewBookingConflictError(msgs...)
		}

		return repo.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateBooking moves a booking to a new date range, excluding the booking
// itself from the overlap check. Only the renter may modify it.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, byUserID uint, start, end time.Time) (*models.Booking, error) {
	if err := validateBookingDates(start, end); err != nil {
		return nil, err
	}

	var updated *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		booking, err := repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != byUserID {
			return models.NewUnauthorizedError("Only the renter may modify this booking")
		}

		if _, err := lockSpot(tx, booking.SpotID); err != nil {
			return models.NewInternalError(err)
		}

		existing, err := repo.ListBySpot(ctx, booking.SpotID)
		if err != nil {
			return err
		}
		if msgs := conflictMessages(existing, start, end, booking.ID); len(msgs) > 0 {
			middleware.BookingConflicts.Inc()
			return models.NewBookingConflictError(msgs...)
		}

		booking.StartDate = start
		booking.EndDate = end
		if err := repo.Update(ctx, booking); err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBooking cancels a booking. Only the renter may delete it.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID, byUserID uint) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != byUserID {
		return models.NewUnauthorizedError("Only the renter may cancel this booking")
	}
	return s.repo.Delete(ctx, bookingID)
}

// GetBooking returns a single booking.
func (s *BookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBookingsForSpot returns all bookings of a spot, ordered by start date.
func (s *BookingService) ListBookingsForSpot(ctx context.Context, spotID uint) ([]models.Booking, error) {
	return s.repo.ListBySpot(ctx, spotID)
}

// ListBookingsForUser returns all bookings made by a user.
func (s *BookingService) ListBookingsForUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

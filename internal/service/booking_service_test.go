package service

import (
	"testing"

	"stayspot/internal/featureflags"
	"stayspot/internal/models"
	"stayspot/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestCreateBookingConflicts(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	renter := env.createUser(t, "renter")
	other := env.createUser(t, "other")
	spot := env.createSpot(t, owner)

	first, err := env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-01-10"),
		EndDate:   date(t, "2024-01-15"),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, first.Status)

	t.Run("OverlappingRangeRejected", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    other.ID,
			SpotID:    spot.ID,
			StartDate: date(t, "2024-01-14"),
			EndDate:   date(t, "2024-01-20"),
		})
		assert.Equal(t, models.CodeBookingConflict, appErrCode(t, err))
	})

	t.Run("ContainedRangeRejected", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    other.ID,
			SpotID:    spot.ID,
			StartDate: date(t, "2024-01-11"),
			EndDate:   date(t, "2024-01-13"),
		})
		assert.Equal(t, models.CodeBookingConflict, appErrCode(t, err))
	})

	t.Run("BackToBackAccepted", func(t *testing.T) {
		booking, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    other.ID,
			SpotID:    spot.ID,
			StartDate: date(t, "2024-01-15"),
			EndDate:   date(t, "2024-01-20"),
		})
		assert.NoError(t, err)
		assert.NotZero(t, booking.ID)
	})

	t.Run("RejectedAttemptLeavesNoRow", func(t *testing.T) {
		var count int64
		env.db.Model(&models.Booking{}).Where("spot_id = ?", spot.ID).Count(&count)
		assert.Equal(t, int64(2), count)
	})
}

func TestCreateBookingConflictReportsBothBoundaries(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	renter := env.createUser(t, "renter")
	spot := env.createSpot(t, owner)

	_, err := env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-01-10"),
		EndDate:   date(t, "2024-01-15"),
	})
	assert.NoError(t, err)

	// candidate sits entirely inside the existing stay
	_, err = env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-01-11"),
		EndDate:   date(t, "2024-01-13"),
	})
	appErr, ok := err.(*models.AppError)
	assert.True(t, ok)
	assert.Equal(t, models.CodeBookingConflict, appErr.Code)
	assert.Contains(t, appErr.Messages, "Start date conflicts with an existing booking")
	assert.Contains(t, appErr.Messages, "End date conflicts with an existing booking")
}

func TestCreateBookingDanglingReferences(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	spot := env.createSpot(t, owner)

	t.Run("MissingSpot", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    owner.ID,
			SpotID:    9999,
			StartDate: date(t, "2024-02-01"),
			EndDate:   date(t, "2024-02-05"),
		})
		assert.Equal(t, models.CodeDanglingReference, appErrCode(t, err))
	})

	t.Run("MissingUserAndSpotReportsBoth", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    9999,
			SpotID:    8888,
			StartDate: date(t, "2024-02-01"),
			EndDate:   date(t, "2024-02-05"),
		})
		appErr, ok := err.(*models.AppError)
		assert.True(t, ok)
		assert.Equal(t, models.CodeDanglingReference, appErr.Code)
		assert.Len(t, appErr.Messages, 2)
	})

	t.Run("ExistingRefsFine", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    owner.ID,
			SpotID:    spot.ID,
			StartDate: date(t, "2024-02-01"),
			EndDate:   date(t, "2024-02-05"),
		})
		assert.NoError(t, err)
	})
}

func TestCreateBookingValidation(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	spot := env.createSpot(t, owner)

	_, err := env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    owner.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-03-10"),
		EndDate:   date(t, "2024-03-10"),
	})
	assert.Equal(t, models.CodeValidationError, appErrCode(t, err))

	_, err = env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    owner.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-03-10"),
		EndDate:   date(t, "2024-03-05"),
	})
	assert.Equal(t, models.CodeValidationError, appErrCode(t, err))
}

func TestUpdateBookingExcludesItself(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	renter := env.createUser(t, "renter")
	stranger := env.createUser(t, "stranger")
	spot := env.createSpot(t, owner)

	booking, err := env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-04-10"),
		EndDate:   date(t, "2024-04-15"),
	})
	assert.NoError(t, err)

	t.Run("ShiftWithinOwnRange", func(t *testing.T) {
		updated, err := env.bookings.UpdateBooking(testCtx, booking.ID, renter.ID,
			date(t, "2024-04-12"), date(t, "2024-04-17"))
		assert.NoError(t, err)
		assert.Equal(t, date(t, "2024-04-12"), updated.StartDate)
	})

	t.Run("ConflictWithAnotherBooking", func(t *testing.T) {
		_, err := env.bookings.CreateBooking(testCtx, BookingInput{
			UserID:    stranger.ID,
			SpotID:    spot.ID,
			StartDate: date(t, "2024-04-20"),
			EndDate:   date(t, "2024-04-25"),
		})
		assert.NoError(t, err)

		_, err = env.bookings.UpdateBooking(testCtx, booking.ID, renter.ID,
			date(t, "2024-04-22"), date(t, "2024-04-27"))
		assert.Equal(t, models.CodeBookingConflict, appErrCode(t, err))
	})

	t.Run("OnlyRenterMayModify", func(t *testing.T) {
		_, err := env.bookings.UpdateBooking(testCtx, booking.ID, stranger.ID,
			date(t, "2024-05-01"), date(t, "2024-05-03"))
		assert.Equal(t, models.CodeUnauthorized, appErrCode(t, err))
	})
}

func TestDeleteBooking(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	renter := env.createUser(t, "renter")
	spot := env.createSpot(t, owner)

	booking, err := env.bookings.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-05"),
	})
	assert.NoError(t, err)

	assert.Equal(t, models.CodeUnauthorized, appErrCode(t,
		env.bookings.DeleteBooking(testCtx, booking.ID, owner.ID)))

	assert.NoError(t, env.bookings.DeleteBooking(testCtx, booking.ID, renter.ID))

	_, err = env.bookings.GetBooking(testCtx, booking.ID)
	assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
}

func TestInstantBookingFlag(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	renter := env.createUser(t, "renter")
	spot := env.createSpot(t, owner)

	instant := NewBookingService(env.db,
		repository.NewBookingRepository(env.db),
		featureflags.NewManager("instant_booking=on"))

	booking, err := instant.CreateBooking(testCtx, BookingInput{
		UserID:    renter.ID,
		SpotID:    spot.ID,
		StartDate: date(t, "2024-07-01"),
		EndDate:   date(t, "2024-07-05"),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

package repository

import (
	"context"
	"errors"
	"time"

	"stayspot/internal/models"

	"gorm.io/gorm"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uint) error
	ListBySpot(ctx context.Context, spotID uint) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	// CountOverlapping counts committed bookings of the spot whose [start,
	// end) range intersects the candidate range, excluding excludeID (0 for
	// none). Shared boundaries do not intersect.
	CountOverlapping(ctx context.Context, spotID uint, start, end time.Time, excludeID uint) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository returns a new BookingRepository implementation.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Booking", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	if err := r.db.WithContext(ctx).Save(booking).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Booking", id)
	}
	return nil
}

func (r *bookingRepository) ListBySpot(ctx context.Context, spotID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("spot_id = ?", spotID).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountOverlapping(ctx context.Context, spotID uint, start, end time.Time, excludeID uint) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("spot_id = ?", spotID).
		Where("start_date < ? AND ? < end_date", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

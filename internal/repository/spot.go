package repository

import (
	"context"
	"errors"
	"iter"

	"stayspot/internal/cache"
	"stayspot/internal/models"

	"gorm.io/gorm"
)

// SpotRepository defines persistence operations for spots and traversal of
// their owned relations.
type SpotRepository interface {
	Create(ctx context.Context, spot *models.Spot) error
	GetByID(ctx context.Context, id uint) (*models.Spot, error)
	Update(ctx context.Context, spot *models.Spot) error
	// DeleteCascade removes the spot and all of its bookings, reviews,
	// review images, and spot images in a single transaction.
	DeleteCascade(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Spot, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Spot, error)
	ListReviews(ctx context.Context, spotID uint) ([]models.Review, error)
	ListBookings(ctx context.Context, spotID uint) ([]models.Booking, error)
	// ListImages returns the spot's images, optionally filtered by the
	// preview flag. An empty relation yields an empty slice, not an error.
	ListImages(ctx context.Context, spotID uint, previewOnly *bool) ([]models.Image, error)
	// IterateImages is the lazy form of ListImages: the query runs when the
	// sequence is ranged over and re-runs on every restart.
	IterateImages(ctx context.Context, spotID uint, previewOnly *bool) iter.Seq2[*models.Image, error]
	Exists(ctx context.Context, id uint) (bool, error)
}

type spotRepository struct {
	db *gorm.DB
}

// NewSpotRepository returns a new SpotRepository implementation.
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) Create(ctx context.Context, spot *models.Spot) error {
	if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *spotRepository) GetByID(ctx context.Context, id uint) (*models.Spot, error) {
	var spot models.Spot

	err := cache.Aside(ctx, cache.SpotKey(id), &spot, cache.SpotTTL, func() error {
		if err := r.db.WithContext(ctx).First(&spot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Spot", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Aggregates are never cached; readers recompute them.
	spot.AvgRating = nil
	spot.PreviewImage = nil
	return &spot, nil
}

func (r *spotRepository) Update(ctx context.Context, spot *models.Spot) error {
	if err := r.db.WithContext(ctx).Save(spot).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSpot(ctx, spot.ID)
	return nil
}

func (r *spotRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.First(&spot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Spot", id)
			}
			return models.NewInternalError(err)
		}

		// Images of the spot's reviews go first so no orphan rows remain.
		if err := tx.Where("review_id IN (?)",
			tx.Model(&models.Review{}).Select("id").Where("spot_id = ?", id),
		).Delete(&models.Image{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("spot_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("spot_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("spot_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return tx.Delete(&spot).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateSpot(ctx, id)
	return nil
}

func (r *spotRepository) List(ctx context.Context, limit, offset int) ([]models.Spot, error) {
	var spots []models.Spot
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&spots).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return spots, nil
}

func (r *spotRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Spot, error) {
	var spots []models.Spot
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&spots).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return spots, nil
}

func (r *spotRepository) ListReviews(ctx context.Context, spotID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("spot_id = ?", spotID).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *spotRepository) ListBookings(ctx context.Context, spotID uint) ([]models.Booking, error) {
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

func (r *spotRepository) imagesQuery(ctx context.Context, spotID uint, previewOnly *bool) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("spot_id = ?", spotID).
		Order("id ASC")
	if previewOnly != nil {
		q = q.Where("preview = ?", *previewOnly)
	}
	return q
}

func (r *spotRepository) ListImages(ctx context.Context, spotID uint, previewOnly *bool) ([]models.Image, error) {
	var images []models.Image
	if err := r.imagesQuery(ctx, spotID, previewOnly).Find(&images).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

func (r *spotRepository) IterateImages(ctx context.Context, spotID uint, previewOnly *bool) iter.Seq2[*models.Image, error] {
	return func(yield func(*models.Image, error) bool) {
		rows, err := r.imagesQuery(ctx, spotID, previewOnly).Rows()
		if err != nil {
			yield(nil, models.NewInternalError(err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var img models.Image
			if err := r.db.ScanRows(rows, &img); err != nil {
				yield(nil, models.NewInternalError(err))
				return
			}
			if !yield(&img, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, models.NewInternalError(err))
		}
	}
}

func (r *spotRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Spot{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

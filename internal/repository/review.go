package repository

import (
	"context"
	"errors"

	"stayspot/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews and their
// attached images.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	// GetByUserAndSpot returns (nil, nil) when the user has not reviewed the
	// spot; the service layer treats a present row as DUPLICATE_REVIEW.
	GetByUserAndSpot(ctx context.Context, userID, spotID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	// DeleteWithImages removes the review and its images in one transaction.
	DeleteWithImages(ctx context.Context, id uint) error
	ListBySpot(ctx context.Context, spotID uint) ([]models.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Review, error)
	ListImages(ctx context.Context, reviewID uint) ([]models.Image, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetByUserAndSpot(ctx context.Context, userID, spotID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND spot_id = ?", userID, spotID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) DeleteWithImages(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Review", id)
			}
			return models.NewInternalError(err)
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return tx.Delete(&review).Error
	})
}

func (r *reviewRepository) ListBySpot(ctx context.Context, spotID uint) ([]models.Review, error) {
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

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListImages(ctx context.Context, reviewID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

func (r *reviewRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"errors"

	"stayspot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageRepository defines persistence operations for spot and review images.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	// CreateSpotImage inserts a spot image; when preview is set it demotes
	// any other preview image of the spot in the same transaction.
	CreateSpotImage(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	Update(ctx context.Context, image *models.Image) error
	Delete(ctx context.Context, id uint) error
	// PreviewForSpot returns the spot's single preview image, nil when there
	// is none, and an error when more than one is found — a state the
	// integrity checks are supposed to prevent.
	PreviewForSpot(ctx context.Context, spotID uint) (*models.Image, error)
	// PromoteSpotPreview makes the given image the spot's only preview image
	// (unset-all-then-set-one inside one transaction).
	PromoteSpotPreview(ctx context.Context, spotID, imageID uint) error
	CountPreviews(ctx context.Context, spotID uint) (int64, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a new ImageRepository implementation.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// lockSpotRow serializes concurrent preview mutations on the same spot.
// Postgres takes a row lock; SQLite transactions are already serialized, and
// it rejects FOR UPDATE syntax, so the lock is skipped there (same branch
// pattern as the booking service).
func lockSpotRow(tx *gorm.DB, spotID uint) error {
	if tx.Name() != "postgres" {
		return nil
	}
	var spot models.Spot
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&spot, spotID).Error
}

func (r *imageRepository) CreateSpotImage(ctx context.Context, image *models.Image) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.Preview && image.SpotID != nil {
			if err := lockSpotRow(tx, *image.SpotID); err != nil {
				return err
			}
			if err := tx.Model(&models.Image{}).
				Where("spot_id = ? AND preview = ?", *image.SpotID, true).
				Update("preview", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (r *imageRepository) Update(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Save(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Image{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Image", id)
	}
	return nil
}

func (r *imageRepository) PreviewForSpot(ctx context.Context, spotID uint) (*models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("spot_id = ? AND preview = ?", spotID, true).
		Limit(2).
		Find(&images).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	switch len(images) {
	case 0:
		return nil, nil
	case 1:
		return &images[0], nil
	default:
		return nil, models.NewConsistencyViolationError("spot has more than one preview image")
	}
}

func (r *imageRepository) PromoteSpotPreview(ctx context.Context, spotID, imageID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSpotRow(tx, spotID); err != nil {
			return err
		}
		if err := tx.Model(&models.Image{}).
			Where("spot_id = ? AND preview = ?", spotID, true).
			Update("preview", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Image{}).
			Where("id = ? AND spot_id = ?", imageID, spotID).
			Update("preview", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", imageID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) CountPreviews(ctx context.Context, spotID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("spot_id = ? AND preview = ?", spotID, true).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

package service

import (
	"context"
	"strings"

	"stayspot/internal/models"
	"stayspot/internal/repository"

	"gorm.io/gorm"
)

// ImageService owns image attachment rules: an image belongs to exactly one
// of a spot or a review, and at most one image per spot carries the preview
// flag. Promoting a preview is an exchange — unset-all-then-set-one inside
// one transaction — never an addition.
type ImageService struct {
	db         *gorm.DB
	repo       repository.ImageRepository
	spotRepo   repository.SpotRepository
	reviewRepo repository.ReviewRepository
}

// NewImageService creates an ImageService.
func NewImageService(db *gorm.DB, repo repository.ImageRepository, spotRepo repository.SpotRepository, reviewRepo repository.ReviewRepository) *ImageService {
	return &ImageService{db: db, repo: repo, spotRepo: spotRepo, reviewRepo: reviewRepo}
}

func validateImageURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return models.NewValidationError("Image URL is required")
	}
	return nil
}

// AddSpotImage attaches an image to a spot. Only the spot's owner may add
// images. When preview is set, any existing preview image of the spot is
// demoted in the same transaction.
func (s *ImageService) AddSpotImage(ctx context.Context, spotID, byUserID uint, url string, preview bool) (*models.Image, error) {
	if err := validateImageURL(url); err != nil {
		return nil, err
	}

	image := &models.Image{
		SpotID:  &spotID,
		URL:     strings.TrimSpace(url),
		Preview: preview,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		spot, err := repository.NewSpotRepository(tx).GetByID(ctx, spotID)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
				return models.NewDanglingReferenceError("spotId")
			}
			return err
		}
		if spot.OwnerID != byUserID {
			return models.NewUnauthorizedError("Only the owner may add images to this spot")
		}
		return repository.NewImageRepository(tx).CreateSpotImage(ctx, image)
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// AddReviewImage attaches a photo to a review. Only the review's author may
// add images.
func (s *ImageService) AddReviewImage(ctx context.Context, reviewID, byUserID uint, url string) (*models.Image, error) {
	if err := validateImageURL(url); err != nil {
		return nil, err
	}

	image := &models.Image{
		ReviewID: &reviewID,
		URL:      strings.TrimSpace(url),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := repository.NewReviewRepository(tx).GetByID(ctx, reviewID)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
				return models.NewDanglingReferenceError("reviewId")
			}
			return err
		}
		if review.UserID != byUserID {
			return models.NewUnauthorizedError("Only the author may add images to this review")
		}
		return repository.NewImageRepository(tx).Create(ctx, image)
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// SetPreview promotes a spot image to be the spot's single preview image.
func (s *ImageService) SetPreview(ctx context.Context, imageID, byUserID uint) (*models.Image, error) {
	var promoted *models.Image

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewImageRepository(tx)

		image, err := repo.GetByID(ctx, imageID)
		if err != nil {
			return err
		}
		if image.SpotID == nil {
			return models.NewValidationError("Only spot images can be a preview image")
		}

		spot, err := repository.NewSpotRepository(tx).GetByID(ctx, *image.SpotID)
		if err != nil {
			return err
		}
		if spot.OwnerID != byUserID {
			return models.NewUnauthorizedError("Only the owner may change the preview image")
		}

		if err := repo.PromoteSpotPreview(ctx, *image.SpotID, imageID); err != nil {
			return err
		}
		image.Preview = true
		promoted = image
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

// DeleteImage removes an image. The spot owner removes spot images; the
// review author removes review images.
func (s *ImageService) DeleteImage(ctx context.Context, imageID, byUserID uint) error {
	image, err := s.repo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	switch {
	case image.SpotID != nil:
		spot, err := s.spotRepo.GetByID(ctx, *image.SpotID)
		if err != nil {
			return err
		}
		if spot.OwnerID != byUserID {
			return models.NewUnauthorizedError("Only the owner may remove images from this spot")
		}
	case image.ReviewID != nil:
		review, err := s.reviewRepo.GetByID(ctx, *image.ReviewID)
		if err != nil {
			return err
		}
		if review.UserID != byUserID {
			return models.NewUnauthorizedError("Only the author may remove images from this review")
		}
	}

	return s.repo.Delete(ctx, imageID)
}

// GetImage returns a single image.
func (s *ImageService) GetImage(ctx context.Context, id uint) (*models.Image, error) {
	return s.repo.GetByID(ctx, id)
}

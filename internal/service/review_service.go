package service

import (
	"context"
	"strings"

	"stayspot/internal/models"
	"stayspot/internal/repository"

	"gorm.io/gorm"
)

// ReviewService owns the one-review-per-user-per-spot rule and review
// lifecycle, including the images attached to a review.
type ReviewService struct {
	db   *gorm.DB
	repo repository.ReviewRepository
}

// ReviewInput carries the fields of a review create.
type ReviewInput struct {
	UserID uint
	SpotID uint
	Body   string
	Stars  int
}

// NewReviewService creates a ReviewService.
func NewReviewService(db *gorm.DB, repo repository.ReviewRepository) *ReviewService {
	return &ReviewService{db: db, repo: repo}
}

func validateReviewFields(body string, stars int) error {
	v := models.NewViolations(models.CodeValidationError, "Validation error")
	if strings.TrimSpace(body) == "" {
		v.Add("Review text is required")
	}
	if stars < 1 || stars > 5 {
		v.Add("Stars must be an integer from 1 to 5")
	}
	return v.Err()
}

// CreateReview posts a review. The author and spot references, and the
// at-most-one-review-per-(user, spot) rule, are checked inside the
// transaction that performs the insert.
func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if err := validateReviewFields(in.Body, in.Stars); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID: in.UserID,
		SpotID: in.SpotID,
		Body:   strings.TrimSpace(in.Body),
		Stars:  in.Stars,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs := models.NewViolations(models.CodeDanglingReference, "Invalid reference")
		userOK, err := repository.NewUserRepository(tx).Exists(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !userOK {
			refs.Add("userId does not reference an existing record")
		}
		spotOK, err := repository.NewSpotRepository(tx).Exists(ctx, in.SpotID)
		if err != nil {
			return err
		}
		if !spotOK {
			refs.Add("spotId does not reference an existing record")
		}
		if err := refs.Err(); err != nil {
			return err
		}

		repo := repository.NewReviewRepository(tx)
		existing, err := repo.GetByUserAndSpot(ctx, in.UserID, in.SpotID)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewDuplicateReviewError()
		}

		return repo.Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edits the author's own review. The duplicate rule does not
// apply to an update of the same review.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, byUserID uint, body string, stars int) (*models.Review, error) {
	if err := validateReviewFields(body, stars); err != nil {
		return nil, err
	}

	var updated *models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewReviewRepository(tx)

		review, err := repo.GetByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != byUserID {
			return models.NewUnauthorizedError("Only the author may edit this review")
		}

		review.Body = strings.TrimSpace(body)
		review.Stars = stars
		if err := repo.Update(ctx, review); err != nil {
			return err
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteReview removes the author's review and its images.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, byUserID uint) error {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != byUserID {
		return models.NewUnauthorizedError("Only the author may delete this review")
	}
	return s.repo.DeleteWithImages(ctx, reviewID)
}

// GetReview returns a single review.
func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListReviewsForSpot returns all reviews of a spot with their images.
func (s *ReviewService) ListReviewsForSpot(ctx context.Context, spotID uint) ([]models.Review, error) {
	reviews, err := s.repo.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		images, err := s.repo.ListImages(ctx, reviews[i].ID)
		if err != nil {
			return nil, err
		}
		reviews[i].Images = images
	}
	return reviews, nil
}

// ListReviewsForUser returns all reviews written by a user.
func (s *ReviewService) ListReviewsForUser(ctx context.Context, userID uint) ([]models.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

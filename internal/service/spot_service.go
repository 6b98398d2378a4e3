package service

import (
	"context"
	"strings"

	"stayspot/internal/models"
	"stayspot/internal/repository"

	"gorm.io/gorm"
)

// SpotService owns spot lifecycle rules and the read-time aggregates
// derived from a spot's relations: average rating and preview image.
type SpotService struct {
	db        *gorm.DB
	spotRepo  repository.SpotRepository
	userRepo  repository.UserRepository
	imageRepo repository.ImageRepository
}

// SpotInput carries the writable fields of a spot.
type SpotInput struct {
	OwnerID     uint
	Address     string
	City        string
	State       string
	Country     string
	Lat         float64
	Lng         float64
	Name        string
	Description string
	Price       float64
}

// NewSpotService creates a SpotService.
func NewSpotService(db *gorm.DB, spotRepo repository.SpotRepository, userRepo repository.UserRepository, imageRepo repository.ImageRepository) *SpotService {
	return &SpotService{db: db, spotRepo: spotRepo, userRepo: userRepo, imageRepo: imageRepo}
}

func validateSpotFields(in SpotInput) error {
	v := models.NewViolations(models.CodeValidationError, "Validation error")
	if strings.TrimSpace(in.Name) == "" {
		v.Add("Name is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		v.Add("Address is required")
	}
	if strings.TrimSpace(in.City) == "" {
		v.Add("City is required")
	}
	if strings.TrimSpace(in.Country) == "" {
		v.Add("Country is required")
	}
	if in.Lat < -90 || in.Lat > 90 {
		v.Add("Latitude must be between -90 and 90")
	}
	if in.Lng < -180 || in.Lng > 180 {
		v.Add("Longitude must be between -180 and 180")
	}
	if in.Price <= 0 {
		v.Add("Price per night must be a positive number")
	}
	return v.Err()
}

// CreateSpot validates and persists a new spot. The owner reference is
// resolved inside the transaction that performs the insert.
func (s *SpotService) CreateSpot(ctx context.Context, in SpotInput) (*models.Spot, error) {
	if err := validateSpotFields(in); err != nil {
		return nil, err
	}

	spot := &models.Spot{
		OwnerID:     in.OwnerID,
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Country:     strings.TrimSpace(in.Country),
		Lat:         in.Lat,
		Lng:         in.Lng,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repository.NewUserRepository(tx).Exists(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewDanglingReferenceError("ownerId")
		}
		return repository.NewSpotRepository(tx).Create(ctx, spot)
	})
	if err != nil {
		return nil, err
	}
	return spot, nil
}

// UpdateSpot applies a full update of the spot's writable fields. Only the
// owner may update a spot.
func (s *SpotService) UpdateSpot(ctx context.Context, spotID, byUserID uint, in SpotInput) (*models.Spot, error) {
	if err := validateSpotFields(in); err != nil {
		return nil, err
	}

	var updated *models.Spot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewSpotRepository(tx)

		spot, err := repo.GetByID(ctx, spotID)
		if err != nil {
			return err
		}
		if spot.OwnerID != byUserID {
			return models.NewUnauthorizedError("Only the owner may modify this spot")
		}

		spot.Address = strings.TrimSpace(in.Address)
		spot.City = strings.TrimSpace(in.City)
		spot.State = strings.TrimSpace(in.State)
		spot.Country = strings.TrimSpace(in.Country)
		spot.Lat = in.Lat
		spot.Lng = in.Lng
		spot.Name = strings.TrimSpace(in.Name)
		spot.Description = in.Description
		spot.Price = in.Price

		if err := repo.Update(ctx, spot); err != nil {
			return err
		}
		updated = spot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Decorate(ctx, updated)
}

// DeleteSpot removes the spot and cascades to its bookings, reviews, review
// images, and spot images. Only the owner may delete a spot.
func (s *SpotService) DeleteSpot(ctx context.Context, spotID, byUserID uint) error {
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return err
	}
	if spot.OwnerID != byUserID {
		return models.NewUnauthorizedError("Only the owner may delete this spot")
	}
	return s.spotRepo.DeleteCascade(ctx, spotID)
}

// GetSpot returns a spot with its aggregates filled in.
func (s *SpotService) GetSpot(ctx context.Context, spotID uint) (*models.Spot, error) {
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	return s.Decorate(ctx, spot)
}

// ListSpots returns a page of spots with aggregates filled in.
func (s *SpotService) ListSpots(ctx context.Context, limit, offset int) ([]models.Spot, error) {
	spots, err := s.spotRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, spots)
}

// ListSpotsByOwner returns the spots owned by a user, with aggregates.
func (s *SpotService) ListSpotsByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Spot, error) {
	spots, err := s.spotRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, spots)
}

// ListSpotImages returns a spot's images, optionally only the preview one.
func (s *SpotService) ListSpotImages(ctx context.Context, spotID uint, previewOnly *bool) ([]models.Image, error) {
	ok, err := s.spotRepo.Exists(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("Spot", spotID)
	}
	return s.spotRepo.ListImages(ctx, spotID, previewOnly)
}

// AverageRating computes the full-precision arithmetic mean of the spot's
// review stars. It returns nil — not zero — when the spot has no reviews.
func (s *SpotService) AverageRating(ctx context.Context, spotID uint) (*float64, error) {
	reviews, err := s.spotRepo.ListReviews(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Stars
	}
	avg := float64(total) / float64(len(reviews))
	return &avg, nil
}

// PreviewImage returns the URL of the spot's single preview image, nil when
// there is none. Finding more than one is a consistency violation surfaced
// to the caller, never silently resolved.
func (s *SpotService) PreviewImage(ctx context.Context, spotID uint) (*string, error) {
	img, err := s.imageRepo.PreviewForSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, nil
	}
	return &img.URL, nil
}

// Decorate fills the spot's computed aggregates from current state.
func (s *SpotService) Decorate(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	avg, err := s.AverageRating(ctx, spot.ID)
	if err != nil {
		return nil, err
	}
	preview, err := s.PreviewImage(ctx, spot.ID)
	if err != nil {
		return nil, err
	}
	spot.AvgRating = avg
	spot.PreviewImage = preview
	return spot, nil
}

func (s *SpotService) decorateAll(ctx context.Context, spots []models.Spot) ([]models.Spot, error) {
	for i := range spots {
		if _, err := s.Decorate(ctx, &spots[i]); err != nil {
			return nil, err
		}
	}
	return spots, nil
}

package server

import (
	"stayspot/internal/models"
	"stayspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reviewRequest struct {
	Review string `json:"review"`
	Stars  int    `json:"stars"`
}

// ListSpotReviews returns a spot's reviews with their images.
func (s *Server) ListSpotReviews(c *fiber.Ctx) error {
	spotID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	reviews, err := s.reviewService.ListReviewsForSpot(c.UserContext(), spotID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// CreateReview posts the authenticated user's review for a spot.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	spotID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.CreateReview(c.UserContext(), service.ReviewInput{
		UserID: userID,
		SpotID: spotID,
		Body:   req.Review,
		Stars:  req.Stars,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

// UpdateReview edits a review; author only.
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.UpdateReview(c.UserContext(), id, userID, req.Review, req.Stars)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"review": review})
}

// DeleteReview removes a review and its images; author only.
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.reviewService.DeleteReview(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully deleted"})
}

package server

import (
	"stayspot/internal/models"

	"github.com/gofiber/fiber/v2"
)

type imageRequest struct {
	URL     string `json:"url"`
	Preview bool   `json:"preview"`
}

// AddSpotImage attaches an image to a spot; owner only.
func (s *Server) AddSpotImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	spotID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req imageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := s.imageService.AddSpotImage(c.UserContext(), spotID, userID, req.URL, req.Preview)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": image})
}

// AddReviewImage attaches a photo to a review; author only.
func (s *Server) AddReviewImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	reviewID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req imageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := s.imageService.AddReviewImage(c.UserContext(), reviewID, userID, req.URL)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": image})
}

// SetPreviewImage promotes a spot image to the spot's preview; owner only.
func (s *Server) SetPreviewImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	image, err := s.imageService.SetPreview(c.UserContext(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"image": image})
}

// DeleteImage removes a spot or review image; owner or author only.
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.imageService.DeleteImage(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully deleted"})
}

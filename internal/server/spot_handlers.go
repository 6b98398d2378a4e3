package server

import (
	"stayspot/internal/models"
	"stayspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type spotRequest struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (r spotRequest) toInput(ownerID uint) service.SpotInput {
	return service.SpotInput{
		OwnerID:     ownerID,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
}

// ListSpots returns a page of spots with avg_rating and preview_image.
func (s *Server) ListSpots(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	spots, err := s.spotService.ListSpots(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"spots": spots})
}

// GetSpot returns a single spot with its aggregates.
func (s *Server) GetSpot(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	spot, err := s.spotService.GetSpot(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"spot": spot})
}

// CreateSpot creates a spot owned by the authenticated user.
func (s *Server) CreateSpot(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req spotRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	spot, err := s.spotService.CreateSpot(c.UserContext(), req.toInput(userID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"spot": spot})
}

// UpdateSpot applies a full update; owner only.
func (s *Server) UpdateSpot(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req spotRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	spot, err := s.spotService.UpdateSpot(c.UserContext(), id, userID, req.toInput(userID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"spot": spot})
}

// DeleteSpot removes a spot and everything attached to it; owner only.
func (s *Server) DeleteSpot(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.spotService.DeleteSpot(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully deleted"})
}

// ListSpotImages returns a spot's images; ?preview=true narrows to the
// preview image only.
func (s *Server) ListSpotImages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var previewOnly *bool
	if c.Query("preview") != "" {
		v := c.QueryBool("preview")
		previewOnly = &v
	}

	images, err := s.spotService.ListSpotImages(c.UserContext(), id, previewOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"images": images})
}

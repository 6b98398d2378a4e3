package server

import (
	"time"

	"stayspot/internal/models"
	"stayspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bookingRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// parseDates reads the booking boundary dates as YYYY-MM-DD. The end date is
// exclusive: a booking occupies [start, end).
func (r bookingRequest) parseDates() (start, end time.Time, err error) {
	v := models.NewViolations(models.CodeValidationError, "Validation error")

	start, serr := time.Parse("2006-01-02", r.StartDate)
	if serr != nil {
		v.Add("Start date must be a valid date (YYYY-MM-DD)")
	}
	end, eerr := time.Parse("2006-01-02", r.EndDate)
	if eerr != nil {
		v.Add("End date must be a valid date (YYYY-MM-DD)")
	}
	if err := v.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// ListSpotBookings returns all bookings of a spot in start-date order.
func (s *Server) ListSpotBookings(c *fiber.Ctx) error {
	spotID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	bookings, err := s.bookingService.ListBookingsForSpot(c.UserContext(), spotID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// CreateBooking reserves a date range of a spot for the authenticated user.
func (s *Server) CreateBooking(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	spotID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	start, end, err := req.parseDates()
	if err != nil {
		return respondServiceError(c, err)
	}

	booking, err := s.bookingService.CreateBooking(c.UserContext(), service.BookingInput{
		UserID:    userID,
		SpotID:    spotID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// UpdateBooking moves a booking to a new date range; renter only.
func (s *Server) UpdateBooking(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	start, end, err := req.parseDates()
	if err != nil {
		return respondServiceError(c, err)
	}

	booking, err := s.bookingService.UpdateBooking(c.UserContext(), id, userID, start, end)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"booking": booking})
}

// DeleteBooking cancels a booking; renter only.
func (s *Server) DeleteBooking(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.bookingService.DeleteBooking(c.UserContext(), id, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Successfully deleted"})
}

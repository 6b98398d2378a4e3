package server

import (
	"errors"
	"strconv"

	"stayspot/internal/middleware"
	"stayspot/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads ?limit= and ?offset= with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(name + " must be a positive integer")
	}
	return uint(id), nil
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *fiber.Ctx) (uint, error) {
	uid, ok := c.Locals("userID").(uint)
	if !ok || uid == 0 {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return uid, nil
}

// statusForCode maps a business-rule error kind to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeDuplicateField, models.CodeDuplicateReview:
		return fiber.StatusConflict
	case models.CodeBookingConflict, models.CodeUnauthorized:
		return fiber.StatusForbidden
	case models.CodeDanglingReference, models.CodeValidationError:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError translates a service error into the standard error body.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := statusForCode(appErr.Code)
		if status >= fiber.StatusInternalServerError {
			middleware.Logger.ErrorContext(c.UserContext(), "request failed",
				"code", appErr.Code, "error", appErr.Error())
		}
		return models.RespondWithError(c, status, appErr)
	}

	middleware.Logger.ErrorContext(c.UserContext(), "request failed", "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

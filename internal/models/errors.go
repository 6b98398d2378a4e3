package models

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Error codes for business-rule violations. These are logical kinds, not
// transport statuses; the server layer maps them to HTTP.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeDuplicateField       = "DUPLICATE_FIELD"
	CodeDuplicateReview      = "DUPLICATE_REVIEW"
	CodeBookingConflict      = "BOOKING_CONFLICT"
	CodeDanglingReference    = "DANGLING_REFERENCE"
	CodeConsistencyViolation = "CONSISTENCY_VIOLATION"
	CodeValidationError      = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// ErrorResponse is the standardized API error body. Errors carries one
// message per violated rule, in the order the rules were checked.
type ErrorResponse struct {
	Title  string   `json:"title"`
	Code   string   `json:"code,omitempty"`
	Errors []string `json:"errors"`
}

// AppError is a structured application failure: an error kind, a
// human-readable title, and the full ordered list of violation messages
// found for a single operation.
type AppError struct {
	Code     string
	Title    string
	Messages []string
	Err      error
}

func (e *AppError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("%s: %s", e.Title, strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Title
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that a referenced entity id does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:     CodeNotFound,
		Title:    "Resource not found",
		Messages: []string{fmt.Sprintf("%s with ID %v not found", resource, id)},
	}
}

// NewDuplicateFieldError reports violated uniqueness rules, one message per
// offending field.
func NewDuplicateFieldError(fields ...string) *AppError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("User with that %s already exists", f))
	}
	return &AppError{
		Code:     CodeDuplicateField,
		Title:    "User already exists",
		Messages: msgs,
	}
}

// NewDuplicateReviewError reports a second review by the same user for the
// same spot.
func NewDuplicateReviewError() *AppError {
	return &AppError{
		Code:     CodeDuplicateReview,
		Title:    "Review already exists",
		Messages: []string{"User already has a review for this spot"},
	}
}

// NewBookingConflictError reports an overlapping date range for a spot.
// Pass one message per conflicting boundary; with no arguments a generic
// conflict message is used.
func NewBookingConflictError(messages ...string) *AppError {
	if len(messages) == 0 {
		messages = []string{"Requested dates conflict with an existing booking"}
	}
	return &AppError{
		Code:     CodeBookingConflict,
		Title:    "Sorry, this spot is already booked for the specified dates",
		Messages: messages,
	}
}

// NewDanglingReferenceError reports a foreign key that does not resolve.
func NewDanglingReferenceError(field string) *AppError {
	return &AppError{
		Code:     CodeDanglingReference,
		Title:    "Invalid reference",
		Messages: []string{fmt.Sprintf("%s does not reference an existing record", field)},
	}
}

// NewConsistencyViolationError reports an observed state the integrity
// checks should have prevented. Always a bug signal.
func NewConsistencyViolationError(message string) *AppError {
	return &AppError{
		Code:     CodeConsistencyViolation,
		Title:    "Internal consistency violation",
		Messages: []string{message},
	}
}

// NewValidationError reports a malformed or rule-violating input.
func NewValidationError(messages ...string) *AppError {
	return &AppError{
		Code:     CodeValidationError,
		Title:    "Validation error",
		Messages: messages,
	}
}

// NewUnauthorizedError reports a failed authentication or authorization.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:     CodeUnauthorized,
		Title:    "Unauthorized",
		Messages: []string{message},
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:  CodeInternalError,
		Title: "Internal server error",
		Err:   err,
	}
}

// Violations accumulates rule failures for a single operation so callers
// receive the complete list, not just the first one found.
type Violations struct {
	code     string
	title    string
	messages []string
}

// NewViolations creates a collector that, if any violation is added,
// flattens to an AppError with the given kind and title.
func NewViolations(code, title string) *Violations {
	return &Violations{code: code, title: title}
}

// Add records a violation message.
func (v *Violations) Add(format string, args ...interface{}) {
	v.messages = append(v.messages, fmt.Sprintf(format, args...))
}

// Any reports whether at least one violation was recorded.
func (v *Violations) Any() bool {
	return len(v.messages) > 0
}

// Err returns the accumulated AppError, or nil when no violation occurred.
func (v *Violations) Err() error {
	if !v.Any() {
		return nil
	}
	return &AppError{Code: v.code, Title: v.title, Messages: v.messages}
}

// RespondWithError writes a standardized error response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Title:  appErr.Title,
			Code:   appErr.Code,
			Errors: appErr.Messages,
		}
		if len(response.Errors) == 0 && appErr.Err != nil {
			response.Errors = []string{appErr.Err.Error()}
		}
	} else {
		response = ErrorResponse{
			Title:  "Request failed",
			Errors: []string{err.Error()},
		}
	}

	return c.Status(status).JSON(response)
}

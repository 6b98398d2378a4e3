package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingEndpoints(t *testing.T) {
	_, app := newTestServer(t)

	_, ownerToken := signupUser(t, app, "owner")
	_, renterToken := signupUser(t, app, "renter")
	_, otherToken := signupUser(t, app, "other")
	spotID := createSpotViaAPI(t, app, ownerToken)

	bookingsPath := fmt.Sprintf("/api/spots/%d/bookings", spotID)

	resp, body := doJSON(t, app, http.MethodPost, bookingsPath, renterToken, map[string]interface{}{
		"start_date": "2024-01-10",
		"end_date":   "2024-01-15",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	booking := body["booking"].(map[string]interface{})
	assert.Equal(t, "pending", booking["status"])
	bookingID := uint(booking["id"].(float64))

	t.Run("OverlapIs403WithBoundaryMessages", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, bookingsPath, otherToken, map[string]interface{}{
			"start_date": "2024-01-14",
			"end_date":   "2024-01-20",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "BOOKING_CONFLICT", body["code"])
		assert.Contains(t, body["errors"], "Start date conflicts with an existing booking")
	})

	t.Run("BackToBackIs201", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, bookingsPath, otherToken, map[string]interface{}{
			"start_date": "2024-01-15",
			"end_date":   "2024-01-20",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("BadDateIs400", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, bookingsPath, otherToken, map[string]interface{}{
			"start_date": "not-a-date",
			"end_date":   "2024-02-01",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("ListShowsAllInStartOrder", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, bookingsPath, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["bookings"], 2)
	})

	t.Run("UpdateByNonRenterIs403", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), otherToken, map[string]interface{}{
			"start_date": "2024-03-01",
			"end_date":   "2024-03-05",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RenterMovesBooking", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), renterToken, map[string]interface{}{
			"start_date": "2024-03-01",
			"end_date":   "2024-03-05",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("MyBookings", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/users/me/bookings", renterToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["bookings"], 1)
	})

	t.Run("DeleteAndGone", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), renterToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), renterToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("UnknownSpotIs400DanglingReference", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/spots/9999/bookings", renterToken, map[string]interface{}{
			"start_date": "2024-05-01",
			"end_date":   "2024-05-05",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "DANGLING_REFERENCE", body["code"])
	})
}

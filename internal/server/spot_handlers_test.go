package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpotLifecycle(t *testing.T) {
	s, app := newTestServer(t)

	_, ownerToken := signupUser(t, app, "owner")
	_, strangerToken := signupUser(t, app, "stranger")
	spotID := createSpotViaAPI(t, app, ownerToken)

	t.Run("GetWithEmptyAggregates", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		spot := body["spot"].(map[string]interface{})
		assert.Nil(t, spot["avg_rating"])
		assert.Nil(t, spot["preview_image"])
	})

	t.Run("AggregatesAppearAfterReviewAndPreview", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/spots/%d/reviews", spotID), strangerToken, map[string]interface{}{
			"review": "Lovely place",
			"stars":  4,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, imgBody := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/spots/%d/images", spotID), ownerToken, map[string]interface{}{
			"url":     "https://img.example/main.jpg",
			"preview": true,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotNil(t, imgBody["image"])

		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		spot := body["spot"].(map[string]interface{})
		assert.Equal(t, 4.0, spot["avg_rating"])
		assert.Equal(t, "https://img.example/main.jpg", spot["preview_image"])
	})

	t.Run("UpdateByStrangerIs403", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/spots/%d", spotID), strangerToken, map[string]interface{}{
			"address": "1 Other St",
			"city":    "Salem",
			"state":   "OR",
			"country": "United States",
			"lat":     44.9,
			"lng":     -123.0,
			"name":    "Taken Over",
			"price":   10.0,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("ValidationErrorsListedInBody", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/spots/", ownerToken, map[string]interface{}{
			"lat": 200.0,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		assert.NotEmpty(t, body["errors"])
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/spots/%d", spotID), ownerToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/spots/%d", spotID), "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", body["code"])

		// children are gone too
		reviews, err := s.reviewRepo.ListBySpot(context.Background(), spotID)
		assert.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("MissingSpotIs404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/spots/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadIDIs400", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/spots/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListSpotsPagination(t *testing.T) {
	_, app := newTestServer(t)
	_, token := signupUser(t, app, "owner")

	for i := 0; i < 3; i++ {
		createSpotViaAPI(t, app, token)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/spots/?limit=2&offset=0", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["spots"], 2)

	resp, body = doJSON(t, app, http.MethodGet, "/api/spots/?limit=2&offset=2", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["spots"], 1)
}

func TestGetMySpots(t *testing.T) {
	_, app := newTestServer(t)
	_, ownerToken := signupUser(t, app, "owner")
	_, otherToken := signupUser(t, app, "other")

	createSpotViaAPI(t, app, ownerToken)
	createSpotViaAPI(t, app, otherToken)

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/me/spots", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["spots"], 1)
}

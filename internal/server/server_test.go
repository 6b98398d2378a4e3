package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayspot/internal/config"
	"stayspot/internal/featureflags"
	"stayspot/internal/middleware"
	"stayspot/internal/models"
	"stayspot/internal/repository"
	"stayspot/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server around an in-memory sqlite database. The
// Prometheus middleware is left out so repeated setups do not re-register
// collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Spot{},
		&models.Booking{},
		&models.Review{},
		&models.Image{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		Env:       "test",
	}

	s := &Server{
		config:       cfg,
		db:           db,
		featureFlags: featureflags.NewManager(""),
	}
	s.userRepo = repository.NewUserRepository(db)
	s.spotRepo = repository.NewSpotRepository(db)
	s.bookingRepo = repository.NewBookingRepository(db)
	s.reviewRepo = repository.NewReviewRepository(db)
	s.imageRepo = repository.NewImageRepository(db)
	s.userService = service.NewUserService(db, s.userRepo)
	s.spotService = service.NewSpotService(db, s.spotRepo, s.userRepo, s.imageRepo)
	s.bookingService = service.NewBookingService(db, s.bookingRepo, s.featureFlags)
	s.reviewService = service.NewReviewService(db, s.reviewRepo)
	s.imageService = service.NewImageService(db, s.imageRepo, s.spotRepo, s.reviewRepo)

	middleware.InitMiddleware(cfg)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %s: %v", raw, err)
		}
	}
	return resp, decoded
}

// signupUser registers an account through the API and returns its id and token.
func signupUser(t *testing.T, app *fiber.App, tag string) (uint, string) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"first_name": "Test",
		"last_name":  "User",
		"email":      fmt.Sprintf("%s@example.com", tag),
		"username":   tag,
		"password":   "Sup3rSecretPass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d (%v)", tag, resp.StatusCode, body)
	}
	user := body["user"].(map[string]interface{})
	return uint(user["id"].(float64)), body["token"].(string)
}

// createSpotViaAPI creates a spot through the API and returns its id.
func createSpotViaAPI(t *testing.T, app *fiber.App, token string) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/spots/", token, map[string]interface{}{
		"address": "123 Main St",
		"city":    "Portland",
		"state":   "OR",
		"country": "United States",
		"lat":     45.52,
		"lng":     -122.68,
		"name":    "Cozy Cabin",
		"price":   120.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create spot: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	spot := body["spot"].(map[string]interface{})
	return uint(spot["id"].(float64))
}

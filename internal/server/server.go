// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stayspot/internal/cache"
	"stayspot/internal/config"
	"stayspot/internal/database"
	"stayspot/internal/featureflags"
	"stayspot/internal/middleware"
	"stayspot/internal/repository"
	"stayspot/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	userRepo    repository.UserRepository
	spotRepo    repository.SpotRepository
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
	imageRepo   repository.ImageRepository

	userService    *service.UserService
	spotService    *service.SpotService
	bookingService *service.BookingService
	reviewService  *service.ReviewService
	imageService   *service.ImageService
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDB(cfg, db), nil
}

// NewServerWithDB wires a server around an existing database handle.
// Used directly by tests with a sqlite in-memory database.
func NewServerWithDB(cfg *config.Config, db *gorm.DB) *Server {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          cache.GetClient(),
		promMiddleware: middleware.InitMetrics("stayspot-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
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

	return s
}

// SetupMiddleware attaches the security and observability middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	isProduction := s.config.IsProduction()
	isTest := s.config.Env == "test"

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.RequestLogger())

	// Security headers; the cross-origin resource policy lets image URLs
	// render from other origins.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// CORS only outside production: deployed frontend and API share an origin.
	if !isProduction {
		app.Use(cors.New(cors.Config{
			AllowOrigins: s.config.AllowedOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-XSRF-Token",
		}))
	}

	// Double-submit CSRF: a readable XSRF-TOKEN cookie is issued on every
	// response and its value must come back in the X-XSRF-Token header on
	// state-changing requests.
	if !isTest {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-XSRF-Token",
			CookieName:     "XSRF-TOKEN",
			ContextKey:     "csrf_token",
			CookieHTTPOnly: false,
			CookieSecure:   isProduction,
			CookieSameSite: "Lax",
		}))
	}

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
		app.Use(s.promMiddleware.Middleware)
	}
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/csrf/restore", s.RestoreCSRF)
	api.Get("/health", s.Health)
	app.Get("/monitor", monitor.New())

	auth := api.Group("/auth")
	auth.Post("/signup", s.rateLimited(10, "auth"), s.Signup)
	auth.Post("/login", s.rateLimited(20, "auth"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.Me)

	users := api.Group("/users")
	users.Put("/me", middleware.AuthRequired, s.UpdateMe)
	users.Get("/me/spots", middleware.AuthRequired, s.GetMySpots)
	users.Get("/me/bookings", middleware.AuthRequired, s.GetMyBookings)
	users.Get("/me/reviews", middleware.AuthRequired, s.GetMyReviews)
	users.Get("/:id", s.GetUser)

	spots := api.Group("/spots")
	spots.Get("/", s.ListSpots)
	spots.Post("/", middleware.AuthRequired, s.rateLimited(30, "spots"), s.CreateSpot)
	spots.Get("/:id", s.GetSpot)
	spots.Put("/:id", middleware.AuthRequired, s.UpdateSpot)
	spots.Delete("/:id", middleware.AuthRequired, s.DeleteSpot)
	spots.Get("/:id/bookings", s.ListSpotBookings)
	spots.Post("/:id/bookings", middleware.AuthRequired, s.rateLimited(30, "bookings"), s.CreateBooking)
	spots.Get("/:id/reviews", s.ListSpotReviews)
	spots.Post("/:id/reviews", middleware.AuthRequired, s.rateLimited(30, "reviews"), s.CreateReview)
	spots.Get("/:id/images", s.ListSpotImages)
	spots.Post("/:id/images", middleware.AuthRequired, s.AddSpotImage)

	bookings := api.Group("/bookings", middleware.AuthRequired)
	bookings.Put("/:id", s.UpdateBooking)
	bookings.Delete("/:id", s.DeleteBooking)

	reviews := api.Group("/reviews")
	reviews.Put("/:id", middleware.AuthRequired, s.UpdateReview)
	reviews.Delete("/:id", middleware.AuthRequired, s.DeleteReview)
	reviews.Post("/:id/images", middleware.AuthRequired, s.AddReviewImage)

	images := api.Group("/images", middleware.AuthRequired)
	images.Put("/:id/preview", s.SetPreviewImage)
	images.Delete("/:id", s.DeleteImage)
}

// rateLimited wraps the redis rate limiter with per-minute limits.
func (s *Server) rateLimited(perMinute int, name string) fiber.Handler {
	return middleware.RateLimit(s.redis, perMinute, time.Minute, name)
}

// Health reports process liveness and database reachability.
func (s *Server) Health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.Ping() != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

// RestoreCSRF re-issues the XSRF-TOKEN cookie and echoes the token so
// SPA clients can bootstrap after a full reload.
func (s *Server) RestoreCSRF(c *fiber.Ctx) error {
	token, _ := c.Locals("csrf_token").(string)
	return c.JSON(fiber.Map{"csrf_token": token})
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []string
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %s", strings.Join(errs, "; "))
	}
	return nil
}

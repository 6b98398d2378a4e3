package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestCheckRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	t.Run("DisabledInTestEnv", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		for i := 0; i < 10; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "r", "id", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("EnforcedInProduction", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "login", "user:1", 3, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := CheckRateLimit(ctx, rdb, "login", "user:1", 3, time.Minute)
		assert.NoError(t, err)
		assert.False(t, allowed)

		// a different id has its own counter
		allowed, err = CheckRateLimit(ctx, rdb, "login", "user:2", 3, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("WindowExpiry", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		for i := 0; i < 2; i++ {
			_, _ = CheckRateLimit(ctx, rdb, "w", "id", 2, time.Minute)
		}
		allowed, _ := CheckRateLimit(ctx, rdb, "w", "id", 2, time.Minute)
		assert.False(t, allowed)

		mr.FastForward(2 * time.Minute)

		allowed, err := CheckRateLimit(ctx, rdb, "w", "id", 2, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClientErrors", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, err := CheckRateLimit(ctx, nil, "r", "id", 1, time.Minute)
		assert.Error(t, err)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Setenv("APP_ENV", "production")

	app := fiber.New()
	app.Get("/limited", RateLimit(rdb, 2, time.Minute, "limited"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	status := func() int {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusTooManyRequests, status())
}

func TestRateLimitFailurePolicies(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	handler := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }

	t.Run("FailOpenAllows", func(t *testing.T) {
		app := fiber.New()
		app.Get("/open", RateLimitWithPolicy(nil, 1, time.Minute, FailOpen, "open"), handler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("FailClosedBlocks", func(t *testing.T) {
		app := fiber.New()
		app.Get("/closed", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed, "closed"), handler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

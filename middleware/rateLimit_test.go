package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"purchase-orders-backend/token"

	"github.com/gofiber/fiber/v2"
)

func TestIPRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewIPRateLimiter(time.Hour, 2)

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("another IP has its own bucket")
	}
}

func TestIPRateLimiterRefills(t *testing.T) {
	rl := NewIPRateLimiter(time.Minute, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("ip") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("ip") {
		t.Fatal("second request should be limited")
	}
	now = now.Add(time.Minute)
	if !rl.Allow("ip") {
		t.Fatal("bucket should refill after a minute")
	}
}

func TestIPRateLimiterHandler(t *testing.T) {
	app := fiber.New()
	app.Post("/login", NewIPRateLimiter(time.Hour, 1).Handler("Too many login attempts"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i, want := range []int{fiber.StatusOK, fiber.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != want {
			t.Fatalf("request %d status = %d, want %d", i, resp.StatusCode, want)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	app := fiber.New()
	app.Get("/import", func(c *fiber.Ctx) error {
		c.Locals(userLocalsKey, nil)
		return c.Next()
	}, RequireRoles("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/import", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	for role, want := range map[string]int{"viewer": fiber.StatusForbidden, "admin": fiber.StatusOK} {
		role := role
		app := fiber.New()
		app.Get("/import", func(c *fiber.Ctx) error {
			c.Locals(userLocalsKey, &token.Payload{Email: "ops@example.com", Role: role})
			return c.Next()
		}, RequireRoles("admin"), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest("GET", "/import", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want {
			t.Errorf("role %s status = %d, want %d", role, resp.StatusCode, want)
		}
	}
}

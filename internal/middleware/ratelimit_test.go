package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestSendRateLimiter(t *testing.T) {
	config := DefaultRateLimitConfig()
	config.SendMax = 2
	config.SendExpiration = time.Minute

	app := fiber.New()
	app.Post("/send", SendRateLimiter(config), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/send", nil))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		if resp.StatusCode != fiber.StatusAccepted {
			t.Fatalf("Request %d: expected 202, got %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/send", nil))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("Expected 429 after limit, got %d", resp.StatusCode)
	}
}

func TestLoadRateLimitConfigOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("RATE_LIMIT_SEND", "7")
	t.Setenv("RATE_LIMIT_WEBSOCKET", "nope")

	config := LoadRateLimitConfig()
	if config.SendMax != 7 {
		t.Errorf("Expected SendMax 7, got %d", config.SendMax)
	}
	if config.WebSocketMax != DefaultRateLimitConfig().WebSocketMax {
		t.Errorf("Invalid override should keep default, got %d", config.WebSocketMax)
	}
}

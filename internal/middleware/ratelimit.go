package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int
	GlobalAPIExpiration time.Duration

	// Chat sends over REST (per IP)
	SendMax        int
	SendExpiration time.Duration

	// WebSocket upgrades (per IP)
	WebSocketMax        int
	WebSocketExpiration time.Duration

	// Chat sends over an open websocket, enforced with a token bucket
	MessagesPerSecond       float64
	GlobalMessagesPerSecond float64
}

// DefaultRateLimitConfig returns production defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// 200/min = ~3.3 req/sec
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Each send starts a model call
		SendMax:        30,
		SendExpiration: 1 * time.Minute,

		WebSocketMax:        20,
		WebSocketExpiration: 1 * time.Minute,

		MessagesPerSecond:       1,
		GlobalMessagesPerSecond: 20,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if n := intEnv("RATE_LIMIT_GLOBAL_API"); n > 0 {
		config.GlobalAPIMax = n
	}
	if n := intEnv("RATE_LIMIT_SEND"); n > 0 {
		config.SendMax = n
	}
	if n := intEnv("RATE_LIMIT_WEBSOCKET"); n > 0 {
		config.WebSocketMax = n
	}

	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.WebSocketMax = 100
		config.MessagesPerSecond = 5
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

func intEnv(key string) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return newLimiter("global", config.GlobalAPIMax, config.GlobalAPIExpiration,
		"Too many requests. Please slow down.")
}

// SendRateLimiter limits REST chat sends
func SendRateLimiter(config *RateLimitConfig) fiber.Handler {
	return newLimiter("send", config.SendMax, config.SendExpiration,
		"Too many messages. Please wait before sending again.")
}

// WebSocketRateLimiter for WebSocket connection attempts
func WebSocketRateLimiter(config *RateLimitConfig) fiber.Handler {
	return newLimiter("ws", config.WebSocketMax, config.WebSocketExpiration,
		"Too many connection attempts. Please wait before reconnecting.")
}

func newLimiter(prefix string, max int, expiration time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return prefix + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] %s limit reached for IP: %s on %s", prefix, c.IP(), c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       message,
				"retry_after": int(expiration.Seconds()),
			})
		},
	})
}

package handlers

import (
	"time"

	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	connManager *services.ConnectionManager
	sessions    *services.SessionStore
	generator   string
}

// NewHealthHandler creates a new health handler. generator names the model
// backend ("gemini" or "unavailable").
func NewHealthHandler(connManager *services.ConnectionManager, sessions *services.SessionStore, generator string) *HealthHandler {
	return &HealthHandler{connManager: connManager, sessions: sessions, generator: generator}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"connections": h.connManager.Count(),
		"sessions":    h.sessions.Count(),
		"generator":   h.generator,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

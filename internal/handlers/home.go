package handlers

import (
	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler serves the landing view and sidebar previews
type HomeHandler struct {
	views    *services.ViewService
	sessions *services.SessionStore
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(views *services.ViewService, sessions *services.SessionStore) *HomeHandler {
	return &HomeHandler{views: views, sessions: sessions}
}

// Home returns the catalog view
// GET /api/home?category=&q=
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	return c.JSON(h.views.Home(c.Query("category"), c.Query("q")))
}

// Previews returns the last message per single-agent conversation
// GET /api/previews
func (h *HomeHandler) Previews(c *fiber.Ctx) error {
	return c.JSON(h.sessions.LastMessagePerAgent())
}

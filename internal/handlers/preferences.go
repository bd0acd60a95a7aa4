package handlers

import (
	"log"

	"agentdesk/internal/models"
	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PreferencesHandler handles onboarding preferences HTTP requests
type PreferencesHandler struct {
	preferences *services.PreferencesService
}

// NewPreferencesHandler creates a new PreferencesHandler
func NewPreferencesHandler(preferences *services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferences: preferences}
}

// Get retrieves preferences
// GET /api/preferences
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	prefs, err := h.preferences.Get()
	if err != nil {
		log.Printf("⚠️  [PREFERENCES] Read failed, serving defaults: %v", err)
		return c.JSON(models.Preferences{SelectedAgentIDs: []string{}})
	}
	return c.JSON(prefs)
}

// Update stores onboarding completion and the initially selected agents
// PUT /api/preferences
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	var req models.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	prefs, err := h.preferences.Update(req)
	if err != nil {
		log.Printf("❌ [PREFERENCES] Update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update preferences",
		})
	}
	return c.JSON(prefs)
}

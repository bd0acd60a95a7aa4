package handlers

import (
	"agentdesk/internal/catalog"
	"agentdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AgentHandler serves the read-only agent catalog
type AgentHandler struct {
	catalog *catalog.Catalog
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(cat *catalog.Catalog) *AgentHandler {
	return &AgentHandler{catalog: cat}
}

// List returns agents filtered by category and search text
// GET /api/agents?category=&q=
func (h *AgentHandler) List(c *fiber.Ctx) error {
	category := c.Query("category")
	if category != "" && category != "All" {
		if _, ok := models.ParseCategory(category); !ok {
			return badRequest(c, "Unknown category")
		}
	}
	return c.JSON(h.catalog.Filter(category, c.Query("q")))
}

// Get returns one agent
// GET /api/agents/:id
func (h *AgentHandler) Get(c *fiber.Ctx) error {
	agent, ok := h.catalog.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}
	return c.JSON(fiber.Map{
		"agent":         agent,
		"icon":          agent.IconName(),
		"featuredCases": catalog.FeaturedCases(agent.Category),
	})
}

// Scenarios returns the home-page scenarios
// GET /api/scenarios
func (h *AgentHandler) Scenarios(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Scenarios())
}

// Categories returns categories with their icons and agent counts
// GET /api/categories
func (h *AgentHandler) Categories(c *fiber.Ctx) error {
	byCategory := h.catalog.ByCategory()
	out := make([]fiber.Map, 0, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		out = append(out, fiber.Map{
			"name":  cat,
			"icon":  cat.Icon(),
			"count": len(byCategory[cat]),
		})
	}
	return c.JSON(out)
}

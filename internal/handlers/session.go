package handlers

import (
	"context"
	"log"

	"agentdesk/internal/catalog"
	"agentdesk/internal/models"
	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles chat session HTTP requests
type SessionHandler struct {
	ctx      context.Context // parent of turns started over REST
	catalog  *catalog.Catalog
	sessions *services.SessionStore
	chat     *services.ChatService
	views    *services.ViewService
}

// NewSessionHandler creates a new session handler. Turns started through
// SendMessage live until ctx is cancelled or they finish.
func NewSessionHandler(ctx context.Context, cat *catalog.Catalog, sessions *services.SessionStore, chat *services.ChatService, views *services.ViewService) *SessionHandler {
	return &SessionHandler{ctx: ctx, catalog: cat, sessions: sessions, chat: chat, views: views}
}

// List returns the sidebar, pinned first then most recently updated
// GET /api/sessions
func (h *SessionHandler) List(c *fiber.Ctx) error {
	sorted := h.sessions.Sorted()
	items := make([]models.ChatListItem, len(sorted))
	for i := range sorted {
		items[i] = sorted[i].ToListItem()
	}
	return c.JSON(items)
}

// Create opens a single-agent session, reusing the agent's latest one
// POST /api/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req models.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.AgentID == "" {
		return badRequest(c, "agent_id is required")
	}
	agent, ok := h.catalog.Get(req.AgentID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Agent not found"})
	}

	sess := h.sessions.CreateSingleSession(agent)
	log.Printf("💬 [SESSION] Opened %s for agent %s", sess.ID, agent.ID)
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// Get resolves the chat view for a session
// GET /api/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	view := h.views.Chat(c.Params("id"))
	if !view.Found() {
		return c.Status(fiber.StatusNotFound).JSON(view)
	}
	return c.JSON(view)
}

// Delete removes a session and sends the client home
// DELETE /api/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	removed := h.chat.DeleteSession(c.Params("id"))
	return c.JSON(fiber.Map{"deleted": removed, "redirect": "/"})
}

// TogglePin flips the pinned flag
// POST /api/sessions/:id/pin
func (h *SessionHandler) TogglePin(c *fiber.Ctx) error {
	sess, ok := h.sessions.TogglePin(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(sess.ToListItem())
}

// ToggleFavorite flips the favorite flag
// POST /api/sessions/:id/favorite
func (h *SessionHandler) ToggleFavorite(c *fiber.Ctx) error {
	sess, ok := h.sessions.ToggleFavorite(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(sess.ToListItem())
}

// End marks the session completed
// POST /api/sessions/:id/end
func (h *SessionHandler) End(c *fiber.Ctx) error {
	sess, err := h.chat.EndSession(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(sess)
}

// ApplyCase loads a featured case's tutorial exchange
// POST /api/sessions/:id/cases
func (h *SessionHandler) ApplyCase(c *fiber.Ctx) error {
	var req models.ApplyCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	sess, err := h.chat.ApplyFeaturedCase(c.Params("id"), req.Title)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(sess)
}

// ReplaceMessages overwrites the message list
// PUT /api/sessions/:id/messages
func (h *SessionHandler) ReplaceMessages(c *fiber.Ctx) error {
	var req models.ReplaceMessagesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Messages == nil {
		req.Messages = []models.Message{}
	}
	sess, err := h.chat.ReplaceMessages(c.Params("id"), req.Messages)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(sess)
}

// SendMessage starts a generation turn; progress arrives over /ws/chat
// POST /api/sessions/:id/messages
func (h *SessionHandler) SendMessage(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	info, err := h.chat.SendMessage(h.ctx, c.Params("id"), req.Content, req.TargetAgentID)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(info)
}

// Stop cancels the in-flight turn
// POST /api/sessions/:id/stop
func (h *SessionHandler) Stop(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cancelled": h.chat.CancelTurn(c.Params("id"))})
}

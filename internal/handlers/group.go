package handlers

import (
	"log"

	"agentdesk/internal/models"
	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GroupHandler handles collaboration group HTTP requests
type GroupHandler struct {
	sessions *services.SessionStore
	groups   *services.GroupStore
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(sessions *services.SessionStore, groups *services.GroupStore) *GroupHandler {
	return &GroupHandler{sessions: sessions, groups: groups}
}

// List returns groups, most recently updated first
// GET /api/groups
func (h *GroupHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.groups.List())
}

// Create forms a collaboration and opens its first session
// POST /api/groups
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var req models.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sess, group, err := h.sessions.CreateCollaborationSession(req.AgentIDs, req.Name, req.InitialMessage)
	if err != nil {
		return sendError(c, err)
	}
	log.Printf("👥 [GROUP] %s formed with %d agents, session %s", group.ID, len(group.MemberAgentIDs), sess.ID)
	return c.Status(fiber.StatusCreated).JSON(models.CreateGroupResponse{Group: group, Session: sess})
}

// UpdateStatus moves the group to active, pending or completed
// POST /api/groups/:id/status
func (h *GroupHandler) UpdateStatus(c *fiber.Ctx) error {
	var req models.UpdateGroupStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groups.SetStatus(c.Params("id"), req.Status)
	if err != nil {
		return sendError(c, err)
	}
	log.Printf("👥 [GROUP] %s status -> %s", group.ID, group.Status)
	return c.JSON(group)
}

// Open resumes the group's active session (or starts one) and clears unread
// POST /api/groups/:id/open
func (h *GroupHandler) Open(c *fiber.Ctx) error {
	sess, group, err := h.sessions.OpenGroup(c.Params("id"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(models.CreateGroupResponse{Group: group, Session: sess})
}

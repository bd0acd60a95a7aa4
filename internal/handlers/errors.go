package handlers

import (
	"errors"

	"agentdesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

// errorCode maps service errors to an HTTP status and a short machine code
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrAgentNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrEmptyRoster),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrInvalidStatus):
		return fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, services.ErrSessionCompleted):
		return fiber.StatusConflict, "session_completed"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status, _ := errorCode(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

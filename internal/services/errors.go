package services

import "errors"

// Lookup and validation errors returned by the chat services
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrAgentNotFound    = errors.New("agent not found")
	ErrEmptyRoster      = errors.New("collaboration requires at least one agent")
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrSessionCompleted = errors.New("session is completed")
	ErrInvalidStatus    = errors.New("invalid group status")
)

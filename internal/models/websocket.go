package models

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type          string `json:"type"` // "select_session", "chat_message", "stop_generation", "resume_stream", "ping"
	SessionID     string `json:"session_id"`
	Content       string `json:"content,omitempty"`
	TargetAgentID string `json:"target_agent_id,omitempty"` // Collaboration only: address one member
}

// ServerMessage represents a message sent to the client
type ServerMessage struct {
	Type         string    `json:"type"` // "connected", "stream_chunk", "steps_update", "stream_end", "stream_resume", "pong", "error"
	SessionID    string    `json:"session_id,omitempty"`
	TurnID       string    `json:"turn_id,omitempty"`
	Content      string    `json:"content,omitempty"` // Full accumulated content, not a delta
	Steps        []StepLog `json:"steps,omitempty"`
	Message      *Message  `json:"message,omitempty"` // Final model message on stream_end
	Status       string    `json:"status,omitempty"`  // stream_end: "completed", "failed", "cancelled"
	IsComplete   bool      `json:"is_complete,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	ErrorCode    string    `json:"code,omitempty"`
	ErrorMessage string    `json:"message_text,omitempty"`
}

// UserConnection represents a single WebSocket connection
type UserConnection struct {
	ConnID    string
	ClientIP  string
	Conn      *websocket.Conn
	SessionID string // Session the client is currently viewing
	CreatedAt time.Time
	WriteChan chan ServerMessage
	Mutex     sync.Mutex
	closed    bool
}

// terminal messages must reach the client; chunks carry the full content so
// a dropped one is repaired by the next
func (m ServerMessage) terminal() bool {
	switch m.Type {
	case "stream_end", "stream_resume", "error":
		return true
	}
	return false
}

// SafeSend sends a message to WriteChan safely, returning false if the channel is closed.
// It never blocks. When the channel is full a terminal message evicts the oldest
// queued message, other messages are dropped.
func (uc *UserConnection) SafeSend(msg ServerMessage) bool {
	uc.Mutex.Lock()
	if uc.closed {
		uc.Mutex.Unlock()
		return false
	}
	uc.Mutex.Unlock()

	// Use defer/recover to handle panic from send on closed channel
	defer func() {
		if r := recover(); r != nil {
			uc.Mutex.Lock()
			uc.closed = true
			uc.Mutex.Unlock()
		}
	}()

	select {
	case uc.WriteChan <- msg:
		return true
	default:
	}
	if !msg.terminal() {
		// Slow reader; drop rather than block the turn
		return false
	}

	for attempt := 0; attempt < 3; attempt++ {
		select {
		case <-uc.WriteChan:
		default:
		}
		select {
		case uc.WriteChan <- msg:
			return true
		default:
		}
	}
	return false
}

// MarkClosed marks the connection as closed
func (uc *UserConnection) MarkClosed() {
	uc.Mutex.Lock()
	uc.closed = true
	uc.Mutex.Unlock()
}

// IsClosed returns true if the connection has been marked as closed
func (uc *UserConnection) IsClosed() bool {
	uc.Mutex.Lock()
	defer uc.Mutex.Unlock()
	return uc.closed
}

// CurrentSession returns the session the client is viewing
func (uc *UserConnection) CurrentSession() string {
	uc.Mutex.Lock()
	defer uc.Mutex.Unlock()
	return uc.SessionID
}

// SwitchSession records a new viewed session and returns the previous one
func (uc *UserConnection) SwitchSession(sessionID string) string {
	uc.Mutex.Lock()
	defer uc.Mutex.Unlock()
	prev := uc.SessionID
	uc.SessionID = sessionID
	return prev
}

package models

// Message roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Step statuses. Transitions only move forward.
const (
	StepPending    = "pending"
	StepProcessing = "processing"
	StepCompleted  = "completed"
)

// Session types
const (
	SessionSingle        = "single"
	SessionCollaboration = "collaboration"
)

// Session statuses. completed is terminal.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// StepLog is one stage of the "thinking steps" trace attached to a model message
type StepLog struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`    // "pending", "processing", "completed"
	Timestamp   string `json:"timestamp"` // Display label, e.g. "00:01"
}

// Message is a single chat message owned by a ChatSession
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "model"
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds
	Steps     []StepLog `json:"steps,omitempty"`
}

// HistoryEntry is the role/content pair sent to the generative model
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is one conversation thread with a single agent or a collaboration group
type ChatSession struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	AgentID    string    `json:"agentId"`            // Primary agent or representative
	AgentIDs   []string  `json:"agentIds,omitempty"` // Collaboration roster
	Type       string    `json:"type"`               // "single" or "collaboration"
	Messages   []Message `json:"messages"`
	UpdatedAt  int64     `json:"updatedAt"` // Unix milliseconds
	IsPinned   bool      `json:"isPinned"`
	IsFavorite bool      `json:"isFavorite"`
	Status     string    `json:"status"` // "active" or "completed"
	GroupID    string    `json:"groupId,omitempty"`
	GroupName  string    `json:"groupName,omitempty"`
}

// IsCollaboration reports whether the session is backed by a collaboration group
func (s *ChatSession) IsCollaboration() bool {
	return s.Type == SessionCollaboration
}

// Clone returns a deep copy so callers never share message slices with the store
func (s ChatSession) Clone() ChatSession {
	out := s
	if s.AgentIDs != nil {
		out.AgentIDs = append([]string(nil), s.AgentIDs...)
	}
	out.Messages = CloneMessages(s.Messages)
	return out
}

// CloneMessages deep-copies a message list including step logs
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return []Message{}
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.Steps != nil {
			out[i].Steps = append([]StepLog(nil), m.Steps...)
		}
	}
	return out
}

// ChatListItem is the sidebar summary of a session (no messages)
type ChatListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	AgentID      string `json:"agentId"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	IsPinned     bool   `json:"isPinned"`
	IsFavorite   bool   `json:"isFavorite"`
	GroupID      string `json:"groupId,omitempty"`
	MessageCount int    `json:"messageCount"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// ToListItem converts a session to its sidebar summary
func (s *ChatSession) ToListItem() ChatListItem {
	return ChatListItem{
		ID:           s.ID,
		Title:        s.Title,
		AgentID:      s.AgentID,
		Type:         s.Type,
		Status:       s.Status,
		IsPinned:     s.IsPinned,
		IsFavorite:   s.IsFavorite,
		GroupID:      s.GroupID,
		MessageCount: len(s.Messages),
		UpdatedAt:    s.UpdatedAt,
	}
}

// AgentPreview is the sidebar preview line for a single-agent conversation
type AgentPreview struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// CreateSessionRequest is the request body for starting a single-agent chat
type CreateSessionRequest struct {
	AgentID string `json:"agent_id"`
}

// ReplaceMessagesRequest is the request body for wholesale message replacement
type ReplaceMessagesRequest struct {
	Messages []Message `json:"messages"`
}

// SendMessageRequest is the request body for sending a chat message over REST
type SendMessageRequest struct {
	Content       string `json:"content"`
	TargetAgentID string `json:"target_agent_id,omitempty"` // Collaboration only: address one member
}

// ApplyCaseRequest is the request body for loading a featured case
type ApplyCaseRequest struct {
	Title string `json:"title"`
}

package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"agentdesk/internal/models"
)

// Stream buffer limits
const (
	MaxBufferSize     = 1 << 20 // 1MB of accumulated content per buffer
	DefaultBufferTTL  = 2 * time.Minute
	ResumeMinInterval = time.Second
)

var (
	ErrBufferNotFound     = errors.New("stream buffer not found")
	ErrBufferSizeExceeded = errors.New("stream buffer size exceeded")
	ErrResumeTooFast      = errors.New("resume rate limit exceeded")
)

// StreamBuffer mirrors the last flushed state of a turn so a client that
// reconnects mid-generation can pick up where the stream is
type StreamBuffer struct {
	SessionID   string
	TurnID      string
	Content     string           // Full accumulated content (flushes carry full content)
	Steps       []models.StepLog // Latest step snapshot
	Status      string           // Final status once complete
	IsComplete  bool
	Message     *models.Message // Final message once complete
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResumeCount int
	LastResume  time.Time
	mutex       sync.Mutex
}

// StreamBufferService keeps one buffer per session for the in-flight or just-finished turn
type StreamBufferService struct {
	buffers map[string]*StreamBuffer // sessionID -> buffer
	mutex   sync.RWMutex
	ttl     time.Duration
}

// NewStreamBufferService creates a new stream buffer service. Expired buffers
// are removed by Cleanup, which the job scheduler calls periodically.
func NewStreamBufferService(ttl time.Duration) *StreamBufferService {
	if ttl <= 0 {
		ttl = DefaultBufferTTL
	}
	log.Println("📦 StreamBufferService initialized")
	return &StreamBufferService{
		buffers: make(map[string]*StreamBuffer),
		ttl:     ttl,
	}
}

// Cleanup removes buffers that have not been updated within the TTL
func (s *StreamBufferService) Cleanup() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	expired := 0
	for sessionID, buf := range s.buffers {
		buf.mutex.Lock()
		stale := now.Sub(buf.UpdatedAt) > s.ttl
		buf.mutex.Unlock()
		if stale {
			delete(s.buffers, sessionID)
			expired++
		}
	}
	if expired > 0 {
		log.Printf("📦 Cleaned up %d expired buffers, %d active", expired, len(s.buffers))
	}
	return expired
}

// Shutdown drops all buffers
func (s *StreamBufferService) Shutdown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.buffers = make(map[string]*StreamBuffer)
	log.Println("📦 StreamBufferService shutdown complete")
}

// CreateBuffer starts a buffer for a new turn, replacing any older turn's buffer
func (s *StreamBufferService) CreateBuffer(sessionID, turnID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	s.buffers[sessionID] = &StreamBuffer{
		SessionID: sessionID,
		TurnID:    turnID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *StreamBufferService) lookup(sessionID, turnID string) *StreamBuffer {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	buf, exists := s.buffers[sessionID]
	if !exists || buf.TurnID != turnID {
		return nil
	}
	return buf
}

// UpdateContent records the latest flushed content of a turn
func (s *StreamBufferService) UpdateContent(sessionID, turnID, content string) error {
	buf := s.lookup(sessionID, turnID)
	if buf == nil {
		return nil
	}
	if len(content) > MaxBufferSize {
		log.Printf("⚠️ Buffer size exceeded for session %s (max: %d bytes)", sessionID, MaxBufferSize)
		return ErrBufferSizeExceeded
	}

	buf.mutex.Lock()
	defer buf.mutex.Unlock()
	buf.Content = content
	buf.UpdatedAt = time.Now()
	return nil
}

// UpdateSteps records the latest step snapshot of a turn
func (s *StreamBufferService) UpdateSteps(sessionID, turnID string, steps []models.StepLog) {
	buf := s.lookup(sessionID, turnID)
	if buf == nil {
		return
	}

	buf.mutex.Lock()
	defer buf.mutex.Unlock()
	buf.Steps = append([]models.StepLog(nil), steps...)
	buf.UpdatedAt = time.Now()
}

// MarkComplete records how the turn ended
func (s *StreamBufferService) MarkComplete(sessionID, turnID, status string, msg *models.Message) {
	buf := s.lookup(sessionID, turnID)
	if buf == nil {
		return
	}

	buf.mutex.Lock()
	defer buf.mutex.Unlock()
	buf.IsComplete = true
	buf.Status = status
	if msg != nil {
		m := *msg
		m.Steps = append([]models.StepLog(nil), msg.Steps...)
		buf.Message = &m
		buf.Content = m.Content
		buf.Steps = m.Steps
	}
	buf.UpdatedAt = time.Now()
}

// ClearBuffer removes a session's buffer
func (s *StreamBufferService) ClearBuffer(sessionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.buffers, sessionID)
}

// HasBuffer checks if a buffer exists for a session
func (s *StreamBufferService) HasBuffer(sessionID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, exists := s.buffers[sessionID]
	return exists
}

// GetBufferStats returns statistics about the buffer service
func (s *StreamBufferService) GetBufferStats() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	totalSize := 0
	complete := 0
	for _, buf := range s.buffers {
		buf.mutex.Lock()
		totalSize += len(buf.Content)
		if buf.IsComplete {
			complete++
		}
		buf.mutex.Unlock()
	}

	return map[string]interface{}{
		"active_buffers":   len(s.buffers),
		"complete_buffers": complete,
		"total_size":       totalSize,
	}
}

// BufferData is a snapshot used to answer a resume request
type BufferData struct {
	SessionID  string
	TurnID     string
	Content    string
	Steps      []models.StepLog
	Status     string
	IsComplete bool
	Message    *models.Message
}

// GetBufferData returns a snapshot for resume. At most one resume per second per session.
func (s *StreamBufferService) GetBufferData(sessionID string) (*BufferData, error) {
	s.mutex.RLock()
	buf, exists := s.buffers[sessionID]
	s.mutex.RUnlock()
	if !exists {
		return nil, ErrBufferNotFound
	}

	buf.mutex.Lock()
	defer buf.mutex.Unlock()

	if time.Since(buf.LastResume) < ResumeMinInterval {
		return nil, ErrResumeTooFast
	}
	buf.ResumeCount++
	buf.LastResume = time.Now()

	log.Printf("📦 Buffer retrieved for session %s (resume #%d, %d bytes)",
		sessionID, buf.ResumeCount, len(buf.Content))

	data := &BufferData{
		SessionID:  buf.SessionID,
		TurnID:     buf.TurnID,
		Content:    buf.Content,
		Steps:      append([]models.StepLog(nil), buf.Steps...),
		Status:     buf.Status,
		IsComplete: buf.IsComplete,
	}
	if buf.Message != nil {
		m := *buf.Message
		data.Message = &m
	}
	return data, nil
}

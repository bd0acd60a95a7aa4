package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agentdesk/internal/catalog"
	"agentdesk/internal/llm"
	"agentdesk/internal/logging"
	"agentdesk/internal/models"

	"github.com/google/uuid"
)

// CoordinatorInstruction conditions the model for collaboration sessions
const CoordinatorInstruction = "你是迪尚集团的虚拟专家团队协调员。请根据用户需求，调度相关领域的Agent进行回答。"

// Turn event types
const (
	TurnEventFlush = "flush"
	TurnEventSteps = "steps"
	TurnEventDone  = "done"
)

// Final turn statuses
const (
	TurnCompleted = "completed"
	TurnFailed    = "failed"
	TurnCancelled = "cancelled"
)

// TurnEvent is published to subscribers while a turn runs
type TurnEvent struct {
	Type      string
	SessionID string
	TurnID    string
	Content   string           // flush: full accumulated content
	Steps     []models.StepLog // steps: latest snapshot
	Message   *models.Message  // done: final model message (nil when cancelled)
	Status    string           // done: completed, failed, cancelled
}

// TurnListener receives turn events. It is called with the coordinator lock
// held and must not call back into ChatService.
type TurnListener func(TurnEvent)

// SessionWatchers reports how many clients are looking at a session
type SessionWatchers interface {
	ViewerCount(sessionID string) int
}

// TurnInfo identifies a started turn
type TurnInfo struct {
	TurnID      string         `json:"turnId"`
	SessionID   string         `json:"sessionId"`
	UserMessage models.Message `json:"userMessage"`
}

type turn struct {
	id        string
	sessionID string
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// ChatService coordinates generation turns: at most one per session, with
// relay and step simulator joined before the final message is written.
type ChatService struct {
	sessions *SessionStore
	groups   *GroupStore
	catalog  *catalog.Catalog
	relay    *StreamRelay
	steps    *StepSimulator

	streamBuffer *StreamBufferService
	watchers     SessionWatchers

	mu    sync.Mutex // coordinator lock; every turn write happens under it
	turns map[string]*turn

	listenersMu sync.RWMutex
	listeners   map[string]TurnListener

	wg sync.WaitGroup
}

// NewChatService creates a new chat service
func NewChatService(sessions *SessionStore, groups *GroupStore, cat *catalog.Catalog, relay *StreamRelay, steps *StepSimulator) *ChatService {
	return &ChatService{
		sessions:  sessions,
		groups:    groups,
		catalog:   cat,
		relay:     relay,
		steps:     steps,
		turns:     make(map[string]*turn),
		listeners: make(map[string]TurnListener),
	}
}

// SetStreamBuffer enables resumable streams
func (s *ChatService) SetStreamBuffer(buf *StreamBufferService) {
	s.streamBuffer = buf
}

// SetWatchers lets the service tell whether anyone saw a collaboration reply
func (s *ChatService) SetWatchers(w SessionWatchers) {
	s.watchers = w
}

// GetStreamBuffer returns the stream buffer service
func (s *ChatService) GetStreamBuffer() *StreamBufferService {
	return s.streamBuffer
}

// Subscribe registers a listener and returns a function that removes it
func (s *ChatService) Subscribe(listener TurnListener) func() {
	id := uuid.New().String()
	s.listenersMu.Lock()
	s.listeners[id] = listener
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *ChatService) publish(ev TurnEvent) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, l := range s.listeners {
		l(ev)
	}
}

// SendMessage appends a user message and starts a generation turn in the
// background. Any in-flight turn on the same session is cancelled first.
// The turn context derives from ctx, so cancelling ctx cancels the turn.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, text, targetAgentID string) (TurnInfo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnInfo{}, ErrEmptyMessage
	}

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return TurnInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	prompt := text
	instruction := CoordinatorInstruction
	agentID := sess.AgentID
	if sess.IsCollaboration() {
		if targetAgentID != "" && containsID(sess.AgentIDs, targetAgentID) {
			if target, found := s.catalog.Get(targetAgentID); found {
				prompt = fmt.Sprintf("@%s %s", target.Name, text)
				agentID = target.ID
			}
		}
	} else {
		agent, found := s.catalog.Get(sess.AgentID)
		if !found {
			return TurnInfo{}, fmt.Errorf("%w: %s", ErrAgentNotFound, sess.AgentID)
		}
		instruction = agent.SystemInstruction
	}

	userMsg := models.Message{
		ID:        timestampID(),
		Role:      models.RoleUser,
		Content:   prompt,
		Timestamp: nowMillis(),
	}

	s.mu.Lock()
	s.cancelLocked(sessionID)

	// Re-read under the coordinator lock so no turn write or EndSession can interleave
	sess, ok = s.sessions.Get(sessionID)
	if !ok {
		s.mu.Unlock()
		return TurnInfo{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if sess.Status == models.SessionCompleted {
		s.mu.Unlock()
		return TurnInfo{}, fmt.Errorf("%w: %s", ErrSessionCompleted, sessionID)
	}
	history := toHistory(sess.Messages)
	base := append(models.CloneMessages(sess.Messages), userMsg)
	if _, err := s.sessions.AppendMessages(sessionID, base); err != nil {
		s.mu.Unlock()
		return TurnInfo{}, err
	}

	turnCtx, cancel := context.WithCancel(ctx)
	t := &turn{
		id:        uuid.New().String(),
		sessionID: sessionID,
		ctx:       turnCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	s.turns[sessionID] = t
	if s.streamBuffer != nil {
		s.streamBuffer.CreateBuffer(sessionID, t.id)
	}
	s.wg.Add(1)
	s.mu.Unlock()

	req := llm.Request{
		Prompt:            prompt,
		SystemInstruction: instruction,
		History:           history,
	}
	logger := logging.WithTurn(logging.WithSession(sessionID, sess.Type), t.id, agentID)
	go s.runTurn(t, sess, base, req, logger)

	if m := GetMetrics(); m != nil {
		m.RecordTurnStarted()
	}
	return TurnInfo{TurnID: t.id, SessionID: sessionID, UserMessage: userMsg}, nil
}

// runTurn runs relay and simulator concurrently and writes the final message
// once both have settled, provided the turn is still current
func (s *ChatService) runTurn(t *turn, sess models.ChatSession, base []models.Message, req llm.Request, logger *slog.Logger) {
	defer s.wg.Done()
	defer close(t.done)
	defer t.cancel()

	start := time.Now()
	modelMsgID := timestampID()
	logger.Info("turn started", "history", len(req.History))

	var (
		wg      sync.WaitGroup
		result  RelayResult
		steps   []models.StepLog
		stepsOK bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		result, _ = s.relay.Relay(t.ctx, req, func(content string) {
			s.guard(t, func() {
				partial := append(models.CloneMessages(base), models.Message{
					ID:        modelMsgID,
					Role:      models.RoleModel,
					Content:   content,
					Timestamp: nowMillis(),
				})
				if _, err := s.sessions.AppendMessages(t.sessionID, partial); err != nil {
					logger.Warn("partial write failed", "error", err)
					return
				}
				if s.streamBuffer != nil {
					_ = s.streamBuffer.UpdateContent(t.sessionID, t.id, content)
				}
				s.publish(TurnEvent{Type: TurnEventFlush, SessionID: t.sessionID, TurnID: t.id, Content: content})
			})
		})
	}()
	go func() {
		defer wg.Done()
		steps, stepsOK = s.steps.Run(t.ctx, sess.IsCollaboration(), func(snap []models.StepLog) {
			s.guard(t, func() {
				if s.streamBuffer != nil {
					s.streamBuffer.UpdateSteps(t.sessionID, t.id, snap)
				}
				s.publish(TurnEvent{Type: TurnEventSteps, SessionID: t.sessionID, TurnID: t.id, Steps: snap})
			})
		})
	}()
	wg.Wait()

	status := TurnCompleted
	switch {
	case result.Cancelled || !stepsOK:
		status = TurnCancelled
	case result.Failed:
		status = TurnFailed
	}

	if status == TurnCancelled {
		s.release(t)
		s.closeBuffer(t, TurnCancelled)
		logger.Info("turn cancelled", "chunks", result.Chunks)
		s.finishMetrics(status, start, result.Chunks)
		s.publish(TurnEvent{Type: TurnEventDone, SessionID: t.sessionID, TurnID: t.id, Status: status})
		return
	}

	final := models.Message{
		ID:        modelMsgID,
		Role:      models.RoleModel,
		Content:   result.Content,
		Timestamp: nowMillis(),
		Steps:     CompleteSteps(steps),
	}
	written := s.guard(t, func() {
		if _, err := s.sessions.AppendMessages(t.sessionID, append(models.CloneMessages(base), final)); err != nil {
			logger.Warn("final write failed", "error", err)
			return
		}
		delete(s.turns, t.sessionID)
		if s.streamBuffer != nil {
			s.streamBuffer.MarkComplete(t.sessionID, t.id, status, &final)
		}
		s.publish(TurnEvent{Type: TurnEventDone, SessionID: t.sessionID, TurnID: t.id, Message: &final, Status: status})
	})
	if !written {
		s.release(t)
		s.closeBuffer(t, TurnCancelled)
		logger.Info("late result dropped")
		s.finishMetrics(TurnCancelled, start, result.Chunks)
		return
	}

	if status == TurnFailed {
		logger.Warn("turn failed", "error", result.Err)
	} else {
		logger.Info("turn completed", "chunks", result.Chunks, "flushes", result.Flushes, "duration", time.Since(start))
	}
	s.finishMetrics(status, start, result.Chunks)
	s.touchGroup(sess)
}

// guard runs fn under the coordinator lock if t is still the session's current turn
func (s *ChatService) guard(t *turn, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turns[t.sessionID] != t || t.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// release forgets t if it is still registered, e.g. after its parent context was cancelled
func (s *ChatService) release(t *turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turns[t.sessionID] == t {
		delete(s.turns, t.sessionID)
	}
}

// closeBuffer ends t's resume buffer so a reconnecting client is not left
// waiting for a stream_end that will never come. A newer turn's buffer is untouched.
func (s *ChatService) closeBuffer(t *turn, status string) {
	if s.streamBuffer != nil {
		s.streamBuffer.MarkComplete(t.sessionID, t.id, status, nil)
	}
}

func (s *ChatService) touchGroup(sess models.ChatSession) {
	if sess.GroupID == "" || s.groups == nil {
		return
	}
	if s.watchers != nil && s.watchers.ViewerCount(sess.ID) == 0 {
		if _, err := s.groups.IncrementUnread(sess.GroupID); err != nil && !errors.Is(err, ErrGroupNotFound) {
			log.Printf("⚠️ Failed to bump unread for group %s: %v", sess.GroupID, err)
		}
		return
	}
	_, _ = s.groups.Touch(sess.GroupID)
}

func (s *ChatService) finishMetrics(status string, start time.Time, chunks int) {
	if m := GetMetrics(); m != nil {
		m.RecordTurnFinished(status, time.Since(start).Seconds(), chunks)
	}
}

func (s *ChatService) cancelLocked(sessionID string) bool {
	t, ok := s.turns[sessionID]
	if !ok {
		return false
	}
	t.cancel()
	delete(s.turns, sessionID)
	return true
}

// CancelTurn stops the session's in-flight turn. Once it returns, no write
// from that turn can land. Safe to call repeatedly.
func (s *ChatService) CancelTurn(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(sessionID)
}

// CancelTurnIfCurrent cancels only when turnID is still the session's turn
func (s *ChatService) CancelTurnIfCurrent(sessionID, turnID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.turns[sessionID]; !ok || t.id != turnID {
		return false
	}
	return s.cancelLocked(sessionID)
}

// CancelAll stops every in-flight turn
func (s *ChatService) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.turns {
		if s.cancelLocked(id) {
			n++
		}
	}
	if n > 0 {
		log.Printf("🛑 Cancelled %d in-flight turns", n)
	}
	return n
}

// Wait blocks until every turn goroutine has returned or ctx is done
func (s *ChatService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActiveTurn returns the id of the session's in-flight turn
func (s *ChatService) ActiveTurn(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.turns[sessionID]
	if !ok {
		return "", false
	}
	return t.id, true
}

// WaitTurn blocks until the given turn has fully settled
func (s *ChatService) WaitTurn(ctx context.Context, sessionID, turnID string) error {
	s.mu.Lock()
	t, ok := s.turns[sessionID]
	s.mu.Unlock()
	if !ok || t.id != turnID {
		return nil
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyFeaturedCase appends the canned tutorial exchange for a featured case
func (s *ChatService) ApplyFeaturedCase(sessionID, caseTitle string) (models.ChatSession, error) {
	caseTitle = strings.TrimSpace(caseTitle)
	if caseTitle == "" {
		return models.ChatSession{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return models.ChatSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if sess.Status == models.SessionCompleted {
		return models.ChatSession{}, fmt.Errorf("%w: %s", ErrSessionCompleted, sessionID)
	}
	s.cancelLocked(sessionID)

	tutorial := catalog.TutorialFor(caseTitle)
	now := nowMillis()
	messages := append(models.CloneMessages(sess.Messages),
		models.Message{
			ID:        timestampID(),
			Role:      models.RoleUser,
			Content:   tutorial.UserContent,
			Timestamp: now,
		},
		models.Message{
			ID:        timestampID(),
			Role:      models.RoleModel,
			Content:   tutorial.ModelContent,
			Timestamp: now + 1000,
			Steps:     tutorial.Steps,
		},
	)
	return s.sessions.AppendMessages(sessionID, messages)
}

// ReplaceMessages overwrites a session's message list, cancelling any in-flight turn
func (s *ChatService) ReplaceMessages(sessionID string, messages []models.Message) (models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(sessionID)
	return s.sessions.AppendMessages(sessionID, messages)
}

// DeleteSession cancels any in-flight turn and removes the session
func (s *ChatService) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(sessionID)
	if s.streamBuffer != nil {
		s.streamBuffer.ClearBuffer(sessionID)
	}
	return s.sessions.DeleteSession(sessionID)
}

// EndSession cancels any in-flight turn and marks the session completed
func (s *ChatService) EndSession(sessionID string) (models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(sessionID)
	return s.sessions.EndSession(sessionID)
}

func toHistory(msgs []models.Message) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

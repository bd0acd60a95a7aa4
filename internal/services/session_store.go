package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"agentdesk/internal/models"

	"github.com/patrickmn/go-cache"
)

const (
	singleTitlePrefix = "新任务: "
	titlePreviewRunes = 15
	previewCacheKey   = "last_message_per_agent"
)

// SessionStore owns chat sessions and their messages. Every mutation builds
// a new slice and swaps it in under the write lock.
type SessionStore struct {
	sessions []models.ChatSession // head = most recently created
	promoted map[string]bool      // sessions whose title already left its default
	mutex    sync.RWMutex

	groups   *GroupStore
	previews *cache.Cache
}

// NewSessionStore creates an empty session store linked to a group store
func NewSessionStore(groups *GroupStore) *SessionStore {
	return &SessionStore{
		sessions: []models.ChatSession{},
		promoted: make(map[string]bool),
		groups:   groups,
		previews: cache.New(cache.NoExpiration, 0),
	}
}

// Seed inserts pre-built sessions (demo history). Existing ids are skipped.
func (s *SessionStore) Seed(sessions []models.ChatSession) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := append([]models.ChatSession(nil), s.sessions...)
	for _, seed := range sessions {
		if s.indexLocked(seed.ID) >= 0 {
			continue
		}
		sess := seed.Clone()
		if sess.Type == "" {
			sess.Type = models.SessionSingle
		}
		if sess.Status == "" {
			sess.Status = models.SessionActive
		}
		next = append(next, sess)
	}
	s.swapLocked(next)
}

// CreateSingleSession returns the agent's most recently updated single
// session that is still active, otherwise a new session at the head of the list.
func (s *SessionStore) CreateSingleSession(agent models.Agent) models.ChatSession {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var existing *models.ChatSession
	for i := range s.sessions {
		sess := &s.sessions[i]
		if sess.IsCollaboration() || sess.AgentID != agent.ID || sess.Status == models.SessionCompleted {
			continue
		}
		if existing == nil || sess.UpdatedAt > existing.UpdatedAt {
			existing = sess
		}
	}
	if existing != nil {
		return existing.Clone()
	}

	stamp := nextStamp()
	sess := models.ChatSession{
		ID:        strconv.FormatInt(stamp, 10),
		Title:     singleTitlePrefix + agent.Name,
		AgentID:   agent.ID,
		Type:      models.SessionSingle,
		Messages:  []models.Message{},
		UpdatedAt: stamp,
		Status:    models.SessionActive,
	}
	s.insertHeadLocked(sess)
	log.Printf("💬 Session created: %s (agent: %s)", sess.ID, agent.ID)
	return sess.Clone()
}

// CreateCollaborationSession allocates a new group and a session backed by it
func (s *SessionStore) CreateCollaborationSession(agentIDs []string, groupName, initialMessage string) (models.ChatSession, models.CollaborationGroup, error) {
	if len(agentIDs) == 0 {
		return models.ChatSession{}, models.CollaborationGroup{}, ErrEmptyRoster
	}

	group, err := s.groups.Create(agentIDs, groupName)
	if err != nil {
		return models.ChatSession{}, models.CollaborationGroup{}, err
	}

	sess := newGroupSession(group)
	if text := strings.TrimSpace(initialMessage); text != "" {
		sess.Messages = []models.Message{{
			ID:        timestampID(),
			Role:      models.RoleUser,
			Content:   text,
			Timestamp: nowMillis(),
		}}
	}

	s.mutex.Lock()
	s.insertHeadLocked(sess)
	s.mutex.Unlock()

	log.Printf("💬 Collaboration session created: %s (group: %s)", sess.ID, group.ID)
	return sess.Clone(), group, nil
}

// CreateSessionForGroup opens a fresh session for an existing group
func (s *SessionStore) CreateSessionForGroup(group models.CollaborationGroup) (models.ChatSession, error) {
	if len(group.MemberAgentIDs) == 0 {
		return models.ChatSession{}, ErrEmptyRoster
	}
	sess := newGroupSession(group)

	s.mutex.Lock()
	s.insertHeadLocked(sess)
	s.mutex.Unlock()

	log.Printf("💬 Session created for group %s: %s", group.ID, sess.ID)
	return sess.Clone(), nil
}

func newGroupSession(group models.CollaborationGroup) models.ChatSession {
	stamp := nextStamp()
	return models.ChatSession{
		ID:        strconv.FormatInt(stamp, 10),
		Title:     group.Name,
		AgentID:   group.MemberAgentIDs[0],
		AgentIDs:  append([]string(nil), group.MemberAgentIDs...),
		Type:      models.SessionCollaboration,
		Messages:  []models.Message{},
		UpdatedAt: stamp,
		Status:    models.SessionActive,
		GroupID:   group.ID,
		GroupName: group.Name,
	}
}

// AppendMessages replaces the message list and refreshes updatedAt. The first
// time a session goes from empty to non-empty with a default title, the title
// becomes the first 15 characters of the first message plus "...".
func (s *SessionStore) AppendMessages(sessionID string, messages []models.Message) (models.ChatSession, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return models.ChatSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	next := append([]models.ChatSession(nil), s.sessions...)
	sess := next[idx].Clone()

	if len(sess.Messages) == 0 && len(messages) > 0 && !s.promoted[sess.ID] && isDefaultTitle(sess) {
		sess.Title = truncateRunes(messages[0].Content, titlePreviewRunes) + "..."
		s.promoted[sess.ID] = true
	}
	sess.Messages = models.CloneMessages(messages)
	sess.UpdatedAt = nextUpdatedAt(sess.UpdatedAt)

	next[idx] = sess
	s.swapLocked(next)
	return sess.Clone(), nil
}

// isDefaultTitle reports whether the title is still the generic one assigned at creation
func isDefaultTitle(sess models.ChatSession) bool {
	if sess.IsCollaboration() {
		return sess.Title == models.DefaultGroupName
	}
	return strings.HasPrefix(sess.Title, singleTitlePrefix)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TogglePin flips isPinned. Unknown ids are ignored.
func (s *SessionStore) TogglePin(sessionID string) (models.ChatSession, bool) {
	return s.mapMatching(sessionID, func(sess *models.ChatSession) {
		sess.IsPinned = !sess.IsPinned
	})
}

// ToggleFavorite flips isFavorite. Unknown ids are ignored.
func (s *SessionStore) ToggleFavorite(sessionID string) (models.ChatSession, bool) {
	return s.mapMatching(sessionID, func(sess *models.ChatSession) {
		sess.IsFavorite = !sess.IsFavorite
	})
}

// EndSession marks the session completed. There is no way back to active.
func (s *SessionStore) EndSession(sessionID string) (models.ChatSession, error) {
	sess, ok := s.mapMatching(sessionID, func(sess *models.ChatSession) {
		sess.Status = models.SessionCompleted
	})
	if !ok {
		return models.ChatSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

// DeleteSession removes a session and reports whether it existed
func (s *SessionStore) DeleteSession(sessionID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return false
	}
	next := make([]models.ChatSession, 0, len(s.sessions)-1)
	next = append(next, s.sessions[:idx]...)
	next = append(next, s.sessions[idx+1:]...)
	delete(s.promoted, sessionID)
	s.swapLocked(next)

	log.Printf("🗑️  Session deleted: %s", sessionID)
	return true
}

// mapMatching applies fn to the session with the given id, identity for all others
func (s *SessionStore) mapMatching(sessionID string, fn func(sess *models.ChatSession)) (models.ChatSession, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return models.ChatSession{}, false
	}
	next := append([]models.ChatSession(nil), s.sessions...)
	sess := next[idx].Clone()
	fn(&sess)
	next[idx] = sess
	s.swapLocked(next)
	return sess.Clone(), true
}

// Get returns a copy of the session
func (s *SessionStore) Get(sessionID string) (models.ChatSession, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	idx := s.indexLocked(sessionID)
	if idx < 0 {
		return models.ChatSession{}, false
	}
	return s.sessions[idx].Clone(), true
}

// List returns sessions in insertion order (newest first)
func (s *SessionStore) List() []models.ChatSession {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Count returns the number of sessions
func (s *SessionStore) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}

// Sorted returns sessions pinned first, then by updatedAt descending
func (s *SessionStore) Sorted() []models.ChatSession {
	out := s.List()
	SortSessions(out)
	return out
}

// SortSessions orders sessions for the sidebar
func SortSessions(sessions []models.ChatSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		return a.UpdatedAt > b.UpdatedAt
	})
}

// SessionsForGroup returns every session that references the group
func (s *SessionStore) SessionsForGroup(groupID string) []models.ChatSession {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.ChatSession
	for _, sess := range s.sessions {
		if sess.GroupID == groupID {
			out = append(out, sess.Clone())
		}
	}
	return out
}

// FindActiveSessionForGroup picks the most recently updated non-completed session of a group
func (s *SessionStore) FindActiveSessionForGroup(groupID string) (models.ChatSession, bool) {
	var best *models.ChatSession
	sessions := s.SessionsForGroup(groupID)
	for i := range sessions {
		sess := &sessions[i]
		if sess.Status == models.SessionCompleted {
			continue
		}
		if best == nil || sess.UpdatedAt > best.UpdatedAt {
			best = sess
		}
	}
	if best == nil {
		return models.ChatSession{}, false
	}
	return *best, true
}

// OpenGroup returns the group's active session, creating one when every
// session has been completed, and clears the unread counter.
func (s *SessionStore) OpenGroup(groupID string) (models.ChatSession, models.CollaborationGroup, error) {
	group, ok := s.groups.Get(groupID)
	if !ok {
		return models.ChatSession{}, models.CollaborationGroup{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}

	sess, found := s.FindActiveSessionForGroup(groupID)
	if !found {
		var err error
		sess, err = s.CreateSessionForGroup(group)
		if err != nil {
			return models.ChatSession{}, models.CollaborationGroup{}, err
		}
	}

	group, err := s.groups.MarkRead(groupID)
	if err != nil {
		return models.ChatSession{}, models.CollaborationGroup{}, err
	}
	return sess, group, nil
}

// LastMessagePerAgent maps each agent to the last message of its most
// recently updated single session. Collaboration sessions are excluded.
func (s *SessionStore) LastMessagePerAgent() map[string]models.AgentPreview {
	if cached, ok := s.previews.Get(previewCacheKey); ok {
		return copyPreviews(cached.(map[string]models.AgentPreview))
	}

	s.mutex.RLock()
	index := make(map[string]models.AgentPreview)
	updated := make(map[string]int64)
	for _, sess := range s.sessions {
		if sess.IsCollaboration() || len(sess.Messages) == 0 {
			continue
		}
		if prev, seen := updated[sess.AgentID]; seen && prev >= sess.UpdatedAt {
			continue
		}
		last := sess.Messages[len(sess.Messages)-1]
		index[sess.AgentID] = models.AgentPreview{
			SessionID: sess.ID,
			Content:   last.Content,
			Timestamp: last.Timestamp,
		}
		updated[sess.AgentID] = sess.UpdatedAt
	}
	// Cached under the read lock so a concurrent swap cannot be overwritten by a stale index
	s.previews.Set(previewCacheKey, index, cache.NoExpiration)
	s.mutex.RUnlock()

	return copyPreviews(index)
}

func copyPreviews(in map[string]models.AgentPreview) map[string]models.AgentPreview {
	out := make(map[string]models.AgentPreview, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *SessionStore) indexLocked(sessionID string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			return i
		}
	}
	return -1
}

func (s *SessionStore) insertHeadLocked(sess models.ChatSession) {
	next := make([]models.ChatSession, 0, len(s.sessions)+1)
	next = append(next, sess)
	next = append(next, s.sessions...)
	s.swapLocked(next)
}

// swapLocked installs a new session list and drops the derived preview index
func (s *SessionStore) swapLocked(next []models.ChatSession) {
	s.sessions = next
	s.previews.Delete(previewCacheKey)
}

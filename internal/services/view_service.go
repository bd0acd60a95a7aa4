package services

import (
	"agentdesk/internal/catalog"
	"agentdesk/internal/models"
)

// View states
const (
	ViewHome     = "home"
	ViewChat     = "chat"
	ViewNotFound = "not_found"
)

// HomeView is everything the landing page renders
type HomeView struct {
	State      string                         `json:"state"`
	Category   string                         `json:"category"`
	Query      string                         `json:"query,omitempty"`
	Categories []models.AgentCategory         `json:"categories"`
	Agents     []models.Agent                 `json:"agents"`
	Scenarios  []models.Scenario              `json:"scenarios"`
	Sessions   []models.ChatListItem          `json:"sessions"`
	Groups     []models.CollaborationGroup    `json:"groups"`
	Previews   map[string]models.AgentPreview `json:"previews"`
}

// ChatView is a resolved chat page, or the not-found state
type ChatView struct {
	State         string                     `json:"state"`
	SessionID     string                     `json:"sessionId,omitempty"`
	Session       *models.ChatSession        `json:"session,omitempty"`
	Agent         *models.Agent              `json:"agent,omitempty"`
	Participants  []models.Agent             `json:"participants,omitempty"`
	Group         *models.CollaborationGroup `json:"group,omitempty"`
	FeaturedCases []models.FeaturedCase      `json:"featuredCases,omitempty"`
	Generating    bool                       `json:"generating"`
}

// Found reports whether the view resolved to a session
func (v ChatView) Found() bool {
	return v.State == ViewChat
}

// ViewService maps routes to view states. It never fails: lookups that miss
// resolve to ViewNotFound.
type ViewService struct {
	catalog  *catalog.Catalog
	sessions *SessionStore
	groups   *GroupStore
	chat     *ChatService
}

// NewViewService creates a new view service. chat may be nil.
func NewViewService(cat *catalog.Catalog, sessions *SessionStore, groups *GroupStore, chat *ChatService) *ViewService {
	return &ViewService{catalog: cat, sessions: sessions, groups: groups, chat: chat}
}

// Home builds the catalog view filtered by category and search text
func (v *ViewService) Home(category, query string) HomeView {
	if category == "" {
		category = "All"
	}
	sorted := v.sessions.Sorted()
	items := make([]models.ChatListItem, len(sorted))
	for i := range sorted {
		items[i] = sorted[i].ToListItem()
	}

	return HomeView{
		State:      ViewHome,
		Category:   category,
		Query:      query,
		Categories: models.AllCategories,
		Agents:     v.catalog.Filter(category, query),
		Scenarios:  v.catalog.Scenarios(),
		Sessions:   items,
		Groups:     v.groups.List(),
		Previews:   v.sessions.LastMessagePerAgent(),
	}
}

// Chat resolves the chat page for a session id
func (v *ViewService) Chat(sessionID string) ChatView {
	notFound := ChatView{State: ViewNotFound, SessionID: sessionID}

	sess, ok := v.sessions.Get(sessionID)
	if !ok {
		return notFound
	}
	view := ChatView{State: ViewChat, SessionID: sessionID, Session: &sess}
	if v.chat != nil {
		_, view.Generating = v.chat.ActiveTurn(sessionID)
	}

	if sess.IsCollaboration() {
		view.Participants = v.catalog.Resolve(sess.AgentIDs)
		if group, ok := v.groups.Get(sess.GroupID); ok {
			view.Group = &group
		}
		if len(view.Participants) > 0 {
			lead := view.Participants[0]
			view.Agent = &lead
		}
		return view
	}

	agent, ok := v.catalog.Get(sess.AgentID)
	if !ok {
		return notFound
	}
	view.Agent = &agent
	view.FeaturedCases = catalog.FeaturedCases(agent.Category)
	return view
}

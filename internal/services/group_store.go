package services

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"agentdesk/internal/models"

	"github.com/google/uuid"
)

// GroupStore owns collaboration groups. Mutations swap in a new slice.
type GroupStore struct {
	groups []models.CollaborationGroup
	mutex  sync.RWMutex
}

// NewGroupStore creates an empty group store
func NewGroupStore() *GroupStore {
	return &GroupStore{groups: []models.CollaborationGroup{}}
}

// Create allocates a group for a non-empty roster
func (s *GroupStore) Create(agentIDs []string, name string) (models.CollaborationGroup, error) {
	if len(agentIDs) == 0 {
		return models.CollaborationGroup{}, ErrEmptyRoster
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultGroupName
	}

	group := models.CollaborationGroup{
		ID:             uuid.New().String(),
		Name:           name,
		Department:     models.DefaultGroupDepartment,
		Task:           models.DefaultGroupTask,
		Deadline:       models.DefaultGroupDeadline,
		Status:         models.GroupActive,
		UnreadCount:    0,
		MemberAgentIDs: append([]string(nil), agentIDs...),
		UpdatedAt:      nextStamp(),
	}

	s.mutex.Lock()
	next := make([]models.CollaborationGroup, 0, len(s.groups)+1)
	next = append(next, group)
	next = append(next, s.groups...)
	s.groups = next
	s.mutex.Unlock()

	log.Printf("👥 Group created: %s (%s, %d members)", group.ID, group.Name, len(agentIDs))
	return group.Clone(), nil
}

// Get returns a group by id
func (s *GroupStore) Get(id string) (models.CollaborationGroup, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, g := range s.groups {
		if g.ID == id {
			return g.Clone(), true
		}
	}
	return models.CollaborationGroup{}, false
}

// List returns groups, most recently updated first
func (s *GroupStore) List() []models.CollaborationGroup {
	s.mutex.RLock()
	out := make([]models.CollaborationGroup, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Clone()
	}
	s.mutex.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt > out[j].UpdatedAt
	})
	return out
}

// update applies fn to a copy of the group and swaps the list
func (s *GroupStore) update(id string, fn func(g *models.CollaborationGroup)) (models.CollaborationGroup, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := make([]models.CollaborationGroup, len(s.groups))
	var updated *models.CollaborationGroup
	for i, g := range s.groups {
		next[i] = g
		if g.ID == id {
			next[i] = g.Clone()
			fn(&next[i])
			updated = &next[i]
		}
	}
	if updated == nil {
		return models.CollaborationGroup{}, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	s.groups = next
	return updated.Clone(), nil
}

// MarkRead clears the unread counter
func (s *GroupStore) MarkRead(id string) (models.CollaborationGroup, error) {
	return s.update(id, func(g *models.CollaborationGroup) {
		g.UnreadCount = 0
	})
}

// IncrementUnread bumps the unread counter after a reply nobody was watching
func (s *GroupStore) IncrementUnread(id string) (models.CollaborationGroup, error) {
	return s.update(id, func(g *models.CollaborationGroup) {
		g.UnreadCount++
		g.UpdatedAt = nextUpdatedAt(g.UpdatedAt)
	})
}

// Touch refreshes updatedAt
func (s *GroupStore) Touch(id string) (models.CollaborationGroup, error) {
	return s.update(id, func(g *models.CollaborationGroup) {
		g.UpdatedAt = nextUpdatedAt(g.UpdatedAt)
	})
}

// SetStatus moves the group to active, pending or completed
func (s *GroupStore) SetStatus(id, status string) (models.CollaborationGroup, error) {
	switch status {
	case models.GroupActive, models.GroupPending, models.GroupCompleted:
	default:
		return models.CollaborationGroup{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.update(id, func(g *models.CollaborationGroup) {
		g.Status = status
		g.UpdatedAt = nextUpdatedAt(g.UpdatedAt)
	})
}

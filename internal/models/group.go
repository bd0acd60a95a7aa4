package models

// Group statuses
const (
	GroupActive    = "active"
	GroupPending   = "pending"
	GroupCompleted = "completed"
)

// Defaults applied when a collaboration is formed without details
const (
	DefaultGroupName       = "员工协作任务"
	DefaultGroupDepartment = "综合协作部"
	DefaultGroupTask       = "跨部门协作任务"
	DefaultGroupDeadline   = "待定"
)

// CollaborationGroup is a persistent roster of agents that can back several sessions over time
type CollaborationGroup struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Department     string   `json:"department"`
	Task           string   `json:"task"`
	Deadline       string   `json:"deadline"`
	Status         string   `json:"status"` // active, pending, completed
	UnreadCount    int      `json:"unreadCount"`
	MemberAgentIDs []string `json:"memberAgentIds"`
	UpdatedAt      int64    `json:"updatedAt"` // Unix milliseconds
}

// HasMember checks if an agent belongs to the group roster
func (g *CollaborationGroup) HasMember(agentID string) bool {
	for _, id := range g.MemberAgentIDs {
		if id == agentID {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the roster slice
func (g CollaborationGroup) Clone() CollaborationGroup {
	out := g
	out.MemberAgentIDs = append([]string(nil), g.MemberAgentIDs...)
	return out
}

// CreateGroupRequest is the request body for forming a collaboration
type CreateGroupRequest struct {
	AgentIDs       []string `json:"agent_ids"`
	Name           string   `json:"name,omitempty"`
	InitialMessage string   `json:"initial_message,omitempty"`
}

// UpdateGroupStatusRequest moves a group between active, pending and completed
type UpdateGroupStatusRequest struct {
	Status string `json:"status"`
}

// CreateGroupResponse returns the new group and the session opened for it
type CreateGroupResponse struct {
	Group   CollaborationGroup `json:"group"`
	Session ChatSession        `json:"session"`
}

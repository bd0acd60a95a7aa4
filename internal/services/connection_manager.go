package services

import (
	"log"
	"sync"

	"agentdesk/internal/models"
)

// ConnectionManager manages all active WebSocket connections
type ConnectionManager struct {
	connections map[string]*models.UserConnection
	mutex       sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*models.UserConnection),
	}
}

// Add adds a new connection
func (cm *ConnectionManager) Add(conn *models.UserConnection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.connections[conn.ConnID] = conn
	log.Printf("✅ Connection added: %s (Total: %d)", conn.ConnID, len(cm.connections))
}

// Remove removes a connection and closes its write channel
func (cm *ConnectionManager) Remove(connID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if conn, exists := cm.connections[connID]; exists {
		conn.MarkClosed()
		close(conn.WriteChan)
		delete(cm.connections, connID)
		log.Printf("❌ Connection removed: %s (Total: %d)", connID, len(cm.connections))
	}
}

// Get retrieves a connection by ID
func (cm *ConnectionManager) Get(connID string) (*models.UserConnection, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	conn, exists := cm.connections[connID]
	return conn, exists
}

// Count returns the number of active connections
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections)
}

// GetAll returns all active connections
func (cm *ConnectionManager) GetAll() []*models.UserConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	conns := make([]*models.UserConnection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		conns = append(conns, conn)
	}
	return conns
}

// Viewers returns the connections currently looking at a session
func (cm *ConnectionManager) Viewers(sessionID string) []*models.UserConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var conns []*models.UserConnection
	for _, conn := range cm.connections {
		if conn.CurrentSession() == sessionID {
			conns = append(conns, conn)
		}
	}
	return conns
}

// ViewerCount returns how many connections are looking at a session
func (cm *ConnectionManager) ViewerCount(sessionID string) int {
	return len(cm.Viewers(sessionID))
}

// Broadcast sends a message to every connection viewing the session.
// Returns the number of connections that accepted it.
func (cm *ConnectionManager) Broadcast(sessionID string, msg models.ServerMessage) int {
	sent := 0
	for _, conn := range cm.Viewers(sessionID) {
		if conn.SafeSend(msg) {
			sent++
			if m := GetMetrics(); m != nil {
				m.RecordWebSocketMessage(msg.Type, "outbound")
			}
		}
	}
	return sent
}

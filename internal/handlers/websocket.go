package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"agentdesk/internal/models"
	"agentdesk/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	wsReadTimeout  = 90 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteBuffer  = 100
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	ctx         context.Context
	connManager *services.ConnectionManager
	chatService *services.ChatService
	sessions    *services.SessionStore
	limiter     *services.SendLimiter
	unsubscribe func()
}

// NewWebSocketHandler creates a new WebSocket handler and starts fanning turn
// events out to connections viewing the affected session. limiter may be nil.
func NewWebSocketHandler(ctx context.Context, connManager *services.ConnectionManager, chatService *services.ChatService, sessions *services.SessionStore, limiter *services.SendLimiter) *WebSocketHandler {
	h := &WebSocketHandler{
		ctx:         ctx,
		connManager: connManager,
		chatService: chatService,
		sessions:    sessions,
		limiter:     limiter,
	}
	h.unsubscribe = chatService.Subscribe(h.forward)
	return h
}

// Close stops forwarding turn events
func (h *WebSocketHandler) Close() {
	h.unsubscribe()
}

// forward runs under the chat service lock; Broadcast never blocks
func (h *WebSocketHandler) forward(ev services.TurnEvent) {
	msg := models.ServerMessage{SessionID: ev.SessionID, TurnID: ev.TurnID}
	switch ev.Type {
	case services.TurnEventFlush:
		msg.Type = "stream_chunk"
		msg.Content = ev.Content
	case services.TurnEventSteps:
		msg.Type = "steps_update"
		msg.Steps = ev.Steps
	case services.TurnEventDone:
		msg.Type = "stream_end"
		msg.Status = ev.Status
		msg.Message = ev.Message
		msg.IsComplete = true
	default:
		return
	}
	h.connManager.Broadcast(ev.SessionID, msg)
}

// wsClient is the per-connection state owned by the read loop
type wsClient struct {
	conn  *models.UserConnection
	ctx   context.Context
	turns map[string]string // sessionID -> turn this connection started
}

// Handle handles a new WebSocket connection
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	connID := uuid.New().String()
	clientIP, _ := c.Locals("client_ip").(string)

	ctx, cancel := context.WithCancel(h.ctx)
	done := make(chan struct{})

	userConn := &models.UserConnection{
		ConnID:    connID,
		ClientIP:  clientIP,
		Conn:      c,
		SessionID: c.Query("session_id"),
		CreatedAt: time.Now(),
		WriteChan: make(chan models.ServerMessage, wsWriteBuffer),
	}
	client := &wsClient{conn: userConn, ctx: ctx, turns: make(map[string]string)}

	h.connManager.Add(userConn)
	if m := services.GetMetrics(); m != nil {
		m.RecordWebSocketConnect()
	}
	defer func() {
		close(done)
		// Turns this connection started derive from ctx
		cancel()
		h.connManager.Remove(connID)
		if h.limiter != nil {
			h.limiter.Forget(connID)
		}
		if m := services.GetMetrics(); m != nil {
			m.RecordWebSocketDisconnect()
		}
	}()

	c.SetReadDeadline(time.Now().Add(wsReadTimeout))
	c.SetPongHandler(func(appData string) error {
		c.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	go h.pingLoop(userConn, done)
	go h.writeLoop(userConn)

	userConn.SafeSend(models.ServerMessage{
		Type:      "connected",
		SessionID: userConn.SessionID,
		Content:   "WebSocket connected. Ready to receive messages.",
	})

	h.readLoop(client)
}

// pingLoop sends periodic pings to keep the WebSocket connection alive
func (h *WebSocketHandler) pingLoop(userConn *models.UserConnection, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// WriteControl may run concurrently with writeLoop
			if err := userConn.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("⚠️ Ping failed for %s: %v", userConn.ConnID, err)
				return
			}
		}
	}
}

// readLoop handles incoming messages from the client
func (h *WebSocketHandler) readLoop(client *wsClient) {
	userConn := client.conn
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic in readLoop: %v", r)
		}
	}()

	for {
		_, msg, err := userConn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("❌ WebSocket read error for %s: %v", userConn.ConnID, err)
			}
			return
		}
		userConn.Conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var clientMsg models.ClientMessage
		if err := json.Unmarshal(msg, &clientMsg); err != nil {
			log.Printf("⚠️  Invalid message format from %s: %v", userConn.ConnID, err)
			h.sendError(userConn, "", "invalid_format", "Invalid message format")
			continue
		}
		if m := services.GetMetrics(); m != nil {
			m.RecordWebSocketMessage(clientMsg.Type, "inbound")
		}

		switch clientMsg.Type {
		case "ping":
			userConn.SafeSend(models.ServerMessage{Type: "pong"})
		case "select_session":
			h.handleSelectSession(client, clientMsg.SessionID)
		case "chat_message":
			h.handleChatMessage(client, clientMsg)
		case "stop_generation":
			h.handleStopGeneration(client, clientMsg)
		case "resume_stream":
			h.handleResumeStream(client, clientMsg)
		default:
			log.Printf("⚠️  Unknown message type: %s", clientMsg.Type)
			h.sendError(userConn, clientMsg.SessionID, "unknown_type", "Unknown message type")
		}
	}
}

// handleSelectSession switches the viewed session. Navigating away cancels the
// turn this connection started on the previous session.
func (h *WebSocketHandler) handleSelectSession(client *wsClient, sessionID string) {
	prev := client.conn.SwitchSession(sessionID)
	if prev != "" && prev != sessionID {
		if turnID, ok := client.turns[prev]; ok {
			delete(client.turns, prev)
			if h.chatService.CancelTurnIfCurrent(prev, turnID) {
				log.Printf("⏹️  [WS] %s left session %s, cancelled turn %s", client.conn.ConnID, prev, turnID)
			}
		}
	}
	if sessionID != "" {
		if _, ok := h.sessions.Get(sessionID); !ok {
			h.sendError(client.conn, sessionID, "not_found", "Session not found")
		}
	}
}

func (h *WebSocketHandler) handleChatMessage(client *wsClient, msg models.ClientMessage) {
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = client.conn.CurrentSession()
	}
	if sessionID == "" {
		h.sendError(client.conn, "", "missing_session_id", "Session ID is required")
		return
	}
	if h.limiter != nil && !h.limiter.Allow(client.conn.ConnID) {
		h.sendError(client.conn, sessionID, "rate_limited", "Too many messages. Please slow down.")
		return
	}
	if sessionID != client.conn.CurrentSession() {
		h.handleSelectSession(client, sessionID)
	}

	info, err := h.chatService.SendMessage(client.ctx, sessionID, msg.Content, msg.TargetAgentID)
	if err != nil {
		_, code := errorCode(err)
		h.sendError(client.conn, sessionID, code, err.Error())
		return
	}
	client.turns[sessionID] = info.TurnID
}

func (h *WebSocketHandler) handleStopGeneration(client *wsClient, msg models.ClientMessage) {
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = client.conn.CurrentSession()
	}
	if h.chatService.CancelTurn(sessionID) {
		log.Printf("⏹️  [WS] Generation stopped for session %s by %s", sessionID, client.conn.ConnID)
	}
	delete(client.turns, sessionID)
}

func (h *WebSocketHandler) handleResumeStream(client *wsClient, msg models.ClientMessage) {
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = client.conn.CurrentSession()
	}
	streamBuffer := h.chatService.GetStreamBuffer()
	if sessionID == "" || streamBuffer == nil {
		h.sendError(client.conn, sessionID, "missing_session_id", "Session ID is required for resume")
		return
	}

	data, err := streamBuffer.GetBufferData(sessionID)
	if err != nil {
		reason := "expired"
		if errors.Is(err, services.ErrResumeTooFast) {
			reason = "too_fast"
		}
		client.conn.SafeSend(models.ServerMessage{Type: "error", SessionID: sessionID, ErrorCode: "stream_missed", Reason: reason, ErrorMessage: err.Error()})
		return
	}

	log.Printf("📦 [RESUME] Session %s turn %s (%d bytes, complete: %v)", sessionID, data.TurnID, len(data.Content), data.IsComplete)
	client.conn.SafeSend(models.ServerMessage{
		Type:       "stream_resume",
		SessionID:  sessionID,
		TurnID:     data.TurnID,
		Content:    data.Content,
		Steps:      data.Steps,
		IsComplete: data.IsComplete,
		Status:     data.Status,
		Message:    data.Message,
	})
	if data.IsComplete {
		streamBuffer.ClearBuffer(sessionID)
	}
}

func (h *WebSocketHandler) sendError(conn *models.UserConnection, sessionID, code, message string) {
	conn.SafeSend(models.ServerMessage{
		Type:         "error",
		SessionID:    sessionID,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

func (h *WebSocketHandler) writeLoop(userConn *models.UserConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic in writeLoop: %v", r)
		}
	}()

	for msg := range userConn.WriteChan {
		if err := userConn.Conn.WriteJSON(msg); err != nil {
			log.Printf("❌ WebSocket write error for %s: %v", userConn.ConnID, err)
			return
		}
	}
}

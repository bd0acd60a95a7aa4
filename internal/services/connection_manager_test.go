package services

import (
	"testing"
	"time"

	"agentdesk/internal/models"
)

func newTestConn(id, sessionID string, buffer int) *models.UserConnection {
	return &models.UserConnection{
		ConnID:    id,
		SessionID: sessionID,
		CreatedAt: time.Now(),
		WriteChan: make(chan models.ServerMessage, buffer),
	}
}

func TestConnectionManagerViewers(t *testing.T) {
	cm := NewConnectionManager()
	a := newTestConn("a", "s1", 4)
	b := newTestConn("b", "s2", 4)
	c := newTestConn("c", "s1", 4)
	cm.Add(a)
	cm.Add(b)
	cm.Add(c)

	if cm.Count() != 3 {
		t.Fatalf("expected 3 connections, got %d", cm.Count())
	}
	if n := cm.ViewerCount("s1"); n != 2 {
		t.Errorf("expected 2 viewers of s1, got %d", n)
	}

	sent := cm.Broadcast("s1", models.ServerMessage{Type: "stream_chunk", SessionID: "s1", Content: "好的"})
	if sent != 2 {
		t.Errorf("expected broadcast to 2 connections, got %d", sent)
	}
	if len(b.WriteChan) != 0 {
		t.Error("connection viewing another session received the broadcast")
	}

	if prev := b.SwitchSession("s1"); prev != "s2" {
		t.Errorf("expected previous session s2, got %q", prev)
	}
	if n := cm.ViewerCount("s1"); n != 3 {
		t.Errorf("expected 3 viewers after switch, got %d", n)
	}

	cm.Remove("a")
	if !a.IsClosed() {
		t.Error("removed connection should be marked closed")
	}
	if a.SafeSend(models.ServerMessage{Type: "pong"}) {
		t.Error("send on a removed connection should fail")
	}
	if cm.Count() != 2 {
		t.Errorf("expected 2 connections, got %d", cm.Count())
	}
}

func TestSafeSendDropsWhenFull(t *testing.T) {
	conn := newTestConn("x", "s", 1)
	if !conn.SafeSend(models.ServerMessage{Type: "pong"}) {
		t.Fatal("first send should succeed")
	}
	if conn.SafeSend(models.ServerMessage{Type: "pong"}) {
		t.Error("send on a full channel should be dropped, not block")
	}
}

func TestSafeSendKeepsTerminalMessages(t *testing.T) {
	conn := newTestConn("x", "s", 2)
	conn.SafeSend(models.ServerMessage{Type: "stream_chunk", Content: "好"})
	conn.SafeSend(models.ServerMessage{Type: "stream_chunk", Content: "好的"})

	if !conn.SafeSend(models.ServerMessage{Type: "stream_end", Status: TurnCompleted}) {
		t.Fatal("stream_end should evict a queued chunk instead of being dropped")
	}
	if len(conn.WriteChan) != 2 {
		t.Fatalf("expected 2 queued messages, got %d", len(conn.WriteChan))
	}

	first := <-conn.WriteChan
	last := <-conn.WriteChan
	if first.Type != "stream_chunk" || first.Content != "好的" {
		t.Errorf("expected the newest chunk to survive, got %+v", first)
	}
	if last.Type != "stream_end" {
		t.Errorf("expected stream_end last, got %+v", last)
	}
}

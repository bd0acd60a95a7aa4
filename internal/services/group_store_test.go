package services

import (
	"errors"
	"testing"

	"agentdesk/internal/models"
)

func TestGroupStore(t *testing.T) {
	store := NewGroupStore()

	if _, err := store.Create(nil, "x"); err != ErrEmptyRoster {
		t.Fatalf("expected ErrEmptyRoster, got %v", err)
	}

	ids := []string{"design-trend", "sales-copy"}
	g, err := store.Create(ids, "  ")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if g.Name != models.DefaultGroupName {
		t.Errorf("expected default name, got %q", g.Name)
	}
	if !g.HasMember("sales-copy") || g.HasMember("mgmt-contract") {
		t.Errorf("unexpected roster: %v", g.MemberAgentIDs)
	}

	// Caller mutations must not leak into the store
	ids[0] = "changed"
	got, ok := store.Get(g.ID)
	if !ok || got.MemberAgentIDs[0] != "design-trend" {
		t.Fatalf("roster was aliased: %+v", got)
	}

	if g, _ = store.IncrementUnread(g.ID); g.UnreadCount != 1 {
		t.Errorf("expected unread 1, got %d", g.UnreadCount)
	}
	if g, _ = store.MarkRead(g.ID); g.UnreadCount != 0 {
		t.Errorf("expected unread 0, got %d", g.UnreadCount)
	}

	if _, err := store.SetStatus(g.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if g, _ = store.SetStatus(g.ID, models.GroupCompleted); g.Status != models.GroupCompleted {
		t.Errorf("expected completed, got %s", g.Status)
	}

	if _, err := store.MarkRead("missing"); err == nil {
		t.Error("expected ErrGroupNotFound")
	}
}

func TestGroupStoreListOrder(t *testing.T) {
	store := NewGroupStore()
	a, _ := store.Create([]string{"design-trend"}, "A")
	b, _ := store.Create([]string{"design-trend"}, "B")

	if _, err := store.Touch(a.ID); err != nil {
		t.Fatal(err)
	}

	list := store.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", list)
	}
}

package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"agentdesk/internal/models"
)

func TestStreamBuffer_CreateAndUpdate(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	sessionID := "1718000000000"
	turnID := "turn-1"

	svc.CreateBuffer(sessionID, turnID)
	if !svc.HasBuffer(sessionID) {
		t.Fatal("Buffer should exist after creation")
	}

	for _, content := range []string{"好的", "好的，报告", "好的，报告已生成"} {
		if err := svc.UpdateContent(sessionID, turnID, content); err != nil {
			t.Fatalf("Failed to update content: %v", err)
		}
	}
	svc.UpdateSteps(sessionID, turnID, InitialSteps(false))

	data, err := svc.GetBufferData(sessionID)
	if err != nil {
		t.Fatalf("Failed to get buffer data: %v", err)
	}
	if data.Content != "好的，报告已生成" {
		t.Errorf("Expected latest content, got %q", data.Content)
	}
	if len(data.Steps) != 3 {
		t.Errorf("Expected 3 steps, got %d", len(data.Steps))
	}
	if data.IsComplete {
		t.Error("Buffer should not be complete yet")
	}
}

func TestStreamBuffer_IgnoresStaleTurn(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	svc.CreateBuffer("s", "old")
	svc.CreateBuffer("s", "new")

	_ = svc.UpdateContent("s", "old", "stale")
	svc.MarkComplete("s", "old", TurnCompleted, nil)

	data, err := svc.GetBufferData("s")
	if err != nil {
		t.Fatalf("Failed to get buffer data: %v", err)
	}
	if data.TurnID != "new" || data.Content != "" || data.IsComplete {
		t.Errorf("Stale turn leaked into buffer: %+v", data)
	}
}

func TestStreamBuffer_MarkComplete(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	svc.CreateBuffer("s", "t")
	_ = svc.UpdateContent("s", "t", "partial")

	final := &models.Message{ID: "m", Role: models.RoleModel, Content: "full", Steps: CompleteSteps(InitialSteps(false))}
	svc.MarkComplete("s", "t", TurnCompleted, final)

	// The buffer keeps its own copy
	final.Steps[0].Status = models.StepPending

	data, err := svc.GetBufferData("s")
	if err != nil {
		t.Fatalf("Failed to get buffer data: %v", err)
	}
	if !data.IsComplete || data.Status != TurnCompleted {
		t.Errorf("Buffer should be complete, got %+v", data)
	}
	if data.Content != "full" || data.Message == nil || data.Message.ID != "m" {
		t.Errorf("Unexpected final message: %+v", data.Message)
	}
	if data.Steps[0].Status != models.StepCompleted {
		t.Error("Buffer steps were aliased to the caller's message")
	}
}

func TestStreamBuffer_ClearBuffer(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	svc.CreateBuffer("s", "t")
	svc.ClearBuffer("s")

	if svc.HasBuffer("s") {
		t.Error("Buffer should not exist after clear")
	}
	if _, err := svc.GetBufferData("s"); err != ErrBufferNotFound {
		t.Errorf("Expected ErrBufferNotFound, got %v", err)
	}
}

func TestStreamBuffer_SizeLimit(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	svc.CreateBuffer("s", "t")
	big := strings.Repeat("x", MaxBufferSize+1)
	if err := svc.UpdateContent("s", "t", big); err != ErrBufferSizeExceeded {
		t.Errorf("Expected ErrBufferSizeExceeded, got %v", err)
	}
}

func TestStreamBuffer_RateLimiting(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	svc.CreateBuffer("s", "t")

	if _, err := svc.GetBufferData("s"); err != nil {
		t.Fatalf("First resume should succeed: %v", err)
	}
	if _, err := svc.GetBufferData("s"); err != ErrResumeTooFast {
		t.Errorf("Expected ErrResumeTooFast, got %v", err)
	}
}

func TestStreamBuffer_Cleanup(t *testing.T) {
	svc := NewStreamBufferService(20 * time.Millisecond)
	defer svc.Shutdown()

	svc.CreateBuffer("old", "t")
	time.Sleep(40 * time.Millisecond)
	svc.CreateBuffer("fresh", "t")

	if removed := svc.Cleanup(); removed != 1 {
		t.Errorf("Expected 1 expired buffer, got %d", removed)
	}
	if svc.HasBuffer("old") || !svc.HasBuffer("fresh") {
		t.Error("Cleanup removed the wrong buffer")
	}
}

func TestStreamBuffer_ConcurrentAccess(t *testing.T) {
	svc := NewStreamBufferService(time.Minute)
	defer svc.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("s-%d", i%5)
			svc.CreateBuffer(sessionID, "t")
			for j := 0; j < 50; j++ {
				_ = svc.UpdateContent(sessionID, "t", fmt.Sprintf("content %d", j))
				svc.UpdateSteps(sessionID, "t", InitialSteps(false))
			}
			svc.GetBufferStats()
			svc.Cleanup()
		}(i)
	}
	wg.Wait()

	stats := svc.GetBufferStats()
	if stats["active_buffers"].(int) != 5 {
		t.Errorf("Expected 5 active buffers, got %v", stats["active_buffers"])
	}
}

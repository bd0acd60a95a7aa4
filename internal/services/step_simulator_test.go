package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"agentdesk/internal/models"
)

var statusRank = map[string]int{
	models.StepPending:    0,
	models.StepProcessing: 1,
	models.StepCompleted:  2,
}

func TestStepSimulatorCompletes(t *testing.T) {
	sim := NewStepSimulator(time.Millisecond)

	var snapshots [][]models.StepLog
	steps, ok := sim.Run(context.Background(), false, func(s []models.StepLog) {
		snapshots = append(snapshots, s)
	})

	if !ok {
		t.Fatal("expected completion")
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for _, s := range steps {
		if s.Status != models.StepCompleted {
			t.Errorf("step %s not completed: %s", s.ID, s.Status)
		}
	}
	if steps[2].Title != "多模态生成" {
		t.Errorf("unexpected third stage %q", steps[2].Title)
	}
	if steps[0].Timestamp != "00:00" || steps[2].Timestamp != "00:02" {
		t.Errorf("unexpected labels %q %q", steps[0].Timestamp, steps[2].Timestamp)
	}

	// initial + (processing, completed) per stage
	if len(snapshots) != 7 {
		t.Fatalf("expected 7 updates, got %d", len(snapshots))
	}
	for _, s := range snapshots[0] {
		if s.Status != models.StepPending {
			t.Errorf("initial snapshot should be all pending, got %s", s.Status)
		}
	}

	// Forward-only, and at most one stage processing at a time
	for i := 1; i < len(snapshots); i++ {
		processing := 0
		for j := range snapshots[i] {
			if statusRank[snapshots[i][j].Status] < statusRank[snapshots[i-1][j].Status] {
				t.Fatalf("stage %d regressed in update %d", j, i)
			}
			if snapshots[i][j].Status == models.StepProcessing {
				processing++
			}
		}
		if processing > 1 {
			t.Fatalf("update %d has %d stages processing", i, processing)
		}
	}

	// Stages advance strictly in order
	for i, snap := range snapshots {
		for j := 1; j < len(snap); j++ {
			if statusRank[snap[j].Status] > statusRank[snap[j-1].Status] {
				t.Fatalf("stage %d ahead of stage %d in update %d", j, j-1, i)
			}
		}
	}
}

func TestStepSimulatorCollaborationStage(t *testing.T) {
	steps := InitialSteps(true)
	if steps[2].Title != "多智能体协同" {
		t.Errorf("expected collaboration stage, got %q", steps[2].Title)
	}
}

func TestStepSimulatorCancellation(t *testing.T) {
	sim := NewStepSimulator(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	var once sync.Once
	steps, ok := sim.Run(ctx, false, func(s []models.StepLog) {
		if s[0].Status == models.StepProcessing {
			once.Do(cancel)
		}
	})

	if ok {
		t.Fatal("expected cancellation")
	}
	if steps[0].Status != models.StepProcessing || steps[1].Status != models.StepPending {
		t.Errorf("unexpected partial snapshot: %+v", steps)
	}

	completed := CompleteSteps(steps)
	for _, s := range completed {
		if s.Status != models.StepCompleted {
			t.Errorf("CompleteSteps left %s", s.Status)
		}
	}
	if steps[1].Status != models.StepPending {
		t.Error("CompleteSteps must not mutate its input")
	}
}

func TestStepSimulatorCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, ok := NewStepSimulator(0).Run(ctx, false, func([]models.StepLog) { called = true })
	if ok || called {
		t.Fatalf("expected no updates on a cancelled context (ok=%v called=%v)", ok, called)
	}
}

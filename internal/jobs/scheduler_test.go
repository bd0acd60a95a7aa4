package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Cleanup() int {
	c.calls.Add(1)
	return 1
}

func TestSchedulerRunsRegisteredJob(t *testing.T) {
	scheduler, err := NewJobScheduler()
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	sweeper := &countingSweeper{}
	if err := scheduler.Register("stream_buffer_cleanup", NewStreamBufferCleanupJob(sweeper, 20*time.Millisecond)); err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sweeper.calls.Load() < 2 {
		t.Fatalf("Expected job to run at least twice, ran %d times", sweeper.calls.Load())
	}

	status := scheduler.GetStatus()
	if st, ok := status["stream_buffer_cleanup"]; !ok || !st.Registered {
		t.Errorf("Expected registered job in status, got %+v", status)
	}
}

func TestRunNow(t *testing.T) {
	scheduler, err := NewJobScheduler()
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	sweeper := &countingSweeper{}
	if err := scheduler.Register("sweep", NewStreamBufferCleanupJob(sweeper, time.Hour)); err != nil {
		t.Fatalf("Failed to register job: %v", err)
	}

	if err := scheduler.RunNow("sweep"); err != nil {
		t.Fatalf("RunNow failed: %v", err)
	}
	if sweeper.calls.Load() != 1 {
		t.Errorf("Expected one run, got %d", sweeper.calls.Load())
	}
	if err := scheduler.RunNow("missing"); err == nil {
		t.Error("Expected error for unknown job")
	}
}

func TestCleanupJobHonoursContext(t *testing.T) {
	sweeper := &countingSweeper{}
	job := NewStreamBufferCleanupJob(sweeper, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := job.Run(ctx); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if sweeper.calls.Load() != 0 {
		t.Error("Cleanup should not run after cancellation")
	}
}

package jobs

import (
	"context"
	"log"
	"time"
)

// BufferSweeper is the part of the stream buffer service the cleanup job needs
type BufferSweeper interface {
	Cleanup() int
}

// StreamBufferCleanupJob drops resume buffers that outlived their TTL
type StreamBufferCleanupJob struct {
	buffers  BufferSweeper
	interval time.Duration
	lastRun  time.Time
	removed  int
}

// NewStreamBufferCleanupJob creates a new stream buffer cleanup job
func NewStreamBufferCleanupJob(buffers BufferSweeper, interval time.Duration) *StreamBufferCleanupJob {
	return &StreamBufferCleanupJob{buffers: buffers, interval: interval}
}

// Run sweeps expired buffers
func (j *StreamBufferCleanupJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.lastRun = time.Now()
	if n := j.buffers.Cleanup(); n > 0 {
		j.removed += n
		log.Printf("🧹 [BUFFER-CLEANUP] Removed %d expired stream buffers", n)
	}
	return nil
}

// Interval returns how often the job runs
func (j *StreamBufferCleanupJob) Interval() time.Duration {
	return j.interval
}

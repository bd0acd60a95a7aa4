package services

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"time"

	"agentdesk/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedGenerator holds its chunks until release is closed, ignoring
// cancellation like an upstream call that resolves late
type gatedGenerator struct {
	release chan struct{}
	chunks  []string
}

func newGatedGenerator(chunks ...string) *gatedGenerator {
	return &gatedGenerator{release: make(chan struct{}), chunks: chunks}
}

func (g *gatedGenerator) Stream(ctx context.Context, req llm.Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		<-g.release
		for _, c := range g.chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

type flushRecorder struct {
	mu      sync.Mutex
	flushes []string
}

func (r *flushRecorder) record(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, content)
}

func (r *flushRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.flushes...)
}

func TestRelayAppliesChunksInOrder(t *testing.T) {
	relay := NewStreamRelay(llm.NewScripted("好的", "，报告", "已生成"), time.Hour, 0)
	rec := &flushRecorder{}

	result, err := relay.Relay(context.Background(), llm.Request{Prompt: "生成报告"}, rec.record)
	require.NoError(t, err)

	assert.Equal(t, "好的，报告已生成", result.Content)
	assert.Equal(t, 3, result.Chunks)
	assert.False(t, result.Failed)
	assert.False(t, result.Cancelled)

	// With a long interval only the final flush fires
	assert.Equal(t, []string{"好的，报告已生成"}, rec.all())
}

func TestRelayBatchesFlushes(t *testing.T) {
	chunks := make([]string, 40)
	for i := range chunks {
		chunks[i] = "字"
	}
	gen := llm.NewScripted(chunks...)
	gen.Delay = 2 * time.Millisecond

	relay := NewStreamRelay(gen, 20*time.Millisecond, 4)
	rec := &flushRecorder{}

	result, err := relay.Relay(context.Background(), llm.Request{}, rec.record)
	require.NoError(t, err)

	flushes := rec.all()
	require.NotEmpty(t, flushes)
	assert.Less(t, len(flushes), len(chunks), "flushes should be coalesced")
	assert.Equal(t, strings.Repeat("字", 40), flushes[len(flushes)-1])
	assert.Equal(t, result.Flushes, len(flushes))

	// Every flush carries the full content so far
	for i := 1; i < len(flushes); i++ {
		assert.True(t, strings.HasPrefix(flushes[i], flushes[i-1]))
	}
}

func TestRelayFailureAppendsNotice(t *testing.T) {
	gen := llm.NewScripted("部分内容")
	gen.Err = errors.New("quota exceeded")
	relay := NewStreamRelay(gen, time.Hour, 0)
	rec := &flushRecorder{}

	result, err := relay.Relay(context.Background(), llm.Request{}, rec.record)
	require.NoError(t, err, "failures are reported in the result, not as an error")

	assert.True(t, result.Failed)
	assert.False(t, result.Cancelled)
	assert.Equal(t, "部分内容"+UnavailableNotice, result.Content)
	assert.NotContains(t, result.Content, "quota")
	assert.Equal(t, []string{"部分内容" + UnavailableNotice}, rec.all())
}

func TestRelayUnavailableGenerator(t *testing.T) {
	relay := NewStreamRelay(llm.Unavailable{}, 0, 0)
	result, err := relay.Relay(context.Background(), llm.Request{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Failed)
	assert.Equal(t, UnavailableNotice, result.Content)
}

func TestRelayCancelledBeforeStart(t *testing.T) {
	relay := NewStreamRelay(llm.NewScripted("a"), 0, 0)
	rec := &flushRecorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancel() // repeated cancellation is harmless

	result, err := relay.Relay(ctx, llm.Request{}, rec.record)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, result.Cancelled)
	assert.False(t, result.Failed)
	assert.Empty(t, rec.all())
}

func TestRelayCancelledMidStreamDropsLateChunks(t *testing.T) {
	gen := newGatedGenerator("迟到", "的内容")
	relay := NewStreamRelay(gen, 5*time.Millisecond, 0)
	rec := &flushRecorder{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var result RelayResult
	var err error
	go func() {
		result, err = relay.Relay(ctx, llm.Request{}, rec.record)
		close(done)
	}()

	cancel()
	<-done
	close(gen.release)
	time.Sleep(20 * time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, result.Cancelled)
	assert.NotContains(t, result.Content, UnavailableNotice)
	assert.Empty(t, rec.all())
}

func TestRelayCancelAfterCompletion(t *testing.T) {
	relay := NewStreamRelay(llm.NewScripted("done"), 0, 0)
	ctx, cancel := context.WithCancel(context.Background())

	result, err := relay.Relay(ctx, llm.Request{}, nil)
	cancel()

	require.NoError(t, err)
	assert.Equal(t, "done", result.Content)
	assert.False(t, result.Cancelled)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agentdesk/internal/llm"
)

// UnavailableNotice is appended to a reply when the model call fails
const UnavailableNotice = "\n[系统提示]: AI 服务暂时不可用，请检查 API Key 或稍后重试。"

// Relay defaults
const (
	DefaultFlushInterval   = 80 * time.Millisecond
	DefaultChunkBufferSize = 64
)

// RelayResult describes how a relay ended. Failed and Cancelled are exclusive.
type RelayResult struct {
	Content   string
	Chunks    int
	Flushes   int
	Failed    bool
	Cancelled bool
	Err       error // Upstream failure, for logs only; never shown to the user
}

type streamItem struct {
	text string
	err  error
}

// StreamRelay forwards generator chunks to a flush callback in batches
type StreamRelay struct {
	generator     llm.Generator
	flushInterval time.Duration
	bufferSize    int
}

// NewStreamRelay creates a relay. Zero values fall back to the defaults.
func NewStreamRelay(generator llm.Generator, flushInterval time.Duration, bufferSize int) *StreamRelay {
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	if bufferSize <= 0 {
		bufferSize = DefaultChunkBufferSize
	}
	return &StreamRelay{
		generator:     generator,
		flushInterval: flushInterval,
		bufferSize:    bufferSize,
	}
}

// Relay streams req and calls onFlush with the full accumulated content at
// most once per flush interval, plus a final flush when the stream ends.
//
// An upstream failure appends UnavailableNotice, flushes, and returns
// Failed with a nil error. Cancellation of ctx stops all flushing and returns
// Cancelled together with ctx.Err().
func (r *StreamRelay) Relay(ctx context.Context, req llm.Request, onFlush func(content string)) (RelayResult, error) {
	if err := ctx.Err(); err != nil {
		return RelayResult{Cancelled: true}, err
	}

	items := make(chan streamItem, r.bufferSize)
	go func() {
		defer close(items)
		for text, err := range r.generator.Stream(ctx, req) {
			select {
			case items <- streamItem{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var (
		result  RelayResult
		content strings.Builder
		dirty   bool
	)
	flush := func() {
		if ctx.Err() != nil {
			return
		}
		result.Flushes++
		dirty = false
		if onFlush != nil {
			onFlush(content.String())
		}
		if m := GetMetrics(); m != nil {
			m.RecordFlush()
		}
	}
	cancelled := func() (RelayResult, error) {
		result.Content = content.String()
		result.Cancelled = true
		return result, ctx.Err()
	}

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return cancelled()

		case item, ok := <-items:
			if !ok {
				if ctx.Err() != nil {
					return cancelled()
				}
				flush()
				result.Content = content.String()
				return result, nil
			}
			if item.err != nil {
				if ctx.Err() != nil || errors.Is(item.err, context.Canceled) {
					return cancelled()
				}
				content.WriteString(UnavailableNotice)
				flush()
				result.Content = content.String()
				result.Failed = true
				result.Err = item.err
				return result, nil
			}
			content.WriteString(item.text)
			result.Chunks++
			dirty = true

		case <-ticker.C:
			if dirty {
				flush()
			}
		}
	}
}

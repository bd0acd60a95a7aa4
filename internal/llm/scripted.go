package llm

import (
	"context"
	"iter"
	"sync"
	"time"
)

// Scripted replays a fixed list of chunks, optionally failing after them.
// Used by tests and local demos without an API key.
type Scripted struct {
	Chunks []string
	Err    error         // Yielded after all chunks when set
	Delay  time.Duration // Pause before each chunk

	mu       sync.Mutex
	requests []Request
}

// NewScripted creates a generator that replays chunks
func NewScripted(chunks ...string) *Scripted {
	return &Scripted{Chunks: chunks}
}

// Stream implements Generator
func (s *Scripted) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	return func(yield func(string, error) bool) {
		for _, chunk := range s.Chunks {
			if s.Delay > 0 {
				select {
				case <-ctx.Done():
					yield("", ctx.Err())
					return
				case <-time.After(s.Delay):
				}
			}
			if ctx.Err() != nil {
				yield("", ctx.Err())
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
		if s.Err != nil {
			yield("", s.Err)
		}
	}
}

// Requests returns every request received so far
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request
func (s *Scripted) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

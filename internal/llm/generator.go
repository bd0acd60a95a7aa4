// Package llm adapts hosted generative models to a chunk stream.
package llm

import (
	"context"
	"errors"
	"iter"

	"agentdesk/internal/models"
)

// ErrUnavailable is returned when no model backend is configured
var ErrUnavailable = errors.New("generative model unavailable")

// Request is one streaming generation call
type Request struct {
	Prompt            string
	SystemInstruction string
	History           []models.HistoryEntry
}

// Generator streams text chunks for a request. The sequence ends early when
// ctx is cancelled or the backend fails; a failure is yielded as a non-nil error.
type Generator interface {
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Unavailable is a Generator that always fails. Used when no API key is set.
type Unavailable struct{}

func (Unavailable) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", ErrUnavailable)
	}
}

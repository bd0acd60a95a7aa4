package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, g Generator, ctx context.Context) ([]string, error) {
	t.Helper()
	var chunks []string
	for chunk, err := range g.Stream(ctx, Request{Prompt: "hi"}) {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestScriptedReplaysChunks(t *testing.T) {
	g := NewScripted("a", "b", "c")
	chunks, err := collect(t, g, context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, chunks)

	req, ok := g.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "hi", req.Prompt)
}

func TestScriptedFailsAfterChunks(t *testing.T) {
	boom := errors.New("boom")
	g := NewScripted("partial")
	g.Err = boom

	chunks, err := collect(t, g, context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestScriptedHonoursCancellation(t *testing.T) {
	g := NewScripted("a", "b")
	g.Delay = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks, err := collect(t, g, ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, chunks)
}

func TestUnavailable(t *testing.T) {
	_, err := collect(t, Unavailable{}, context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", 0.7)
	assert.ErrorIs(t, err, ErrUnavailable)
}

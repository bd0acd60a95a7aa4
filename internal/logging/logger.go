package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the default slog logger used for per-turn chat logs.
// Production emits JSON at info; anything else emits text at debug.
// A non-empty level (debug, info, warn, error) overrides the environment default.
func Init(environment, level string) {
	slog.SetDefault(New(os.Stdout, environment, level))
}

// New builds the logger Init installs, writing to w
func New(w io.Writer, environment, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if environment == "production" {
		opts.Level = slog.LevelInfo
	}
	if level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			opts.Level = lvl
		}
	}

	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithSession scopes the default logger to one chat session.
func WithSession(sessionID, sessionType string) *slog.Logger {
	return slog.With(
		"session_id", sessionID,
		"session_type", sessionType,
	)
}

// WithTurn adds the turn and the answering agent. For collaborations agentID
// is the addressed member, or the session's lead agent.
func WithTurn(logger *slog.Logger, turnID, agentID string) *slog.Logger {
	return logger.With(
		"turn_id", turnID,
		"agent_id", agentID,
	)
}

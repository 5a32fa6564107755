package plugin

import (
	"context"
	"fmt"

	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/state"
)

// Host dispatches hooks to plugins in registration order.
type Host struct {
	sessions SessionSource
	plugins  []Plugin
}

// NewHost creates a Host over the given session source.
func NewHost(sessions SessionSource, plugins ...Plugin) *Host {
	return &Host{sessions: sessions, plugins: plugins}
}

// Plugins returns the registered plugin names in dispatch order.
func (h *Host) Plugins() []string {
	names := make([]string, 0, len(h.plugins))
	for _, p := range h.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Event delivers a host event to every plugin.
func (h *Host) Event(ctx context.Context, ev Event) ([]string, error) {
	n := &Notices{}
	err := h.withSession(ev.SessionID, func(sess *state.Session) {
		for _, p := range h.plugins {
			p.OnEvent(ctx, sess, ev, n)
		}
	})
	return n.List(), err
}

// BeforeTool runs pre-tool hooks until one plugin aborts. The abort reason
// is passed to abort (when non-nil) and returned.
func (h *Host) BeforeTool(ctx context.Context, call ToolCall, abort AbortFunc) (string, []string, error) {
	n := &Notices{}
	var reason string
	err := h.withSession(call.SessionID, func(sess *state.Session) {
		for _, p := range h.plugins {
			reason = p.BeforeTool(ctx, sess, call, n)
			if reason == "" {
				continue
			}
			logging.Debug().
				Str("plugin", p.Name()).
				Str("tool", call.Tool).
				Str("reason", reason).
				Msg("tool call aborted")
			if abort != nil {
				abort(reason)
			}
			return
		}
	})
	return reason, n.List(), err
}

// AfterTool delivers a finished tool result to every plugin.
func (h *Host) AfterTool(ctx context.Context, call ToolCall, res ToolResult) ([]string, error) {
	n := &Notices{}
	err := h.withSession(call.SessionID, func(sess *state.Session) {
		for _, p := range h.plugins {
			p.AfterTool(ctx, sess, call, res, n)
		}
	})
	return n.List(), err
}

func (h *Host) withSession(sessionID string, fn func(sess *state.Session)) error {
	// An unreadable session still gets its hooks run, against a fresh record.
	sess, err := h.sessions.Get(sessionID)
	if err != nil {
		logging.Warn().Err(err).Str("session", sessionID).Msg("loading session state")
		sess = &state.Session{ID: sessionID}
	}
	fn(sess)
	if err := h.sessions.Put(sessionID, sess); err != nil {
		return fmt.Errorf("saving session %q: %w", sessionID, err)
	}
	return nil
}

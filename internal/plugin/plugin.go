// Package plugin is the host hook surface. A Host receives events and tool
// calls from the agent runtime, looks up the owning session, and dispatches
// to each registered Plugin in order.
package plugin

import (
	"context"
	"sync"

	"github.com/warden-dev/warden/internal/state"
)

// Event types warden reacts to.
const (
	EventChatMessage    = "chat.message"
	EventSessionCreated = "session.created"
	EventSessionIdle    = "session.idle"
)

// Event is a host lifecycle or conversation event.
type Event struct {
	Type       string         `json:"type"`
	SessionID  string         `json:"sessionID,omitempty"`
	Content    string         `json:"content,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ToolCall identifies a tool invocation.
type ToolCall struct {
	Tool      string         `json:"tool"`
	SessionID string         `json:"sessionID,omitempty"`
	CallID    string         `json:"callID,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// ToolResult is what a finished tool produced.
type ToolResult struct {
	Title  string `json:"title,omitempty"`
	Output string `json:"output,omitempty"`
}

// AbortFunc is the host callback that cancels a pending tool call.
type AbortFunc func(reason string)

// Plugin reacts to host hooks for one session at a time.
type Plugin interface {
	Name() string
	OnEvent(ctx context.Context, sess *state.Session, ev Event, n *Notices)
	// BeforeTool returns a non-empty reason to abort the call.
	BeforeTool(ctx context.Context, sess *state.Session, call ToolCall, n *Notices) string
	AfterTool(ctx context.Context, sess *state.Session, call ToolCall, res ToolResult, n *Notices)
}

// Notices collects user-facing text produced while handling one hook.
type Notices struct {
	mu    sync.Mutex
	items []string
}

// Notify appends a notice.
func (n *Notices) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, text)
}

// List returns the notices collected so far.
func (n *Notices) List() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.items))
	copy(out, n.items)
	return out
}

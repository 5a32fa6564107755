// Package hook adapts one-shot command hooks (Claude Code style) to the
// plugin host. Each invocation reads one JSON payload from stdin, dispatches
// it, and reports through stdout, stderr and the exit code.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/warden-dev/warden/internal/plugin"
)

// Hook names accepted by Run.
const (
	SessionStart = "session-start"
	Prompt       = "prompt"
	PreTool      = "pre-tool"
	PostTool     = "post-tool"
	Stop         = "stop"
)

// Names lists the supported hooks in lifecycle order.
var Names = []string{SessionStart, Prompt, PreTool, PostTool, Stop}

// ExitBlock tells the host to cancel the tool call and show stderr to the
// model.
const ExitBlock = 2

// Payload is the JSON document the host writes to stdin.
type Payload struct {
	SessionID     string         `json:"session_id"`
	Cwd           string         `json:"cwd,omitempty"`
	HookEventName string         `json:"hook_event_name,omitempty"`
	Prompt        string         `json:"prompt,omitempty"`
	ToolName      string         `json:"tool_name,omitempty"`
	ToolInput     map[string]any `json:"tool_input,omitempty"`
	ToolResponse  any            `json:"tool_response,omitempty"`
}

// Dispatcher is the subset of plugin.Host hooks drive.
type Dispatcher interface {
	Event(ctx context.Context, ev plugin.Event) ([]string, error)
	BeforeTool(ctx context.Context, call plugin.ToolCall, abort plugin.AbortFunc) (string, []string, error)
	AfterTool(ctx context.Context, call plugin.ToolCall, res plugin.ToolResult) ([]string, error)
}

// IsValid reports whether name is a supported hook.
func IsValid(name string) bool {
	return slices.Contains(Names, name)
}

// ReadPayload decodes the stdin payload. Empty input is an empty payload.
func ReadPayload(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading hook payload: %w", err)
	}
	var p Payload
	if len(strings.TrimSpace(string(data))) == 0 {
		return &p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding hook payload: %w", err)
	}
	return &p, nil
}

// Run dispatches one hook and returns the process exit code.
func Run(ctx context.Context, name string, p *Payload, host Dispatcher, stdout, stderr io.Writer) (int, error) {
	var (
		notices []string
		err     error
		out     = stderr
	)

	switch name {
	case SessionStart:
		out = stdout
		notices, err = host.Event(ctx, plugin.Event{Type: plugin.EventSessionCreated, SessionID: p.SessionID})
	case Prompt:
		out = stdout
		notices, err = host.Event(ctx, plugin.Event{Type: plugin.EventChatMessage, SessionID: p.SessionID, Content: p.Prompt})
	case PreTool:
		var reason string
		reason, notices, err = host.BeforeTool(ctx, p.toolCall(), nil)
		if reason != "" {
			writeNotices(stderr, notices)
			fmt.Fprintln(stderr, reason)
			return ExitBlock, err
		}
	case PostTool:
		notices, err = host.AfterTool(ctx, p.toolCall(), plugin.ToolResult{Output: ResponseText(p.ToolResponse)})
	case Stop:
		notices, err = host.Event(ctx, plugin.Event{Type: plugin.EventSessionIdle, SessionID: p.SessionID})
	default:
		return 1, fmt.Errorf("unknown hook %q (valid: %s)", name, strings.Join(Names, ", "))
	}

	writeNotices(out, notices)
	return 0, err
}

func writeNotices(w io.Writer, notices []string) {
	for _, n := range notices {
		fmt.Fprintln(w, n)
	}
}

func (p *Payload) toolCall() plugin.ToolCall {
	return plugin.ToolCall{
		Tool:      strings.ToLower(p.ToolName),
		SessionID: p.SessionID,
		Args:      NormalizeArgs(p.ToolInput),
	}
}

// NormalizeArgs maps host argument names onto the ones plugins read
// (file_path becomes filePath). The input map is not modified.
func NormalizeArgs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	if _, ok := out["filePath"]; !ok {
		if v, ok := in["file_path"]; ok {
			out["filePath"] = v
		}
	}
	return out
}

// ResponseText flattens a tool_response into text. Shell responses carry
// stdout and stderr fields; strings pass through; anything else is
// re-encoded as JSON.
func ResponseText(resp any) string {
	switch v := resp.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		stdout, hasOut := v["stdout"].(string)
		stderr, hasErr := v["stderr"].(string)
		if hasOut || hasErr {
			return strings.TrimRight(strings.Join(nonEmpty(stdout, stderr), "\n"), "\n")
		}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return ""
	}
	return string(data)
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

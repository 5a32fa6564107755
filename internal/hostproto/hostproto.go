// Package hostproto implements the long-lived stdio protocol behind
// `warden serve`: one JSON request per line on the input, one JSON response
// per line on the output. A thin host-side shim forwards plugin hooks over
// it, so session state stays in this process for the lifetime of the loop.
package hostproto

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/plugin"
)

// Hook names accepted in Request.Hook.
const (
	HookEvent      = "event"
	HookToolBefore = "tool.execute.before"
	HookToolAfter  = "tool.execute.after"
)

const maxLineSize = 1024 * 1024

// Request is one hook invocation from the host.
type Request struct {
	ID        string         `json:"id"`
	Hook      string         `json:"hook"`
	Event     *plugin.Event  `json:"event,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	SessionID string         `json:"sessionID,omitempty"`
	CallID    string         `json:"callID,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
	Title     string         `json:"title,omitempty"`
	Output    string         `json:"output,omitempty"`
}

// Response answers one Request. Abort is set when a pre-tool hook blocks.
type Response struct {
	ID      string   `json:"id"`
	Abort   string   `json:"abort,omitempty"`
	Notices []string `json:"notices"`
	Error   string   `json:"error,omitempty"`
}

// Dispatcher is the subset of plugin.Host the protocol drives.
type Dispatcher interface {
	Event(ctx context.Context, ev plugin.Event) ([]string, error)
	BeforeTool(ctx context.Context, call plugin.ToolCall, abort plugin.AbortFunc) (string, []string, error)
	AfterTool(ctx context.Context, call plugin.ToolCall, res plugin.ToolResult) ([]string, error)
}

// Server runs the request loop.
type Server struct {
	host Dispatcher
	mu   sync.Mutex
}

// NewServer creates a Server dispatching to host.
func NewServer(host Dispatcher) *Server {
	return &Server{host: host}
}

// Serve reads requests from r until EOF or ctx is cancelled and writes
// responses to w. Malformed lines get an error response and the loop goes on.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := s.Handle(ctx, []byte(line))
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

// Handle decodes and dispatches a single request line.
func (s *Server) Handle(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		logging.Debug().Err(err).Msg("malformed request")
		return Response{Notices: []string{}, Error: fmt.Sprintf("invalid request: %v", err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := Response{ID: req.ID, Notices: []string{}}
	var (
		notices []string
		err     error
	)

	switch req.Hook {
	case HookEvent:
		if req.Event == nil {
			resp.Error = "event hook requires an event"
			return resp
		}
		ev := *req.Event
		if ev.SessionID == "" {
			ev.SessionID = req.SessionID
		}
		notices, err = s.host.Event(ctx, ev)
	case HookToolBefore:
		resp.Abort, notices, err = s.host.BeforeTool(ctx, req.toolCall(), nil)
	case HookToolAfter:
		notices, err = s.host.AfterTool(ctx, req.toolCall(), plugin.ToolResult{Title: req.Title, Output: req.Output})
	default:
		resp.Error = fmt.Sprintf("unknown hook %q", req.Hook)
		return resp
	}

	if notices != nil {
		resp.Notices = notices
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (r *Request) toolCall() plugin.ToolCall {
	return plugin.ToolCall{
		Tool:      r.Tool,
		SessionID: r.SessionID,
		CallID:    r.CallID,
		Args:      r.Args,
	}
}

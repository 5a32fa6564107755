package plugin

import (
	"context"

	"github.com/warden-dev/warden/internal/gate"
	"github.com/warden-dev/warden/internal/recall"
	"github.com/warden-dev/warden/internal/state"
)

// GatePlugin feeds chat messages and tool calls to the pre-flight gate.
type GatePlugin struct {
	Tasks gate.TaskSource
	Tree  gate.TreeChecker
}

// NewGatePlugin creates the gate plugin.
func NewGatePlugin(tasks gate.TaskSource, tree gate.TreeChecker) *GatePlugin {
	return &GatePlugin{Tasks: tasks, Tree: tree}
}

func (p *GatePlugin) Name() string { return "gate" }

func (p *GatePlugin) OnEvent(ctx context.Context, sess *state.Session, ev Event, n *Notices) {
	if ev.Type != EventChatMessage {
		return
	}
	gate.New(&sess.Gate, p.Tasks, p.Tree, n).HandleMessage(ctx, ev.Content)
}

func (p *GatePlugin) BeforeTool(ctx context.Context, sess *state.Session, call ToolCall, n *Notices) string {
	d := gate.New(&sess.Gate, p.Tasks, p.Tree, n).BeforeAction(ctx, gate.Action{Tool: call.Tool, Args: call.Args})
	if d.Allowed {
		return ""
	}
	return d.Reason
}

func (p *GatePlugin) AfterTool(context.Context, *state.Session, ToolCall, ToolResult, *Notices) {}

// RecallPlugin injects knowledge context around sessions and tool calls.
type RecallPlugin struct {
	Config *recall.Config
}

// NewRecallPlugin creates the recall plugin.
func NewRecallPlugin(cfg *recall.Config) *RecallPlugin {
	return &RecallPlugin{Config: cfg}
}

func (p *RecallPlugin) Name() string { return "recall" }

func (p *RecallPlugin) OnEvent(ctx context.Context, sess *state.Session, ev Event, n *Notices) {
	r := recall.New(p.Config, &sess.Recall, n)
	switch ev.Type {
	case EventSessionCreated:
		r.SessionCreated(ctx)
	case EventSessionIdle:
		r.SessionIdle()
	}
}

func (p *RecallPlugin) BeforeTool(_ context.Context, sess *state.Session, call ToolCall, n *Notices) string {
	recall.New(p.Config, &sess.Recall, n).BeforeTool(call.Tool, call.Args)
	return ""
}

func (p *RecallPlugin) AfterTool(_ context.Context, sess *state.Session, call ToolCall, res ToolResult, n *Notices) {
	recall.New(p.Config, &sess.Recall, n).AfterTool(call.Tool, res.Output)
}

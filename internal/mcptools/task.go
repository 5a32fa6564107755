package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/warden-dev/warden/internal/tracker"
)

// TaskReadyTool handles task_ready.
type TaskReadyTool struct {
	tasks Tasks
}

// NewTaskReadyTool creates a TaskReadyTool.
func NewTaskReadyTool(t Tasks) *TaskReadyTool {
	return &TaskReadyTool{tasks: t}
}

// Definition returns the MCP tool definition for task_ready.
func (t *TaskReadyTool) Definition() mcp.Tool {
	return mcp.NewTool("task_ready",
		mcp.WithDescription("Get the next ready task (unblocked, highest priority)"),
	)
}

// Handle processes the task_ready tool call.
func (t *TaskReadyTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textOrError(t.tasks.Ready(ctx))
}

// TaskWIPTool handles task_wip.
type TaskWIPTool struct {
	tasks Tasks
}

// NewTaskWIPTool creates a TaskWIPTool.
func NewTaskWIPTool(t Tasks) *TaskWIPTool {
	return &TaskWIPTool{tasks: t}
}

// Definition returns the MCP tool definition for task_wip.
func (t *TaskWIPTool) Definition() mcp.Tool {
	return mcp.NewTool("task_wip",
		mcp.WithDescription("List in-progress tasks"),
	)
}

// Handle processes the task_wip tool call.
func (t *TaskWIPTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textOrError(t.tasks.InProgress(ctx))
}

// TaskStartTool handles task_start.
type TaskStartTool struct {
	tasks Tasks
}

// NewTaskStartTool creates a TaskStartTool.
func NewTaskStartTool(t Tasks) *TaskStartTool {
	return &TaskStartTool{tasks: t}
}

// Definition returns the MCP tool definition for task_start.
func (t *TaskStartTool) Definition() mcp.Tool {
	return mcp.NewTool("task_start",
		mcp.WithDescription("Mark a task as in-progress"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task ID (e.g., bd-a1b2)")),
	)
}

// Handle processes the task_start tool call.
func (t *TaskStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	return textOrError(t.tasks.Start(ctx, id))
}

// TaskDoneTool handles task_done.
type TaskDoneTool struct {
	tasks Tasks
}

// NewTaskDoneTool creates a TaskDoneTool.
func NewTaskDoneTool(t Tasks) *TaskDoneTool {
	return &TaskDoneTool{tasks: t}
}

// Definition returns the MCP tool definition for task_done.
func (t *TaskDoneTool) Definition() mcp.Tool {
	return mcp.NewTool("task_done",
		mcp.WithDescription("Close a task with reason"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task ID")),
		mcp.WithString("reason", mcp.Required(), mcp.Description("Completion reason")),
	)
}

// Handle processes the task_done tool call.
func (t *TaskDoneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	return textOrError(t.tasks.Close(ctx, id, req.GetString("reason", "")))
}

// TaskCreateTool handles task_create.
type TaskCreateTool struct {
	tasks Tasks
}

// NewTaskCreateTool creates a TaskCreateTool.
func NewTaskCreateTool(t Tasks) *TaskCreateTool {
	return &TaskCreateTool{tasks: t}
}

// Definition returns the MCP tool definition for task_create.
func (t *TaskCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_create",
		mcp.WithDescription("Create a new task quickly"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("type",
			mcp.Description("Issue type (default: task)"),
			mcp.Enum(tracker.TaskTypes...),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority 0-3 (default: 2)"),
			mcp.Min(0),
			mcp.Max(tracker.MaxPriority),
		),
	)
}

// Handle processes the task_create tool call.
func (t *TaskCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	return textOrError(t.tasks.Create(ctx, title,
		req.GetString("type", tracker.DefaultTaskType),
		intArg(req, "priority", tracker.DefaultPriority),
	))
}

// TaskSyncTool handles task_sync. The push runs through gitCmd.
type TaskSyncTool struct {
	tasks  Tasks
	gitCmd string
}

// NewTaskSyncTool creates a TaskSyncTool.
func NewTaskSyncTool(t Tasks, gitCmd string) *TaskSyncTool {
	return &TaskSyncTool{tasks: t, gitCmd: gitCmd}
}

// Definition returns the MCP tool definition for task_sync.
func (t *TaskSyncTool) Definition() mcp.Tool {
	return mcp.NewTool("task_sync",
		mcp.WithDescription("Sync tasks to git and push"),
	)
}

// Handle processes the task_sync tool call.
func (t *TaskSyncTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textOrError(t.tasks.Sync(ctx, t.gitCmd))
}

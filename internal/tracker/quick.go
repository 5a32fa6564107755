package tracker

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/warden-dev/warden/internal/shell"
)

// Task types accepted by Create.
var TaskTypes = []string{"bug", "feature", "task", "epic", "chore"}

const (
	DefaultTaskType = "task"
	DefaultPriority = 2
	MaxPriority     = 3
)

// Ready returns the highest priority unblocked task as "ID: Title (pN)".
func (c *Client) Ready(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "ready", "--json")
	if err != nil {
		return "", fmt.Errorf("listing ready tasks: %w", err)
	}
	line, err := Project(readyQuery, out)
	if err != nil {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return "No ready tasks", nil
	}
	return line, nil
}

// InProgress lists in-progress tasks, one "ID: Title" per line.
func (c *Client) InProgress(ctx context.Context) (string, error) {
	out, err := c.output(ctx, "list", "--status", "in_progress", "--json")
	if err != nil {
		return "", fmt.Errorf("listing in-progress tasks: %w", err)
	}
	lines, err := Project(wipQuery, out)
	if err != nil {
		return "", err
	}
	if lines = strings.TrimSpace(lines); lines == "" {
		return "Nothing in progress", nil
	}
	return lines, nil
}

// Start marks a task as in progress.
func (c *Client) Start(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("task id is required")
	}
	if _, err := c.output(ctx, "update", id, "--status", "in_progress", "--json"); err != nil {
		return "", fmt.Errorf("starting %s: %w", id, err)
	}
	return "Started: " + id, nil
}

// Close closes a task with a completion reason.
func (c *Client) Close(ctx context.Context, id, reason string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("task id is required")
	}
	if _, err := c.output(ctx, "close", id, "--reason", reason, "--json"); err != nil {
		return "", fmt.Errorf("closing %s: %w", id, err)
	}
	return "Closed: " + id, nil
}

// Create files a new task. An empty taskType means DefaultTaskType.
func (c *Client) Create(ctx context.Context, title, taskType string, priority int) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("task title is required")
	}
	if taskType == "" {
		taskType = DefaultTaskType
	}
	if !slices.Contains(TaskTypes, taskType) {
		return "", fmt.Errorf("invalid task type %q (valid: %s)", taskType, strings.Join(TaskTypes, ", "))
	}
	if priority < 0 || priority > MaxPriority {
		return "", fmt.Errorf("invalid priority %d (valid: 0-%d)", priority, MaxPriority)
	}

	out, err := c.output(ctx, "create", title, "-t", taskType, "-p", strconv.Itoa(priority), "--json")
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}
	id, err := Project(createQuery, out)
	if err != nil {
		return "", err
	}
	return "Created: " + strings.TrimSpace(id), nil
}

// Sync exports tracker state to git and pushes it.
func (c *Client) Sync(ctx context.Context, gitCmd string) (string, error) {
	if _, err := c.output(ctx, "sync"); err != nil {
		return "", fmt.Errorf("syncing tasks: %w", err)
	}
	if gitCmd == "" {
		gitCmd = "git"
	}
	push := shell.Command{Name: gitCmd, Args: []string{"push"}, Dir: c.dir}
	if _, err := shell.Output(ctx, c.runner, push); err != nil {
		return "", fmt.Errorf("pushing: %w", err)
	}
	return "Tasks synced and pushed", nil
}

// Package tracker talks to the local task tracker CLI (bd). It answers the
// gate's "is there an active task" question and provides the quick
// operations exposed as agent tools.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/shell"
)

// QueryTimeout bounds every tracker invocation. Not configurable.
const QueryTimeout = 5 * time.Second

// Task is the subset of a tracker record warden cares about.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// Client runs bd commands in a working directory.
type Client struct {
	runner shell.Runner
	cmd    string
	dir    string
}

// NewClient creates a tracker client. An empty trackerCmd defaults to "bd".
func NewClient(runner shell.Runner, trackerCmd, dir string) *Client {
	if trackerCmd == "" {
		trackerCmd = "bd"
	}
	return &Client{runner: runner, cmd: trackerCmd, dir: dir}
}

// ActiveTask returns the first task the tracker reports as in progress, or
// nil when there is none. A record without an id is malformed. The gate
// treats any error as "no active task".
func (c *Client) ActiveTask(ctx context.Context) (*Task, error) {
	out, err := c.output(ctx, "list", "--status", "in_progress", "--json")
	if err != nil {
		return nil, err
	}

	tasks, err := decodeTasks(out)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(tasks[0].ID) == "" {
		return nil, fmt.Errorf("tracker returned a task without an id")
	}
	return &tasks[0], nil
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	return shell.Output(ctx, c.runner, c.command(args...))
}

func (c *Client) command(args ...string) shell.Command {
	return shell.Command{
		Name:    c.cmd,
		Args:    args,
		Dir:     c.dir,
		Timeout: QueryTimeout,
	}
}

// decodeTasks accepts an empty body or JSON null as "no tasks".
func decodeTasks(out string) ([]Task, error) {
	body := strings.TrimSpace(out)
	if body == "" || body == "null" {
		return nil, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(body), &tasks); err != nil {
		return nil, fmt.Errorf("decoding tracker output: %w", err)
	}
	return tasks, nil
}

// Package cass queries the local coding-agent session search tool (cass) for
// past sessions in the current workspace.
package cass

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/shell"
)

// Timeouts for cass invocations. Not configurable.
const (
	HealthTimeout = 2 * time.Second
	SearchTimeout = 5 * time.Second
)

// Defaults for search options.
const (
	DefaultLimit  = 5
	DefaultFields = "minimal"
	DefaultQuery  = "error OR fix OR bug"
)

// Result is one search hit.
type Result struct {
	SourcePath string `json:"source_path"`
	LineNumber int    `json:"line_number"`
	Agent      string `json:"agent"`
	Snippet    string `json:"snippet,omitempty"`
}

// Client wraps the cass CLI.
type Client struct {
	runner shell.Runner
	cmd    string
	limit  int
	fields string
}

// NewClient creates a cass client. Zero values select the defaults.
func NewClient(runner shell.Runner, cassCmd string, limit int, fields string) *Client {
	if cassCmd == "" {
		cassCmd = "cass"
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if fields == "" {
		fields = DefaultFields
	}
	return &Client{runner: runner, cmd: cassCmd, limit: limit, fields: fields}
}

// Healthy reports whether `cass health` succeeds within HealthTimeout.
func (c *Client) Healthy(ctx context.Context) bool {
	_, err := shell.Output(ctx, c.runner, shell.Command{
		Name:    c.cmd,
		Args:    []string{"health"},
		Timeout: HealthTimeout,
	})
	if err != nil {
		logging.Debug().Err(err).Str("component", "cass").Msg("health check failed")
		return false
	}
	return true
}

// Search returns sessions matching query in workspace. Any failure yields
// an empty result.
func (c *Client) Search(ctx context.Context, query, workspace string) []Result {
	out, err := shell.Output(ctx, c.runner, shell.Command{
		Name: c.cmd,
		Args: []string{
			"search", query,
			"--robot",
			"--limit", strconv.Itoa(c.limit),
			"--fields", c.fields,
			"--workspace", workspace,
		},
		Timeout: SearchTimeout,
	})
	if err != nil {
		logging.Debug().Err(err).Str("component", "cass").Msg("search failed")
		return nil
	}

	var results []Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &results); err != nil {
		logging.Debug().Err(err).Str("component", "cass").Msg("decoding search results")
		return nil
	}
	return results
}

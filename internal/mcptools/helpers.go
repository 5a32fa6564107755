// Package mcptools implements the MCP tools warden exposes: repository
// crawling over the GitHub API and quick task tracker operations.
//
// Each tool is a struct holding its dependency behind an interface, with a
// Definition for registration and a Handle compatible with mcp-go.
package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Crawler is the repository crawler surface the repo tools use.
type Crawler interface {
	Structure(ctx context.Context, repo string, depth int) string
	Readme(ctx context.Context, repo string, maxLength int) string
	File(ctx context.Context, repo, path string, maxLength int) string
	Tree(ctx context.Context, repo, path string, maxDepth int) string
	Search(ctx context.Context, repo, query string, maxResults int) string
}

// Tasks is the tracker surface the task tools use.
type Tasks interface {
	Ready(ctx context.Context) (string, error)
	InProgress(ctx context.Context) (string, error)
	Start(ctx context.Context, id string) (string, error)
	Close(ctx context.Context, id, reason string) (string, error)
	Create(ctx context.Context, title, taskType string, priority int) (string, error)
	Sync(ctx context.Context, gitCmd string) (string, error)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal when it is absent. JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// textOrError turns a (text, error) pair into a tool result. Errors are
// reported to the model as tool errors, not protocol errors.
func textOrError(text string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// Package server is warden's composition root: it turns a Configuration into
// the concrete clients, the plugin host, and the MCP tool server. No
// behavior lives here, only wiring.
package server

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/warden-dev/warden/internal/build"
	"github.com/warden-dev/warden/internal/cass"
	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/crawl"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/github"
	"github.com/warden-dev/warden/internal/knowledge"
	"github.com/warden-dev/warden/internal/mcptools"
	"github.com/warden-dev/warden/internal/plugin"
	"github.com/warden-dev/warden/internal/recall"
	"github.com/warden-dev/warden/internal/shell"
	"github.com/warden-dev/warden/internal/tracker"
)

// Deps are the inputs every component is built from.
type Deps struct {
	Config *config.Configuration
	// Dir is the project directory commands run in.
	Dir string
	// Runner runs external commands. Nil uses the real executor.
	Runner shell.Runner
	// HTTPClient overrides the GitHub client's transport.
	HTTPClient *http.Client
	// GitOpener overrides how the session context reads git state.
	GitOpener git.Opener
}

func (d Deps) runner() shell.Runner {
	if d.Runner != nil {
		return d.Runner
	}
	return shell.NewExecRunner()
}

// Tracker builds the bd client.
func (d Deps) Tracker() *tracker.Client {
	return tracker.NewClient(d.runner(), d.Config.TrackerCmd, d.Dir)
}

// Tree builds the working tree checker.
func (d Deps) Tree() *git.Tree {
	return git.NewTree(d.runner(), d.Config.GitCmd, d.Dir)
}

// Knowledge builds the knowledge base reader.
func (d Deps) Knowledge() *knowledge.Base {
	return knowledge.NewBase(d.Config.KnowledgeDir, d.Config.ErrorPatternFile, d.Config.PreventionPatternFile)
}

// Cass builds the session search client.
func (d Deps) Cass() *cass.Client {
	return cass.NewClient(d.runner(), d.Config.CassCmd, d.Config.CassLimit, d.Config.CassFields)
}

// GitHub builds the REST client.
func (d Deps) GitHub() *github.Client {
	opts := []github.Option{
		github.WithAPIURL(d.Config.GitHubAPIURL),
		github.WithRawURL(d.Config.GitHubRawURL),
		github.WithToken(d.Config.GitHubToken),
	}
	if d.HTTPClient != nil {
		opts = append(opts, github.WithHTTPClient(d.HTTPClient))
	}
	return github.NewClient(opts...)
}

// Crawler builds the repo crawler.
func (d Deps) Crawler() *crawl.Crawler {
	return crawl.New(d.GitHub())
}

// RecallConfig builds the recall plugin configuration.
func (d Deps) RecallConfig() *recall.Config {
	opener := d.GitOpener
	if opener == nil {
		opener = git.DefaultOpener{}
	}
	return &recall.Config{
		Dir:                d.Dir,
		Knowledge:          d.Knowledge(),
		Sessions:           d.Cass(),
		CassQuery:          d.Config.CassQuery,
		PreventionSections: d.Config.PreventionSections,
		MaxContextLines:    d.Config.MaxContextLines,
		RetroAfter:         d.Config.RetroAfter(),
		GitOpener:          opener,
	}
}

// NewHost builds the plugin host: the gate first, so a blocked action never
// reaches recall, then recall.
func NewHost(d Deps, sessions plugin.SessionSource) *plugin.Host {
	return plugin.NewHost(sessions,
		plugin.NewGatePlugin(d.Tracker(), d.Tree()),
		plugin.NewRecallPlugin(d.RecallConfig()),
	)
}

// Tool is the shape every mcptools tool has.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Tools returns every MCP tool in registration order.
func Tools(d Deps) []Tool {
	crawler := d.Crawler()
	tasks := d.Tracker()
	return []Tool{
		mcptools.NewRepoStructureTool(crawler),
		mcptools.NewRepoReadmeTool(crawler),
		mcptools.NewRepoFileTool(crawler),
		mcptools.NewRepoTreeTool(crawler),
		mcptools.NewRepoSearchTool(crawler),
		mcptools.NewTaskReadyTool(tasks),
		mcptools.NewTaskWIPTool(tasks),
		mcptools.NewTaskStartTool(tasks),
		mcptools.NewTaskDoneTool(tasks),
		mcptools.NewTaskCreateTool(tasks),
		mcptools.NewTaskSyncTool(tasks, d.Config.GitCmd),
	}
}

// NewMCP creates the MCP server with every tool registered.
func NewMCP(d Deps) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"warden",
		build.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(serverInstructions()),
	)

	for _, t := range Tools(d) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

func serverInstructions() string {
	return `warden keeps coding agents honest about what they are working on.

Repository tools (repo_*) read public GitHub repositories without cloning:
start with repo_structure, then repo_tree or repo_readme, and fetch single
files with repo_file. Use repo_search to locate code by keyword.

Task tools (task_*) drive the local task tracker. Edits are blocked until a
task is in progress: call task_ready to find work, task_start to claim it,
and task_done with a reason when finished. task_sync pushes tracker state.`
}

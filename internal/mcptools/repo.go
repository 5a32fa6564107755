package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/warden-dev/warden/internal/crawl"
)

const repoArgDescription = "GitHub repo (owner/repo or URL)"

// RepoStructureTool handles repo_structure.
type RepoStructureTool struct {
	crawler Crawler
}

// NewRepoStructureTool creates a RepoStructureTool.
func NewRepoStructureTool(c Crawler) *RepoStructureTool {
	return &RepoStructureTool{crawler: c}
}

// Definition returns the MCP tool definition for repo_structure.
func (t *RepoStructureTool) Definition() mcp.Tool {
	return mcp.NewTool("repo_structure",
		mcp.WithDescription("Get repo structure - directories, key files, tech stack detection"),
		mcp.WithString("repo", mcp.Required(), mcp.Description(repoArgDescription)),
		mcp.WithNumber("depth", mcp.Description("Max depth to crawl (default: 2)")),
	)
}

// Handle processes the repo_structure tool call.
func (t *RepoStructureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	return mcp.NewToolResultText(t.crawler.Structure(ctx, repo, intArg(req, "depth", crawl.DefaultDepth))), nil
}

// RepoReadmeTool handles repo_readme.
type RepoReadmeTool struct {
	crawler Crawler
}

// NewRepoReadmeTool creates a RepoReadmeTool.
func NewRepoReadmeTool(c Crawler) *RepoReadmeTool {
	return &RepoReadmeTool{crawler: c}
}

// Definition returns the MCP tool definition for repo_readme.
func (t *RepoReadmeTool) Definition() mcp.Tool {
	return mcp.NewTool("repo_readme",
		mcp.WithDescription("Get repo README content"),
		mcp.WithString("repo", mcp.Required(), mcp.Description(repoArgDescription)),
		mcp.WithNumber("maxLength", mcp.Description("Max chars to return (default: 5000)")),
	)
}

// Handle processes the repo_readme tool call.
func (t *RepoReadmeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	return mcp.NewToolResultText(t.crawler.Readme(ctx, repo, intArg(req, "maxLength", crawl.DefaultReadmeLength))), nil
}

// RepoFileTool handles repo_file.
type RepoFileTool struct {
	crawler Crawler
}

// NewRepoFileTool creates a RepoFileTool.
func NewRepoFileTool(c Crawler) *RepoFileTool {
	return &RepoFileTool{crawler: c}
}

// Definition returns the MCP tool definition for repo_file.
func (t *RepoFileTool) Definition() mcp.Tool {
	return mcp.NewTool("repo_file",
		mcp.WithDescription("Get a specific file from a GitHub repo"),
		mcp.WithString("repo", mcp.Required(), mcp.Description(repoArgDescription)),
		mcp.WithString("path", mcp.Required(), mcp.Description("File path within repo")),
		mcp.WithNumber("maxLength", mcp.Description("Max chars to return (default: 10000)")),
	)
}

// Handle processes the repo_file tool call.
func (t *RepoFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("'path' is required"), nil
	}
	return mcp.NewToolResultText(t.crawler.File(ctx, repo, path, intArg(req, "maxLength", crawl.DefaultFileLength))), nil
}

// RepoTreeTool handles repo_tree.
type RepoTreeTool struct {
	crawler Crawler
}

// NewRepoTreeTool creates a RepoTreeTool.
func NewRepoTreeTool(c Crawler) *RepoTreeTool {
	return &RepoTreeTool{crawler: c}
}

// Definition returns the MCP tool definition for repo_tree.
func (t *RepoTreeTool) Definition() mcp.Tool {
	return mcp.NewTool("repo_tree",
		mcp.WithDescription("Get directory tree of a path in a GitHub repo"),
		mcp.WithString("repo", mcp.Required(), mcp.Description(repoArgDescription)),
		mcp.WithString("path", mcp.Description("Directory path (default: root)")),
		mcp.WithNumber("maxDepth", mcp.Description("Max depth (default: 3)")),
	)
}

// Handle processes the repo_tree tool call.
func (t *RepoTreeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	path := req.GetString("path", "")
	return mcp.NewToolResultText(t.crawler.Tree(ctx, repo, path, intArg(req, "maxDepth", crawl.DefaultTreeDepth))), nil
}

// RepoSearchTool handles repo_search.
type RepoSearchTool struct {
	crawler Crawler
}

// NewRepoSearchTool creates a RepoSearchTool.
func NewRepoSearchTool(c Crawler) *RepoSearchTool {
	return &RepoSearchTool{crawler: c}
}

// Definition returns the MCP tool definition for repo_search.
func (t *RepoSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("repo_search",
		mcp.WithDescription("Search for code in a GitHub repo"),
		mcp.WithString("repo", mcp.Required(), mcp.Description(repoArgDescription)),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("maxResults", mcp.Description("Max results (default: 10)")),
	)
}

// Handle processes the repo_search tool call.
func (t *RepoSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	return mcp.NewToolResultText(t.crawler.Search(ctx, repo, query, intArg(req, "maxResults", crawl.DefaultSearchResults))), nil
}

// Package crawl renders a remote GitHub repository as text an agent can
// read: overview and tech stack, README, single files, directory trees and
// code search hits. Every operation returns text; failures are described in
// the text rather than returned as errors.
package crawl

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/warden-dev/warden/internal/github"
)

// Defaults for optional arguments.
const (
	DefaultDepth         = 2
	DefaultReadmeLength  = 5000
	DefaultFileLength    = 10000
	DefaultTreeDepth     = 3
	DefaultSearchResults = 10
)

const (
	invalidRepo     = "Invalid repo format"
	invalidRepoHint = "Invalid repo format. Use: owner/repo or GitHub URL"
)

var repoPattern = regexp.MustCompile(`(?i)(?:github\.com/)?([^/]+)/([^/\s]+)`)

// Ref names a repository.
type Ref struct {
	Owner string
	Repo  string
}

func (r Ref) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepo accepts owner/repo, github.com/owner/repo or a full URL. A
// trailing .git is dropped.
func ParseRepo(input string) (Ref, bool) {
	m := repoPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return Ref{}, false
	}
	repo := strings.TrimSuffix(m[2], ".git")
	if m[1] == "" || repo == "" {
		return Ref{}, false
	}
	return Ref{Owner: m[1], Repo: repo}, true
}

// API is the GitHub surface the crawler needs.
type API interface {
	Repository(ctx context.Context, owner, repo string) (*github.Repository, error)
	Contents(ctx context.Context, owner, repo, path string) ([]github.Entry, error)
	Raw(ctx context.Context, owner, repo, path string) (string, bool, error)
	SearchCode(ctx context.Context, owner, repo, query string, perPage int) (*github.SearchResult, error)
}

// Crawler runs crawl operations against an API.
type Crawler struct {
	api API
}

// New creates a Crawler.
func New(api API) *Crawler {
	return &Crawler{api: api}
}

// Readme returns the first README variant found, truncated to maxLength
// characters (DefaultReadmeLength when <= 0).
func (c *Crawler) Readme(ctx context.Context, repo string, maxLength int) string {
	ref, ok := ParseRepo(repo)
	if !ok {
		return invalidRepo
	}
	if maxLength <= 0 {
		maxLength = DefaultReadmeLength
	}

	for _, name := range []string{"README.md", "readme.md", "README", "README.rst", "README.txt"} {
		content, found, err := c.api.Raw(ctx, ref.Owner, ref.Repo, name)
		if err != nil {
			return fmt.Sprintf("Failed to fetch README: %v", err)
		}
		if found && content != "" {
			return Truncate(content, maxLength)
		}
	}
	return "No README found"
}

// File returns one file's content, truncated to maxLength characters
// (DefaultFileLength when <= 0).
func (c *Crawler) File(ctx context.Context, repo, path string, maxLength int) string {
	ref, ok := ParseRepo(repo)
	if !ok {
		return invalidRepo
	}
	if maxLength <= 0 {
		maxLength = DefaultFileLength
	}

	content, found, err := c.api.Raw(ctx, ref.Owner, ref.Repo, path)
	if err != nil {
		return fmt.Sprintf("Failed to fetch %s: %v", path, err)
	}
	if !found || content == "" {
		return "File not found: " + path
	}
	return Truncate(content, maxLength)
}

// Search lists paths of code search hits.
func (c *Crawler) Search(ctx context.Context, repo, query string, maxResults int) string {
	ref, ok := ParseRepo(repo)
	if !ok {
		return invalidRepo
	}
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}

	res, err := c.api.SearchCode(ctx, ref.Owner, ref.Repo, query, maxResults)
	if err != nil {
		return fmt.Sprintf("Search failed: %v", err)
	}
	if len(res.Items) == 0 {
		return "No results for: " + query
	}

	items := res.Items
	if len(items) > maxResults {
		items = items[:maxResults]
	}
	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.Path)
	}
	return fmt.Sprintf("Found %d results (showing %d):\n\n%s", res.TotalCount, len(items), strings.Join(paths, "\n"))
}

// Truncate cuts s to maxLength characters and notes how many were dropped.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + fmt.Sprintf("\n\n... (truncated, %d more chars)", len(runes)-maxLength)
}

// Package github is a small client for the parts of the GitHub REST API and
// raw content host that the repo crawler reads.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/build"
)

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultRawURL = "https://raw.githubusercontent.com"

	requestTimeout = 30 * time.Second
)

// Branches tried, in order, for raw content.
var rawBranches = []string{"main", "master"}

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d", e.StatusCode)
}

// Repository holds the repository metadata the crawler displays.
type Repository struct {
	FullName        string    `json:"full_name"`
	Description     string    `json:"description"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	DefaultBranch   string    `json:"default_branch"`
}

// Entry is one item of a contents listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == "dir"
}

// SearchResult is a code search response.
type SearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []SearchItem `json:"items"`
}

// SearchItem is one code search hit.
type SearchItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Client talks to GitHub.
type Client struct {
	apiURL     string
	rawURL     string
	token      string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the REST API base URL.
func WithAPIURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRawURL overrides the raw content base URL.
func WithRawURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.rawURL = strings.TrimRight(u, "/")
		}
	}
}

// WithToken sends a bearer token on API requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client with the public GitHub endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiURL:     DefaultAPIURL,
		rawURL:     DefaultRawURL,
		userAgent:  build.UserAgent("repo-crawl"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repository fetches repository metadata.
func (c *Client) Repository(ctx context.Context, owner, repo string) (*Repository, error) {
	var out Repository
	if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Contents lists a directory. An empty path lists the repository root.
func (c *Client) Contents(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/contents", owner, repo)
	if p := strings.Trim(path, "/"); p != "" {
		endpoint += "/" + escapePath(p)
	}
	var out []Entry
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchCode searches code within one repository.
func (c *Client) SearchCode(ctx context.Context, owner, repo, query string, perPage int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s repo:%s/%s", query, owner, repo))
	q.Set("per_page", strconv.Itoa(perPage))

	var out SearchResult
	if err := c.getJSON(ctx, "/search/code?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Raw fetches a file from the raw content host, trying main then master.
// found is false when neither branch has the file.
func (c *Client) Raw(ctx context.Context, owner, repo, path string) (content string, found bool, err error) {
	var lastErr error
	for _, branch := range rawBranches {
		u := fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL, owner, repo, branch, escapePath(strings.TrimLeft(path, "/")))
		body, status, err := c.get(ctx, u, false)
		if err != nil {
			lastErr = err
			continue
		}
		if status == http.StatusOK {
			return string(body), true, nil
		}
	}
	if lastErr != nil && ctx.Err() != nil {
		return "", false, lastErr
	}
	return "", false, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, status, err := c.get(ctx, c.apiURL+endpoint, true)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &APIError{StatusCode: status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding GitHub response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u string, api bool) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if api {
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("requesting %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// escapePath escapes each segment of a repository path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

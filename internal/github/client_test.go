package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := []Option{WithAPIURL(srv.URL), WithRawURL(srv.URL + "/raw"), WithHTTPClient(srv.Client())}
	return NewClient(append(base, opts...)...)
}

func TestClient_Repository(t *testing.T) {
	var gotHeaders http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/repos/octo/hello", r.URL.Path)
		_, _ = w.Write([]byte(`{"full_name":"octo/hello","description":"Hi","stargazers_count":5,"forks_count":2,"updated_at":"2026-03-04T10:00:00Z"}`))
	}, WithToken("secret"))

	repo, err := c.Repository(context.Background(), "octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi", repo.Description)
	assert.Equal(t, 5, repo.StargazersCount)
	assert.Equal(t, 2, repo.ForksCount)
	assert.Equal(t, 2026, repo.UpdatedAt.Year())

	assert.Equal(t, "application/vnd.github.v3+json", gotHeaders.Get("Accept"))
	assert.True(t, strings.HasPrefix(gotHeaders.Get("User-Agent"), "warden-repo-crawl"))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Repository(context.Background(), "octo", "hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "GitHub API error: 403", err.Error())
}

func TestClient_Contents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/hello/contents":
			_, _ = w.Write([]byte(`[{"name":"src","path":"src","type":"dir"},{"name":"go.mod","path":"go.mod","type":"file"}]`))
		case "/repos/octo/hello/contents/src/pkg":
			_, _ = w.Write([]byte(`[{"name":"a.go","path":"src/pkg/a.go","type":"file"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	root, err := c.Contents(context.Background(), "octo", "hello", "")
	require.NoError(t, err)
	require.Len(t, root, 2)
	assert.True(t, root[0].IsDir())
	assert.False(t, root[1].IsDir())

	sub, err := c.Contents(context.Background(), "octo", "hello", "/src/pkg/")
	require.NoError(t, err)
	assert.Equal(t, "src/pkg/a.go", sub[0].Path)

	_, err = c.Contents(context.Background(), "octo", "hello", "missing")
	assert.Error(t, err)
}

func TestClient_Raw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "raw host gets no token")
		switch r.URL.Path {
		case "/raw/octo/hello/main/README.md":
			_, _ = w.Write([]byte("# main readme"))
		case "/raw/octo/hello/master/OLD.md":
			_, _ = w.Write([]byte("from master"))
		default:
			http.NotFound(w, r)
		}
	}, WithToken("secret"))

	tests := map[string]struct {
		path      string
		want      string
		wantFound bool
	}{
		"main branch":   {path: "README.md", want: "# main readme", wantFound: true},
		"master branch": {path: "OLD.md", want: "from master", wantFound: true},
		"missing":       {path: "NOPE.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, found, err := c.Raw(context.Background(), "octo", "hello", tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_SearchCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/code", r.URL.Path)
		assert.Equal(t, "useState repo:octo/hello", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"total_count":42,"items":[{"name":"a.ts","path":"src/a.ts"}]}`))
	})

	res, err := c.SearchCode(context.Background(), "octo", "hello", "useState", 3)
	require.NoError(t, err)
	assert.Equal(t, 42, res.TotalCount)
	assert.Equal(t, "src/a.ts", res.Items[0].Path)
}

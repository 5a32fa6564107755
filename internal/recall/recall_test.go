package recall

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warden-dev/warden/internal/cass"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/knowledge"
)

const patternsMD = "### Nil map write\n" +
	"**Pattern:** `nil map`\n" +
	"**Files:** `cache.go`\n" +
	"**Fixes:**\n```\nm := make(map[string]int)\n```\n\n" +
	"### Port in use\n" +
	"**Pattern:** `address already in use`\n" +
	"**Files:** `server.go, cache.go`\n" +
	"**Prevention:** stop the old server\n"

type fakeKnowledge struct {
	patterns  []knowledge.Pattern
	headings  map[string][]string
	err       error
	loadCount int
}

func (f *fakeKnowledge) ErrorPatterns() ([]knowledge.Pattern, error) {
	f.loadCount++
	return f.patterns, f.err
}

func (f *fakeKnowledge) PreventionHeadings(section string, limit int) ([]string, error) {
	h := f.headings[section]
	if limit > 0 && len(h) > limit {
		h = h[:limit]
	}
	return h, f.err
}

type fakeSearch struct {
	healthy bool
	results []cass.Result
	queries []string
}

func (f *fakeSearch) Healthy(context.Context) bool { return f.healthy }

func (f *fakeSearch) Search(_ context.Context, query, _ string) []cass.Result {
	f.queries = append(f.queries, query)
	return f.results
}

type recorder struct{ notices []string }

func (r *recorder) Notify(text string) { r.notices = append(r.notices, text) }

type fakeRepo struct{ ref *plumbing.Reference }

func (f fakeRepo) Head() (*plumbing.Reference, error) { return f.ref, nil }

type fakeOpener struct {
	repo git.Repository
	err  error
}

func (f fakeOpener) Open(string) (git.Repository, error) { return f.repo, f.err }

func TestSessionContext_Full(t *testing.T) {
	ref := plumbing.NewHashReference(
		plumbing.NewBranchReferenceName("main"),
		plumbing.NewHash("1234567890abcdef1234567890abcdef12345678"),
	)
	search := &fakeSearch{healthy: true, results: []cass.Result{{SourcePath: "a"}, {SourcePath: "b"}}}
	cfg := &Config{
		Dir: "/home/dev/gmp-viewer",
		Knowledge: &fakeKnowledge{
			patterns: knowledge.ParseErrorPatterns(patternsMD),
			headings: map[string][]string{"SwiftUI Patterns": {"One", "Two", "Three", "Four"}},
		},
		Sessions: search,
		PreventionSections: []PreventionSection{
			{Section: "SwiftUI Patterns", PathContains: []string{"pfizer", "GMP"}},
			{Section: "Go Patterns", PathContains: []string{"golang"}},
		},
		GitOpener: fakeOpener{repo: fakeRepo{ref: ref}},
	}

	got := SessionContext(context.Background(), cfg)

	assert.True(t, strings.HasPrefix(got, "## Session Context for gmp-viewer\nBranch: main (1234567)\n"))
	assert.Contains(t, got, "### Known Error Patterns\nFound 2 patterns in knowledge base.")
	assert.Contains(t, got, "### SwiftUI Patterns (Relevant to this project)\n- One\n- Two\n- Three\n")
	assert.NotContains(t, got, "Four")
	assert.NotContains(t, got, "Go Patterns")
	assert.Contains(t, got, "### Recent CASS Sessions\nFound 2 relevant sessions in this project.")
	assert.Contains(t, got, "### Session End Reminder")
	assert.Equal(t, []string{cass.DefaultQuery}, search.queries)
}

func TestSessionContext_Minimal(t *testing.T) {
	cfg := &Config{
		Dir:       "/work/proj",
		Knowledge: &fakeKnowledge{err: errors.New("permission denied")},
		Sessions:  &fakeSearch{healthy: false},
		GitOpener: fakeOpener{err: errors.New("not a repo")},
	}

	got := SessionContext(context.Background(), cfg)

	assert.Equal(t, "## Session Context for proj\n\n"+
		"### Session End Reminder\n"+
		"Before ending, consider running `/retro` to capture learnings.\n", got)
}

func TestSessionContext_Capped(t *testing.T) {
	cfg := &Config{Dir: "/work/proj", MaxContextLines: 3}

	got := SessionContext(context.Background(), cfg)
	assert.Len(t, strings.Split(got, "\n"), 3)
}

func TestRecall_SessionCreatedResetsState(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	state := &State{HadErrors: true}
	rec := &recorder{}
	r := New(&Config{Dir: "/p", Now: func() time.Time { return now }}, state, rec)

	r.SessionCreated(context.Background())

	assert.Equal(t, now, state.StartedAt)
	assert.False(t, state.HadErrors)
	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], "## Session Context for p")
}

func TestRecall_BeforeTool(t *testing.T) {
	k := &fakeKnowledge{patterns: knowledge.ParseErrorPatterns(patternsMD)}

	tests := map[string]struct {
		tool string
		args map[string]any
		want string
	}{
		"edit with two patterns": {
			tool: "edit",
			args: map[string]any{"filePath": "/src/cache.go"},
			want: "⚠️ **Pre-edit warning**: /src/cache.go has 2 known error pattern(s):\n- Nil map write\n- Port in use",
		},
		"write with one pattern": {
			tool: "Write",
			args: map[string]any{"filePath": "/src/server.go"},
			want: "⚠️ **Pre-edit warning**: /src/server.go has 1 known error pattern(s):\n- Port in use",
		},
		"no match": {
			tool: "edit",
			args: map[string]any{"filePath": "/src/main.go"},
		},
		"read is ignored": {
			tool: "read",
			args: map[string]any{"filePath": "/src/cache.go"},
		},
		"missing path": {
			tool: "edit",
			args: map[string]any{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := &recorder{}
			New(&Config{Knowledge: k}, &State{}, rec).BeforeTool(tt.tool, tt.args)
			if tt.want == "" {
				assert.Empty(t, rec.notices)
				return
			}
			require.Len(t, rec.notices, 1)
			assert.Equal(t, tt.want, rec.notices[0])
		})
	}
}

func TestRecall_AfterTool(t *testing.T) {
	k := &fakeKnowledge{patterns: knowledge.ParseErrorPatterns(patternsMD)}

	tests := map[string]struct {
		tool       string
		output     string
		wantErrors bool
		wantNotice string
	}{
		"bash known error": {
			tool:       "bash",
			output:     "Error: listen tcp: address already in use",
			wantErrors: true,
			wantNotice: "🔍 **Known pattern detected**: Port in use\n\n**Known fix:**\n```\nstop the old server\n```",
		},
		"bash unknown error": {
			tool:       "bash",
			output:     "ERROR: disk full",
			wantErrors: true,
		},
		"bash no error": {
			tool:   "bash",
			output: "ok",
		},
		"typecheck lowercase only": {
			tool:   "typecheck",
			output: "Error in nil map",
		},
		"typecheck error": {
			tool:       "typecheck",
			output:     "error: nil map assignment",
			wantErrors: true,
			wantNotice: "🔍 **Known pattern detected**: Nil map write\n\n**Known fix:**\n```\nm := make(map[string]int)\n```",
		},
		"other tool": {
			tool:   "edit",
			output: "error",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			state := &State{}
			rec := &recorder{}
			New(&Config{Knowledge: k}, state, rec).AfterTool(tt.tool, tt.output)

			assert.Equal(t, tt.wantErrors, state.HadErrors)
			if tt.wantNotice == "" {
				assert.Empty(t, rec.notices)
				return
			}
			require.Len(t, rec.notices, 1)
			assert.Equal(t, tt.wantNotice, rec.notices[0])
		})
	}
}

func TestRecall_AfterTool_TruncatesFix(t *testing.T) {
	long := strings.Repeat("é", 600)
	k := &fakeKnowledge{patterns: []knowledge.Pattern{{
		Name:  "Long",
		Regex: knowledge.ParseErrorPatterns("### x\n**Pattern:** `boom`\n")[0].Regex,
		Fix:   long,
	}}}
	rec := &recorder{}

	New(&Config{Knowledge: k}, &State{}, rec).AfterTool("bash", "error: boom")

	require.Len(t, rec.notices, 1)
	assert.Contains(t, rec.notices[0], strings.Repeat("é", 500)+"\n```")
	assert.NotContains(t, rec.notices[0], strings.Repeat("é", 501))
}

func TestRecall_SessionIdle(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		state   State
		elapsed time.Duration
		want    bool
	}{
		"errors and long session": {state: State{StartedAt: start, HadErrors: true}, elapsed: 6 * time.Minute, want: true},
		"errors but short":        {state: State{StartedAt: start, HadErrors: true}, elapsed: 5 * time.Minute},
		"long but no errors":      {state: State{StartedAt: start}, elapsed: time.Hour},
		"never started":           {state: State{HadErrors: true}, elapsed: time.Hour},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			state := tt.state
			rec := &recorder{}
			cfg := &Config{Now: func() time.Time { return start.Add(tt.elapsed) }}
			New(cfg, &state, rec).SessionIdle()

			if tt.want {
				require.Len(t, rec.notices, 1)
				assert.Contains(t, rec.notices[0], "/retro")
				return
			}
			assert.Empty(t, rec.notices)
		})
	}
}

func TestPreventionSection_Matches(t *testing.T) {
	s := PreventionSection{Section: "S", PathContains: []string{"Orchestrator", ""}}
	assert.True(t, s.Matches("/home/me/orchestrator-app"))
	assert.False(t, s.Matches("/home/me/other"))
}

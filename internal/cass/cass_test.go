package cass

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warden-dev/warden/internal/shell"
)

const searchCmd = "cass search error OR fix OR bug --robot --limit 5 --fields minimal --workspace /proj"

func TestClient_Healthy(t *testing.T) {
	up := shell.NewFakeRunner().Respond("cass health", "ok")
	assert.True(t, NewClient(up, "", 0, "").Healthy(context.Background()))

	calls := up.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, HealthTimeout, calls[0].Timeout)

	down := shell.NewFakeRunner().RespondResult("cass health", &shell.Result{ExitCode: 1})
	assert.False(t, NewClient(down, "", 0, "").Healthy(context.Background()))

	missing := shell.NewFakeRunner()
	assert.False(t, NewClient(missing, "", 0, "").Healthy(context.Background()))
}

func TestClient_Search(t *testing.T) {
	tests := map[string]struct {
		runner *shell.FakeRunner
		want   []Result
	}{
		"results": {
			runner: shell.NewFakeRunner().Respond(searchCmd,
				`[{"source_path":"/s/a.jsonl","line_number":12,"agent":"claude"},{"source_path":"/s/b.jsonl","line_number":3,"agent":"codex","snippet":"fixed it"}]`),
			want: []Result{
				{SourcePath: "/s/a.jsonl", LineNumber: 12, Agent: "claude"},
				{SourcePath: "/s/b.jsonl", LineNumber: 3, Agent: "codex", Snippet: "fixed it"},
			},
		},
		"bad json": {
			runner: shell.NewFakeRunner().Respond(searchCmd, "oops"),
		},
		"failure": {
			runner: shell.NewFakeRunner().RespondResult(searchCmd, &shell.Result{ExitCode: 2}),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := NewClient(tt.runner, "", 0, "").Search(context.Background(), DefaultQuery, "/proj")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Search_Options(t *testing.T) {
	runner := shell.NewFakeRunner().Respond("cs search q --robot --limit 3 --fields full --workspace /w", "[]")

	got := NewClient(runner, "cs", 3, "full").Search(context.Background(), "q", "/w")
	assert.Empty(t, got)
	require.Len(t, runner.Calls(), 1)
	assert.Equal(t, SearchTimeout, runner.Calls()[0].Timeout)
}

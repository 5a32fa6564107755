package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warden-dev/warden/internal/shell"
)

func TestParsePorcelain(t *testing.T) {
	tests := map[string]struct {
		output string
		want   TreeStatus
	}{
		"empty output is clean": {
			output: "",
			want:   TreeStatus{Clean: true},
		},
		"whitespace only is clean": {
			output: "\n\n",
			want:   TreeStatus{Clean: true},
		},
		"three entries": {
			output: " M main.go\n?? new.txt\nD  old.go\n",
			want:   TreeStatus{Clean: false, Uncommitted: 3},
		},
		"blank lines ignored": {
			output: " M a.go\n\n M b.go\n",
			want:   TreeStatus{Clean: false, Uncommitted: 2},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePorcelain(tt.output))
		})
	}
}

func TestTreeStatus_Details(t *testing.T) {
	assert.Equal(t, "", TreeStatus{Clean: true}.Details())
	assert.Equal(t, "3 uncommitted file(s)", TreeStatus{Uncommitted: 3}.Details())
}

func TestTree_Status(t *testing.T) {
	tests := map[string]struct {
		runner  *shell.FakeRunner
		want    TreeStatus
		wantErr bool
	}{
		"clean tree": {
			runner: shell.NewFakeRunner().Respond("git status --porcelain", ""),
			want:   TreeStatus{Clean: true},
		},
		"dirty tree": {
			runner: shell.NewFakeRunner().Respond("git status --porcelain", " M a.go\n M b.go\n"),
			want:   TreeStatus{Uncommitted: 2},
		},
		"not a repository": {
			runner: shell.NewFakeRunner().RespondResult("git status --porcelain", &shell.Result{
				ExitCode: 128,
				Stderr:   "fatal: not a git repository",
			}),
			wantErr: true,
		},
		"git missing": {
			runner:  shell.NewFakeRunner().Fail("git status --porcelain", errors.New("executable file not found")),
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree := NewTree(tt.runner, "", "/repo")
			status, err := tree.Status(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)

			calls := tt.runner.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "/repo", calls[0].Dir)
			assert.Equal(t, StatusTimeout, calls[0].Timeout)
		})
	}
}

func TestIsRepository(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepository(dir))

	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	assert.True(t, IsRepository(dir))

	sub := filepath.Join(dir, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.True(t, IsRepository(sub), "detects .git in a parent")
}

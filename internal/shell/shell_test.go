package shell

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	requireSh(t)

	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireSh(t)

	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestExecRunner_Timeout(t *testing.T) {
	requireSh(t)

	start := time.Now()
	_, err := NewExecRunner().Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "sleep 5"},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting definitely-not-a-real-binary-xyz")
}

func TestOutput(t *testing.T) {
	tests := map[string]struct {
		runner  *FakeRunner
		wantOut string
		wantErr string
	}{
		"success": {
			runner:  NewFakeRunner().Respond("bd ready --json", "[]"),
			wantOut: "[]",
		},
		"non-zero exit": {
			runner:  NewFakeRunner().RespondResult("bd ready --json", &Result{ExitCode: 1, Stderr: "no db\n"}),
			wantErr: "bd ready --json exited with code 1: no db",
		},
		"run error": {
			runner:  NewFakeRunner().Fail("bd ready --json", errors.New("boom")),
			wantErr: "boom",
		},
		"unscripted": {
			runner:  NewFakeRunner(),
			wantErr: "executable file not found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := Output(context.Background(), tt.runner, Command{Name: "bd", Args: []string{"ready", "--json"}})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "git", Command{Name: "git"}.String())
	assert.Equal(t, "git status --porcelain", Command{Name: "git", Args: []string{"status", "--porcelain"}}.String())
}

func TestFakeRunner_CallCount(t *testing.T) {
	f := NewFakeRunner().Respond("git status --porcelain", "")
	cmd := Command{Name: "git", Args: []string{"status", "--porcelain"}}

	_, _ = f.Run(context.Background(), cmd)
	_, _ = f.Run(context.Background(), cmd)

	assert.Equal(t, 2, f.CallCount("git status --porcelain"))
	assert.Len(t, f.Calls(), 2)
}

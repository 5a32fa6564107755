package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warden-dev/warden/internal/cli/shared"
	apperrors "github.com/warden-dev/warden/internal/errors"
)

func TestNewRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "hook", "mcp", "context", "gate", "repo", "task", "install", "doctor", "config", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "dir", "debug"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"exit error":   {err: shared.NewExitError(shared.ExitBlocked), want: shared.ExitBlocked},
		"argument":     {err: apperrors.NewArgumentError("bad"), want: shared.ExitInvalidArguments},
		"prerequisite": {err: apperrors.ToolNotFound("bd", "install bd"), want: shared.ExitMissingDependency},
		"runtime":      {err: apperrors.NewRuntimeError("boom"), want: shared.ExitFailure},
		"plain":        {err: errors.New("boom"), want: shared.ExitFailure},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

// Package git provides the version-control queries warden needs: working
// tree cleanliness for the pre-flight gate, and repository/branch detection
// for session context. Tree status wraps the git CLI; branch capture uses
// go-git (see state.go).
package git

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/shell"
)

// StatusTimeout bounds `git status`. Not configurable.
const StatusTimeout = 5 * time.Second

// TreeStatus is the result of a working tree check.
type TreeStatus struct {
	Clean       bool
	Uncommitted int
}

// Details renders the dirty-tree summary used in gate notices.
func (s TreeStatus) Details() string {
	if s.Clean {
		return ""
	}
	return fmt.Sprintf("%d uncommitted file(s)", s.Uncommitted)
}

// Tree inspects the working tree of one directory.
type Tree struct {
	runner shell.Runner
	cmd    string
	dir    string
}

// NewTree creates a Tree for dir using the given git executable.
func NewTree(runner shell.Runner, gitCmd, dir string) *Tree {
	if gitCmd == "" {
		gitCmd = "git"
	}
	return &Tree{runner: runner, cmd: gitCmd, dir: dir}
}

// Status runs `git status --porcelain`. Errors (git missing, timeout, not a
// repository) are returned as-is; deciding what they mean is up to callers.
func (t *Tree) Status(ctx context.Context) (TreeStatus, error) {
	out, err := shell.Output(ctx, t.runner, shell.Command{
		Name:    t.cmd,
		Args:    []string{"status", "--porcelain"},
		Dir:     t.dir,
		Timeout: StatusTimeout,
	})
	if err != nil {
		return TreeStatus{}, fmt.Errorf("checking git status: %w", err)
	}
	return ParsePorcelain(out), nil
}

// ParsePorcelain counts entries in `git status --porcelain` output.
func ParsePorcelain(out string) TreeStatus {
	n := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			n++
		}
	}
	return TreeStatus{Clean: n == 0, Uncommitted: n}
}

// IsRepository reports whether dir is inside a git repository.
func IsRepository(dir string) bool {
	_, err := DefaultOpener{}.Open(dir)
	return err == nil
}

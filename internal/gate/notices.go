package gate

import (
	"fmt"

	"github.com/warden-dev/warden/internal/tracker"
)

const (
	startHint = `Run: bd update <id> --status in_progress or bd create "title" -t task`
	cleanHint = "Run: git status, then commit or stash changes"
)

func blockNotice(reason, hint string) string {
	msg := "⛔ BLOCKED: " + reason
	if hint != "" {
		msg += "\n   " + hint
	}
	return msg
}

func alignHint(task *tracker.Task) string {
	return fmt.Sprintf("Active: %q (%s)\n   Say \"yes\" or \"proceed\" to align, or \"bypass\" to skip once", task.Title, task.ID)
}

func alignedNotice(task *tracker.Task) string {
	return fmt.Sprintf("✅ ALIGNED: Ready to work on %q (%s)", task.Title, task.ID)
}

func bypassArmedNotice() string {
	return "⚡ BYPASS: Next action will skip pre-flight checks"
}

func bypassUsedNotice() string {
	return "⚡ BYPASSING pre-flight checks (one-time)"
}

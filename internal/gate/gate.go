// Package gate implements the pre-flight gate: side-effecting tool calls are
// held back until there is an active task, the working tree was clean when
// that task was first checked, and the user has confirmed alignment to it.
//
// A Gate works on a caller-owned State. The host delivers events for one
// session serially, so no locking happens here.
package gate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/tracker"
)

// Block reasons handed to the host abort callback.
const (
	ReasonNoActiveTask = "No active task - start or create one first"
	ReasonDirtyTree    = "Git has uncommitted changes"
	ReasonNotAligned   = "Not aligned - say 'yes' to proceed or 'bypass' to skip"
)

var (
	affirmative = regexp.MustCompile(`(?i)^(yes|y|go ahead|proceed|do it|approved|lgtm|ship it|go for it|sounds good|confirmed|affirmative|that works|looks good)$`)
	bypass      = regexp.MustCompile(`(?i)^bypass$`)
)

// State is the per-session gate record.
type State struct {
	AlignedTaskID      string `json:"aligned_task_id,omitempty"`
	AlignedTaskTitle   string `json:"aligned_task_title,omitempty"`
	BypassNext         bool   `json:"bypass_next,omitempty"`
	GitCleanCheckedFor string `json:"git_clean_checked_for,omitempty"`
}

// IsAligned reports whether the state is aligned to the given task id.
func (s *State) IsAligned(taskID string) bool {
	return s.AlignedTaskID != "" && s.AlignedTaskID == taskID
}

// TaskSource reports the tracker's active task.
type TaskSource interface {
	ActiveTask(ctx context.Context) (*tracker.Task, error)
}

// TreeChecker reports working tree cleanliness.
type TreeChecker interface {
	Status(ctx context.Context) (git.TreeStatus, error)
}

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(text string)
}

// Decision is the outcome of BeforeAction.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

// Gate applies the gate rules to one session's State.
type Gate struct {
	state  *State
	tasks  TaskSource
	tree   TreeChecker
	notify Notifier
}

// New binds a Gate to state. notify may be nil.
func New(state *State, tasks TaskSource, tree TreeChecker, notify Notifier) *Gate {
	return &Gate{state: state, tasks: tasks, tree: tree, notify: notify}
}

// State returns the record the gate mutates.
func (g *Gate) State() *State {
	return g.state
}

// HandleMessage processes one chat message. Only the bypass token and the
// affirmative phrases have an effect; everything else is ignored.
func (g *Gate) HandleMessage(ctx context.Context, text string) {
	content := strings.TrimSpace(text)
	if content == "" {
		return
	}

	if bypass.MatchString(content) {
		g.state.BypassNext = true
		g.emit(bypassArmedNotice())
		return
	}

	if !affirmative.MatchString(content) {
		return
	}

	task := g.activeTask(ctx)
	if task == nil {
		g.emit(blockNotice("Cannot align - no active task", startHint))
		return
	}

	if g.state.GitCleanCheckedFor != task.ID {
		status := g.treeStatus(ctx)
		if !status.Clean {
			g.emit(blockNotice(fmt.Sprintf("Cannot align - git is dirty (%s)", status.Details()), cleanHint))
			return
		}
		g.state.GitCleanCheckedFor = task.ID
	}

	g.state.AlignedTaskID = task.ID
	g.state.AlignedTaskTitle = task.Title
	g.state.BypassNext = false
	g.emit(alignedNotice(task))
}

// BeforeAction decides whether a tool call may run. Ungated actions are
// allowed without consulting the tracker or git.
func (g *Gate) BeforeAction(ctx context.Context, action Action) Decision {
	if !Classify(action) {
		return allow
	}

	if g.state.BypassNext {
		g.state.BypassNext = false
		g.emit(bypassUsedNotice())
		return allow
	}

	task := g.activeTask(ctx)
	if task == nil {
		g.emit(blockNotice("No active task", startHint))
		return Decision{Reason: ReasonNoActiveTask}
	}

	if g.state.GitCleanCheckedFor != task.ID {
		status := g.treeStatus(ctx)
		if !status.Clean {
			g.emit(blockNotice(fmt.Sprintf("Git is dirty (%s)", status.Details()), cleanHint))
			return Decision{Reason: ReasonDirtyTree}
		}
		g.state.GitCleanCheckedFor = task.ID
	}

	if !g.state.IsAligned(task.ID) {
		g.emit(blockNotice("Not aligned to current task", alignHint(task)))
		return Decision{Reason: ReasonNotAligned}
	}

	return allow
}

// activeTask fails closed: any tracker failure reads as "no active task".
func (g *Gate) activeTask(ctx context.Context) *tracker.Task {
	task, err := g.tasks.ActiveTask(ctx)
	if err != nil {
		logging.Debug().Err(err).Str("component", "gate").Msg("tracker query failed")
		return nil
	}
	if task != nil && task.ID == "" {
		return nil
	}
	return task
}

// treeStatus fails open: any git failure reads as a clean tree.
func (g *Gate) treeStatus(ctx context.Context) git.TreeStatus {
	status, err := g.tree.Status(ctx)
	if err != nil {
		logging.Debug().Err(err).Str("component", "gate").Msg("git status failed")
		return git.TreeStatus{Clean: true}
	}
	return status
}

func (g *Gate) emit(text string) {
	if g.notify != nil {
		g.notify.Notify(text)
	}
}

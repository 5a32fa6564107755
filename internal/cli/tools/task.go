package tools

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	apperrors "github.com/warden-dev/warden/internal/errors"
	"github.com/warden-dev/warden/internal/tracker"
)

func newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Quick task tracker operations",
		Long: `Quick operations on the local task tracker (bd). The pre-flight gate
only lets side-effecting tool calls through once a task is in progress.`,
		Example: `  warden task ready
  warden task create "Fix login redirect" -t bug -p 1
  warden task start bd-a1b2
  warden task done bd-a1b2 --reason "Redirect fixed"`,
	}

	taskCmd.AddCommand(
		newTaskReadyCmd(),
		newTaskWIPCmd(),
		newTaskStartCmd(),
		newTaskDoneCmd(),
		newTaskCreateCmd(),
		newTaskSyncCmd(),
	)
	return taskCmd
}

// taskOp runs one tracker operation.
type taskOp func(ctx context.Context, cmd *cobra.Command, c *tracker.Client, args []string) (string, error)

func taskRunE(op taskOp) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, err := shared.ProjectDir(cmd)
		if err != nil {
			return err
		}
		d, err := shared.LoadDeps(cmd, dir)
		if err != nil {
			return err
		}

		out, err := op(cmd.Context(), cmd, d.Tracker(), args)
		if err != nil {
			return trackerError(err, d.Config.TrackerCmd)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
}

// trackerError maps a failed tracker operation to the CLI error the user
// should see. A missing binary exits with ExitMissingDependency.
func trackerError(err error, trackerCmd string) error {
	switch {
	case apperrors.IsCLIError(err):
		return err
	case errors.Is(err, exec.ErrNotFound):
		return apperrors.ToolNotFound(trackerCmd, "Install beads: https://github.com/steveyegge/beads")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.TimeoutError(tracker.QueryTimeout.String(), trackerCmd)
	}
	return apperrors.Wrap(err, apperrors.Runtime,
		"Run 'warden doctor' to check the task tracker is installed")
}

func newTaskReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Show the next ready task",
		Args:  cobra.NoArgs,
		RunE: taskRunE(func(ctx context.Context, _ *cobra.Command, c *tracker.Client, _ []string) (string, error) {
			return c.Ready(ctx)
		}),
	}
}

func newTaskWIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "wip",
		Aliases: []string{"in-progress"},
		Short:   "List in-progress tasks",
		Args:    cobra.NoArgs,
		RunE: taskRunE(func(ctx context.Context, _ *cobra.Command, c *tracker.Client, _ []string) (string, error) {
			return c.InProgress(ctx)
		}),
	}
}

func newTaskStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Mark a task as in progress",
		Args:  cobra.ExactArgs(1),
		RunE: taskRunE(func(ctx context.Context, _ *cobra.Command, c *tracker.Client, args []string) (string, error) {
			return c.Start(ctx, args[0])
		}),
	}
}

func newTaskDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Close a task",
		Args:  cobra.ExactArgs(1),
		RunE: taskRunE(func(ctx context.Context, cmd *cobra.Command, c *tracker.Client, args []string) (string, error) {
			reason, _ := cmd.Flags().GetString("reason")
			return c.Close(ctx, args[0], reason)
		}),
	}
	cmd.Flags().StringP("reason", "r", "", "Completion reason")
	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: taskRunE(func(ctx context.Context, cmd *cobra.Command, c *tracker.Client, args []string) (string, error) {
			taskType, _ := cmd.Flags().GetString("type")
			priority, _ := cmd.Flags().GetInt("priority")
			if !slices.Contains(tracker.TaskTypes, taskType) {
				return "", apperrors.NewArgumentError(
					fmt.Sprintf("invalid task type %q", taskType),
					"Use one of: "+strings.Join(tracker.TaskTypes, ", "),
				)
			}
			if priority < 0 || priority > tracker.MaxPriority {
				return "", apperrors.InvalidPriority(priority, tracker.MaxPriority)
			}
			return c.Create(ctx, strings.Join(args, " "), taskType, priority)
		}),
	}
	cmd.Flags().StringP("type", "t", tracker.DefaultTaskType, "Task type ("+strings.Join(tracker.TaskTypes, ", ")+")")
	cmd.Flags().IntP("priority", "p", tracker.DefaultPriority, fmt.Sprintf("Priority 0-%d", tracker.MaxPriority))
	return cmd
}

func newTaskSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Export tasks to git and push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			d, err := shared.LoadDeps(cmd, dir)
			if err != nil {
				return err
			}

			var out string
			err = newDisplay(cmd).Run("Syncing tasks", func() error {
				var err error
				out, err = d.Tracker().Sync(cmd.Context(), d.Config.GitCmd)
				return err
			})
			if err != nil {
				return apperrors.Wrap(err, apperrors.Runtime, "Check that the remote is reachable, then retry")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// Package cli provides the Cobra-based command tree for warden. It wires the
// host-facing entry points (serve, hook, mcp), the repository and task tools,
// and configuration management (install, doctor, config).
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/config"
	"github.com/warden-dev/warden/internal/cli/hooks"
	"github.com/warden-dev/warden/internal/cli/shared"
	"github.com/warden-dev/warden/internal/cli/tools"
	"github.com/warden-dev/warden/internal/cli/util"
	apperrors "github.com/warden-dev/warden/internal/errors"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warden",
		Short: "Pre-flight gate and recall for coding agents",
		Long: `warden attaches to a coding agent host and keeps it honest.

Side-effecting tool calls are held back until a task is in progress, the
working tree is clean and the user has confirmed alignment. Sessions start
with recalled context: recent errors, prevention patterns and past sessions.
Repository and task tools are served over MCP.`,
		Example: `  # Register hooks with Claude Code in this project
  warden install

  # Check that everything warden needs is available
  warden doctor

  # Run as a long-lived plugin over stdio
  warden serve

  # Browse a GitHub repository without cloning
  warden repo structure octo/hello`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define command groups in display order
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupGettingStarted, Title: "Getting Started:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupHooks, Title: "Hooks:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupTools, Title: "Tools:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(shared.GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(shared.GroupConfiguration)

	// Global flags
	shared.AddGlobalFlags(rootCmd)

	hooks.Register(rootCmd)
	tools.Register(rootCmd)
	config.Register(rootCmd)
	util.Register(rootCmd)

	return rootCmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return shared.ExitSuccess
	}
	report(rootCmd, err)
	return exitCode(err)
}

func report(cmd *cobra.Command, err error) {
	if shared.IsExitError(err) {
		return
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		apperrors.FprintError(cmd.ErrOrStderr(), cliErr)
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}

func exitCode(err error) int {
	if shared.IsExitError(err) {
		return shared.ExitCode(err)
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case apperrors.Argument:
			return shared.ExitInvalidArguments
		case apperrors.Prerequisite:
			return shared.ExitMissingDependency
		}
	}
	return shared.ExitFailure
}

// Package tools provides the CLI front-ends to the agent tools: GitHub
// repository crawling and quick task tracker operations. Output matches
// what the MCP tools return, so agents and humans see the same text.
package tools

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	"github.com/warden-dev/warden/internal/progress"
)

// Register adds the repo and task command trees to the root command.
func Register(rootCmd *cobra.Command) {
	for _, cmd := range []*cobra.Command{newRepoCmd(), newTaskCmd()} {
		cmd.GroupID = shared.GroupTools
		rootCmd.AddCommand(cmd)
	}
}

// newDisplay draws progress on the command's stderr. Only a real terminal
// gets a spinner and colors.
func newDisplay(cmd *cobra.Command) *progress.Display {
	w := cmd.ErrOrStderr()
	var caps progress.TerminalCapabilities
	if f, ok := w.(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	return progress.NewDisplay(caps, w)
}

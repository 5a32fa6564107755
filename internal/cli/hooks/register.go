// Package hooks provides the host-facing CLI commands: the long-lived
// plugin loop, one-shot command hooks, the MCP server, and the session
// context and gate inspection commands.
package hooks

import (
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
)

// Register adds all hook commands to the root command.
func Register(rootCmd *cobra.Command) {
	for _, cmd := range []*cobra.Command{
		newServeCmd(),
		newHookCmd(),
		newMCPCmd(),
		newContextCmd(),
		newGateCmd(),
	} {
		cmd.GroupID = shared.GroupHooks
		rootCmd.AddCommand(cmd)
	}
}

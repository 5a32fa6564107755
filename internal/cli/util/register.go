// Package util provides utility CLI commands for warden.
// Includes: version
package util

import (
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
)

// Register adds all utility commands to the root command.
func Register(rootCmd *cobra.Command) {
	version := newVersionCmd()
	version.GroupID = shared.GroupGettingStarted
	rootCmd.AddCommand(version)
}

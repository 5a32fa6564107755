// Package config provides CLI commands for warden configuration management.
// Includes: install, doctor, config
package config

import (
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
)

// DefaultBinary is the command hosts are told to run.
const DefaultBinary = "warden"

// Register adds all configuration commands to the root command.
func Register(rootCmd *cobra.Command) {
	install := newInstallCmd()
	install.GroupID = shared.GroupGettingStarted
	rootCmd.AddCommand(install)

	doctor := newDoctorCmd()
	doctor.GroupID = shared.GroupGettingStarted
	rootCmd.AddCommand(doctor)

	cfg := newConfigCmd()
	cfg.GroupID = shared.GroupConfiguration
	rootCmd.AddCommand(cfg)
}

package config

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	"github.com/warden-dev/warden/internal/health"
	"github.com/warden-dev/warden/internal/server"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"doc"},
		Short:   "Run health checks for warden dependencies (doc)",
		Long: `Run health checks to verify that everything warden relies on is available.

This command checks for:
  - the task tracker (required: the gate blocks edits without it)
  - git (required)
  - cass session search (optional)
  - the knowledge base directory (optional)
  - Claude hooks in .claude/settings.local.json (optional)
  - the OpenCode MCP registration in opencode.json (optional)

Required failures are marked ✗ and exit 1. Optional ones are marked ⚠.`,
		Example: `  # Check all dependencies
  warden doctor

  # Run before wiring a new project
  warden doctor && warden install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			binary, _ := cmd.Flags().GetString("binary")
			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			d, err := shared.LoadDeps(cmd, dir)
			if err != nil {
				return err
			}

			report := health.RunHealthChecks(doctorOptions(d, binary))
			printReport(cmd, report)

			if !report.Passed {
				return shared.NewExitError(shared.ExitFailure)
			}
			return nil
		},
	}
	cmd.Flags().String("binary", DefaultBinary, "Command hosts are expected to run")
	return cmd
}

func doctorOptions(d server.Deps, binary string) health.Options {
	return health.Options{
		Dir:        d.Dir,
		Binary:     binary,
		TrackerCmd: d.Config.TrackerCmd,
		GitCmd:     d.Config.GitCmd,
		CassCmd:    d.Config.CassCmd,
		Knowledge:  d.Knowledge(),
	}
}

func printReport(cmd *cobra.Command, report *health.HealthReport) {
	colors := shared.NewColors()
	out := cmd.OutOrStdout()
	if color.NoColor {
		fmt.Fprint(out, health.FormatReport(report))
	} else {
		printColored(out, colors, report)
	}
	if report.Passed {
		fmt.Fprintln(out, colors.Dim("\nAll required checks passed."))
	}
}

func printColored(out io.Writer, colors *shared.Colors, report *health.HealthReport) {
	for _, check := range report.Checks {
		paint := colors.Green
		switch {
		case check.Passed:
		case check.Optional:
			paint = colors.Yellow
		default:
			paint = colors.Red
		}
		fmt.Fprintf(out, "%s %s: %s\n", paint(health.Mark(check)), check.Name, check.Message)
	}
}

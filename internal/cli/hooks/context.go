package hooks

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	"github.com/warden-dev/warden/internal/gate"
	"github.com/warden-dev/warden/internal/plugin"
	"github.com/warden-dev/warden/internal/recall"
)

func newContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the session-start context",
		Long: `Print the context block injected at session start: branch, recent
errors, prevention patterns and the number of related past sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			d, err := shared.LoadDeps(cmd, dir)
			if err != nil {
				return err
			}
			out := recall.SessionContext(cmd.Context(), d.RecallConfig())
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
}

func newGateCmd() *cobra.Command {
	gateCmd := &cobra.Command{
		Use:   "gate",
		Short: "Inspect the pre-flight gate",
	}
	gateCmd.AddCommand(newGateCheckCmd())
	return gateCmd
}

func newGateCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a tool call against the gate",
		Long: `Evaluate a tool call against a fresh, unaligned session. Exits 0 when the
call would run and 2 when it would be blocked. Useful to check that the
tracker and git are reachable before wiring a host.`,
		Example: `  warden gate check --tool edit --file main.go
  warden gate check --tool bash --command "git push"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tool, _ := cmd.Flags().GetString("tool")
			command, _ := cmd.Flags().GetString("command")
			file, _ := cmd.Flags().GetString("file")

			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			d, err := shared.LoadDeps(cmd, dir)
			if err != nil {
				return err
			}

			args := map[string]any{}
			if command != "" {
				args["command"] = command
			}
			if file != "" {
				args["filePath"] = file
			}

			var notices plugin.Notices
			g := gate.New(&gate.State{}, d.Tracker(), d.Tree(), &notices)
			decision := g.BeforeAction(cmd.Context(), gate.Action{Tool: strings.ToLower(tool), Args: args})

			for _, n := range notices.List() {
				fmt.Fprintln(cmd.ErrOrStderr(), n)
			}
			if !decision.Allowed {
				fmt.Fprintln(cmd.OutOrStdout(), "blocked: "+decision.Reason)
				return shared.NewExitError(shared.ExitBlocked)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "allowed")
			return nil
		},
	}
	cmd.Flags().String("tool", "", "Tool name (edit, write, bash, ...)")
	cmd.Flags().String("command", "", "Shell command, for bash")
	cmd.Flags().String("file", "", "Target file path")
	_ = cmd.MarkFlagRequired("tool")
	return cmd
}

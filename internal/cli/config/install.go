package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/claude"
	"github.com/warden-dev/warden/internal/cli/shared"
	apperrors "github.com/warden-dev/warden/internal/errors"
	"github.com/warden-dev/warden/internal/opencode"
)

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register warden with the agent host",
		Long: `Register warden's command hooks in .claude/settings.local.json:
SessionStart, UserPromptSubmit, PreToolUse, PostToolUse and Stop. Existing
settings and hooks are preserved. Running install again is a no-op.

With --opencode, also register the MCP tool server in opencode.json.`,
		Example: `  # Claude Code hooks for this project
  warden install

  # Also expose the repo and task tools to OpenCode
  warden install --opencode`,
		Args: cobra.NoArgs,
		RunE: runInstall,
	}
	cmd.Flags().Bool("opencode", false, "Also register the MCP server in opencode.json")
	cmd.Flags().String("binary", DefaultBinary, "Command hosts should run")
	return cmd
}

func runInstall(cmd *cobra.Command, _ []string) error {
	withOpenCode, _ := cmd.Flags().GetBool("opencode")
	binary, _ := cmd.Flags().GetString("binary")
	out := cmd.OutOrStdout()
	colors := shared.NewColors()

	dir, err := shared.ProjectDir(cmd)
	if err != nil {
		return err
	}

	settings, err := claude.Load(dir)
	if err != nil {
		return apperrors.ConfigParseError(filepath.Join(dir, claude.SettingsDir, claude.SettingsFileName), err)
	}
	if added := settings.AddHooks(binary); len(added) > 0 {
		if err := settings.Save(); err != nil {
			return apperrors.FileNotWritable(settings.FilePath())
		}
		for _, event := range added {
			fmt.Fprintf(out, "%s %s hook → %s\n", colors.Green("✓"), event, settings.FilePath())
		}
	} else {
		fmt.Fprintf(out, "%s Claude hooks already registered in %s\n", colors.Dim("·"), settings.FilePath())
	}

	if !withOpenCode {
		return nil
	}

	oc, err := opencode.Load(dir)
	if err != nil {
		return apperrors.ConfigParseError(filepath.Join(dir, opencode.SettingsFileName), err)
	}
	if oc.AddServer(binary) {
		if err := oc.Save(); err != nil {
			return apperrors.FileNotWritable(oc.FilePath())
		}
		fmt.Fprintf(out, "%s mcp.%s → %s\n", colors.Green("✓"), opencode.ServerName, oc.FilePath())
	} else {
		fmt.Fprintf(out, "%s OpenCode MCP server already registered in %s\n", colors.Dim("·"), oc.FilePath())
	}
	return nil
}

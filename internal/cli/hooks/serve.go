package hooks

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	apperrors "github.com/warden-dev/warden/internal/errors"
	"github.com/warden-dev/warden/internal/hostproto"
	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/plugin"
	"github.com/warden-dev/warden/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the plugin host over stdio",
		Long: `Run warden as a long-lived plugin. The host writes one JSON request per
line on stdin and reads one JSON response per line from stdout. Session
state is kept in memory until stdin closes.`,
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

			host := server.NewHost(d, plugin.NewSessions())
			logging.Info().Strs("plugins", host.Plugins()).Str("dir", dir).Msg("serving plugin protocol")
			if err := hostproto.NewServer(host).Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return apperrors.WrapWithMessage(err, apperrors.Runtime, "plugin loop stopped")
			}
			return nil
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server over stdio",
		Long: `Serve the repository and task tools to an MCP client over stdio:
repo_structure, repo_readme, repo_file, repo_tree, repo_search, task_ready,
task_wip, task_start, task_done, task_create and task_sync.`,
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
			if err := mcpserver.ServeStdio(server.NewMCP(d)); err != nil {
				return apperrors.WrapWithMessage(err, apperrors.Runtime, "MCP server stopped")
			}
			return nil
		},
	}
}

package hooks

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	apperrors "github.com/warden-dev/warden/internal/errors"
	"github.com/warden-dev/warden/internal/hook"
	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/plugin"
	"github.com/warden-dev/warden/internal/server"
	"github.com/warden-dev/warden/internal/state"
)

// stateMaxAge bounds how long an idle session file is kept.
const stateMaxAge = 7 * 24 * time.Hour

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook <name>",
		Short: "Handle one command hook invocation",
		Long: `Handle one command hook. The hook payload is read from stdin as JSON and
the session state is loaded from and saved to the state directory.

Hooks: ` + strings.Join(hook.Names, ", ") + `

A blocked pre-tool call exits with code 2 and the reason on stderr.`,
		Example: `  echo '{"session_id":"s1","tool_name":"Edit"}' | warden hook pre-tool`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: hook.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !hook.IsValid(name) {
				return apperrors.UnknownHook(name, hook.Names)
			}

			p, err := hook.ReadPayload(cmd.InOrStdin())
			if err != nil {
				return apperrors.Wrap(err, apperrors.Argument)
			}

			dir, err := hookDir(cmd, p)
			if err != nil {
				return err
			}
			d, err := shared.LoadDeps(cmd, dir)
			if err != nil {
				return err
			}

			store := state.NewStore(d.Config.StateDir)
			if name == hook.SessionStart {
				if n, err := store.Prune(stateMaxAge); err != nil {
					logging.Debug().Err(err).Msg("pruning session state failed")
				} else if n > 0 {
					logging.Debug().Int("removed", n).Msg("pruned stale session state")
				}
			}

			host := server.NewHost(d, &plugin.FileSessions{Store: store})
			code, err := hook.Run(cmd.Context(), name, p, host, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				// The hook outcome stands; a lost state write only costs continuity.
				logging.Warn().Err(err).Str("hook", name).Msg("hook completed with error")
			}
			if code != shared.ExitSuccess {
				return shared.NewExitError(code)
			}
			return nil
		},
	}
}

// hookDir prefers an explicit --dir, then the payload's cwd.
func hookDir(cmd *cobra.Command, p *hook.Payload) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir == "" && p.Cwd != "" {
		return p.Cwd, nil
	}
	return shared.ProjectDir(cmd)
}

package shared

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/config"
	apperrors "github.com/warden-dev/warden/internal/errors"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/logging"
	"github.com/warden-dev/warden/internal/server"
	"github.com/warden-dev/warden/internal/shell"
)

// Overrides replace the real runner and HTTP transport, for tests.
type Overrides struct {
	Runner     shell.Runner
	HTTPClient *http.Client
	GitOpener  git.Opener
}

type overridesKey struct{}

// WithOverrides attaches o to ctx; pass the result to ExecuteContext.
func WithOverrides(ctx context.Context, o Overrides) context.Context {
	return context.WithValue(ctx, overridesKey{}, o)
}

func overridesFrom(ctx context.Context) Overrides {
	if ctx == nil {
		return Overrides{}
	}
	o, _ := ctx.Value(overridesKey{}).(Overrides)
	return o
}

// ProjectDir returns --dir, or the working directory. An explicit --dir
// must be an existing directory.
func ProjectDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return "", apperrors.DirectoryNotFound(dir)
		}
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", apperrors.WrapWithMessage(err, apperrors.Runtime, "resolving working directory")
	}
	return wd, nil
}

// LoadConfig loads configuration for the project in dir. An explicit
// --config replaces the project's .warden/config.json and must exist.
func LoadConfig(cmd *cobra.Command, dir string) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, apperrors.ConfigFileNotFound(path)
		}
	} else {
		path = config.LocalConfigPath(dir)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, apperrors.ConfigInvalid(err)
	}

	// --debug wins over log_level.
	level := logging.ParseLevel(cfg.LogLevel)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = logging.DebugLevel
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)

	return cfg, nil
}

// LoadDeps loads config for dir and returns the component inputs, with any
// overrides from the command context applied.
func LoadDeps(cmd *cobra.Command, dir string) (server.Deps, error) {
	cfg, err := LoadConfig(cmd, dir)
	if err != nil {
		return server.Deps{}, err
	}
	o := overridesFrom(cmd.Context())
	return server.Deps{
		Config:     cfg,
		Dir:        dir,
		Runner:     o.Runner,
		HTTPClient: o.HTTPClient,
		GitOpener:  o.GitOpener,
	}, nil
}

// AddGlobalFlags defines the persistent flags every command reads.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default .warden/config.json)")
	cmd.PersistentFlags().String("dir", "", "Project directory (default: current directory)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}

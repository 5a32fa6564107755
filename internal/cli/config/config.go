package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warden-dev/warden/internal/cli/shared"
	cfgpkg "github.com/warden-dev/warden/internal/config"
	apperrors "github.com/warden-dev/warden/internal/errors"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect warden configuration",
		Long: `Inspect warden configuration.

Configuration is merged from, lowest to highest priority:
  1. built-in defaults
  2. ~/.warden/config.json
  3. .warden/config.json in the project (or --config)
  4. WARDEN_* environment variables`,
	}
	configCmd.AddCommand(newConfigShowCmd(), newConfigPathCmd())
	return configCmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration as YAML",
		Example: `  WARDEN_LOG_LEVEL=debug warden config show`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := shared.LoadConfig(cmd, dir)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return apperrors.WrapWithMessage(err, apperrors.Runtime, "rendering configuration")
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := shared.ProjectDir(cmd)
			if err != nil {
				return err
			}
			global := cfgpkg.GlobalConfigPath()
			local, _ := cmd.Flags().GetString("config")
			if local == "" {
				local = cfgpkg.LocalConfigPath(dir)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "global: %s\nproject: %s\n", global, local)
			return nil
		},
	}
}

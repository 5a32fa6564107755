// Package config loads warden's configuration from defaults, the global and
// local JSON files, and WARDEN_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/warden-dev/warden/internal/recall"
)

// EnvPrefix is the prefix for environment overrides, e.g. WARDEN_CASS_LIMIT.
const EnvPrefix = "WARDEN_"

// Configuration represents the warden configuration
type Configuration struct {
	KnowledgeDir          string                     `koanf:"knowledge_dir" yaml:"knowledge_dir" validate:"required"`
	ErrorPatternFile      string                     `koanf:"error_pattern_file" yaml:"error_pattern_file" validate:"required"`
	PreventionPatternFile string                     `koanf:"prevention_pattern_file" yaml:"prevention_pattern_file" validate:"required"`
	PreventionSections    []recall.PreventionSection `koanf:"prevention_sections" yaml:"prevention_sections" validate:"dive"`
	MaxContextLines       int                        `koanf:"max_context_lines" yaml:"max_context_lines" validate:"min=1,max=1000"`

	CassCmd    string `koanf:"cass_cmd" yaml:"cass_cmd" validate:"required"`
	CassLimit  int    `koanf:"cass_limit" yaml:"cass_limit" validate:"min=1,max=100"`
	CassFields string `koanf:"cass_fields" yaml:"cass_fields" validate:"required"`
	CassQuery  string `koanf:"cass_query" yaml:"cass_query" validate:"required"`

	TrackerCmd string `koanf:"tracker_cmd" yaml:"tracker_cmd" validate:"required"`
	GitCmd     string `koanf:"git_cmd" yaml:"git_cmd" validate:"required"`

	GitHubAPIURL string `koanf:"github_api_url" yaml:"github_api_url" validate:"required,url"`
	GitHubRawURL string `koanf:"github_raw_url" yaml:"github_raw_url" validate:"required,url"`
	GitHubToken  string `koanf:"github_token" yaml:"github_token,omitempty"`

	StateDir          string `koanf:"state_dir" yaml:"state_dir" validate:"required"`
	RetroAfterMinutes int    `koanf:"retro_after_minutes" yaml:"retro_after_minutes" validate:"min=1"`
	LogLevel          string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

// RetroAfter is the minimum session length before the retrospective prompt.
func (c *Configuration) RetroAfter() time.Duration {
	return time.Duration(c.RetroAfterMinutes) * time.Minute
}

// Redacted returns a copy safe to print.
func (c *Configuration) Redacted() Configuration {
	out := *c
	if out.GitHubToken != "" {
		out.GitHubToken = "********"
	}
	return out
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.KnowledgeDir = expandHomePath(cfg.KnowledgeDir)
	cfg.StateDir = expandHomePath(cfg.StateDir)

	// GITHUB_TOKEN is the conventional name; the prefixed key wins.
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	return &cfg, nil
}

// loadFile merges a JSON config file. A missing file is not an error.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return k.Load(file.Provider(path), json.Parser())
}

// GlobalConfigPath returns ~/.warden/config.json, or "" without a home dir.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".warden", "config.json")
}

// LocalConfigPath returns the project config path under dir.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, ".warden", "config.json")
}

// envTransform converts environment variable names to config keys
// Example: WARDEN_CASS_LIMIT -> cass_limit
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

package config

import (
	"github.com/warden-dev/warden/internal/cass"
	"github.com/warden-dev/warden/internal/github"
	"github.com/warden-dev/warden/internal/knowledge"
	"github.com/warden-dev/warden/internal/recall"
)

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"knowledge_dir":           "~/.config/opencode/knowledge",
		"error_pattern_file":      knowledge.DefaultErrorPatternFile,
		"prevention_pattern_file": knowledge.DefaultPreventionPatternFile,
		"max_context_lines":       recall.DefaultMaxContextLines,
		"cass_cmd":                "cass",
		"cass_limit":              cass.DefaultLimit,
		"cass_fields":             cass.DefaultFields,
		"cass_query":              cass.DefaultQuery,
		"tracker_cmd":             "bd",
		"git_cmd":                 "git",
		"github_api_url":          github.DefaultAPIURL,
		"github_raw_url":          github.DefaultRawURL,
		"github_token":            "",
		"state_dir":               "~/.warden/state",
		"retro_after_minutes":     int(recall.DefaultRetroAfter.Minutes()),
		"log_level":               "warn",
	}
}

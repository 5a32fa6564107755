package recall

import (
	"context"
	"fmt"
	"strings"

	"github.com/warden-dev/warden/internal/cass"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/logging"
)

// SessionContext renders the session start summary for cfg.Dir, capped at
// cfg.MaxContextLines lines.
func SessionContext(ctx context.Context, cfg *Config) string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add(fmt.Sprintf("## Session Context for %s", projectName(cfg.Dir)))
	if branch := branchLine(cfg); branch != "" {
		add(branch)
	}
	add("")

	if patterns := loadPatterns(cfg.Knowledge); len(patterns) > 0 {
		add(
			"### Known Error Patterns",
			fmt.Sprintf("Found %d patterns in knowledge base.", len(patterns)),
			"Run `/debug` to check against these before investigating errors.",
			"",
		)
	}

	for _, section := range cfg.PreventionSections {
		if !section.Matches(cfg.Dir) {
			continue
		}
		headings := preventionHeadings(cfg, section.Section)
		if len(headings) == 0 {
			continue
		}
		add(fmt.Sprintf("### %s (Relevant to this project)", section.Section))
		for _, h := range headings {
			add("- " + h)
		}
		add("")
	}

	if n := recentSessions(ctx, cfg); n > 0 {
		add(
			"### Recent CASS Sessions",
			fmt.Sprintf("Found %d relevant sessions in this project.", n),
			"Use `cass search \"<query>\" --robot` to find past solutions.",
			"",
		)
	}

	add(
		"### Session End Reminder",
		"Before ending, consider running `/retro` to capture learnings.",
		"",
	)

	limit := cfg.MaxContextLines
	if limit <= 0 {
		limit = DefaultMaxContextLines
	}
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func branchLine(cfg *Config) string {
	if cfg.GitOpener == nil {
		return ""
	}
	head, err := git.ReadHead(cfg.GitOpener, cfg.Dir)
	if err != nil {
		logging.Debug().Err(err).Str("component", "recall").Msg("no git state for session context")
		return ""
	}
	return "Branch: " + head.String()
}

func preventionHeadings(cfg *Config, section string) []string {
	if cfg.Knowledge == nil {
		return nil
	}
	headings, err := cfg.Knowledge.PreventionHeadings(section, preventionHeadingLimit)
	if err != nil {
		logging.Debug().Err(err).Str("component", "recall").Msg("loading prevention patterns")
		return nil
	}
	return headings
}

func recentSessions(ctx context.Context, cfg *Config) int {
	if cfg.Sessions == nil || !cfg.Sessions.Healthy(ctx) {
		return 0
	}
	query := cfg.CassQuery
	if query == "" {
		query = cass.DefaultQuery
	}
	return len(cfg.Sessions.Search(ctx, query, cfg.Dir))
}

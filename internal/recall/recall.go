// Package recall injects what the knowledge base and past sessions already
// know: a context summary at session start, warnings before editing files
// with known error patterns, known fixes when tool output shows an error, and
// a retrospective prompt when an error-heavy session goes idle.
package recall

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/warden-dev/warden/internal/cass"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/knowledge"
	"github.com/warden-dev/warden/internal/logging"
)

const (
	DefaultMaxContextLines = 50
	DefaultRetroAfter      = 5 * time.Minute
	maxFixLength           = 500
	preventionHeadingLimit = 3
)

// State is the per-session recall record.
type State struct {
	StartedAt time.Time `json:"started_at,omitempty"`
	HadErrors bool      `json:"had_errors,omitempty"`
}

// Knowledge is the read side of the knowledge base.
type Knowledge interface {
	ErrorPatterns() ([]knowledge.Pattern, error)
	PreventionHeadings(section string, limit int) ([]string, error)
}

// SessionSearch finds past sessions.
type SessionSearch interface {
	Healthy(ctx context.Context) bool
	Search(ctx context.Context, query, workspace string) []cass.Result
}

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(text string)
}

// PreventionSection selects a prevention file section for projects whose
// directory path contains one of PathContains (case-insensitive).
type PreventionSection struct {
	Section      string   `json:"section" koanf:"section" yaml:"section" validate:"required"`
	PathContains []string `json:"path_contains" koanf:"path_contains" yaml:"path_contains" validate:"min=1"`
}

// Matches reports whether dir selects this section.
func (p PreventionSection) Matches(dir string) bool {
	lower := strings.ToLower(dir)
	for _, kw := range p.PathContains {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Config wires recall to its sources.
type Config struct {
	Dir                string
	Knowledge          Knowledge
	Sessions           SessionSearch
	CassQuery          string
	PreventionSections []PreventionSection
	MaxContextLines    int
	RetroAfter         time.Duration
	// GitOpener is used for the branch line. Nil disables it.
	GitOpener git.Opener
	Now       func() time.Time
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Recall applies recall behavior to one session's State.
type Recall struct {
	cfg    *Config
	state  *State
	notify Notifier
}

// New binds Recall to state. notify may be nil.
func New(cfg *Config, state *State, notify Notifier) *Recall {
	return &Recall{cfg: cfg, state: state, notify: notify}
}

// SessionCreated resets the session record and emits the session context.
func (r *Recall) SessionCreated(ctx context.Context) {
	r.state.StartedAt = r.cfg.now()
	r.state.HadErrors = false

	if text := SessionContext(ctx, r.cfg); strings.TrimSpace(text) != "" {
		r.emit(text)
	}
}

// SessionIdle prompts for a retrospective when the session had errors and
// ran longer than RetroAfter.
func (r *Recall) SessionIdle() {
	if !r.state.HadErrors || r.state.StartedAt.IsZero() {
		return
	}
	retroAfter := r.cfg.RetroAfter
	if retroAfter <= 0 {
		retroAfter = DefaultRetroAfter
	}
	if r.cfg.now().Sub(r.state.StartedAt) > retroAfter {
		r.emit("💡 **Session had errors** - consider running `/retro` to capture learnings.")
	}
}

// BeforeTool warns before edit/write calls on files with known patterns.
func (r *Recall) BeforeTool(tool string, args map[string]any) {
	switch strings.ToLower(tool) {
	case "edit", "write":
	default:
		return
	}
	path, _ := args["filePath"].(string)
	if path == "" {
		return
	}
	if warning := r.editWarning(path); warning != "" {
		r.emit(warning)
	}
}

// AfterTool flags errors in bash and typecheck output and surfaces the
// first matching known fix.
func (r *Recall) AfterTool(tool, output string) {
	if output == "" || !hasError(strings.ToLower(tool), output) {
		return
	}
	r.state.HadErrors = true

	patterns := r.patterns()
	p, ok := knowledge.MatchOutput(patterns, output)
	if !ok {
		return
	}
	r.emit("🔍 **Known pattern detected**: " + p.Name + "\n\n**Known fix:**\n```\n" + truncateRunes(p.Fix, maxFixLength) + "\n```")
}

func hasError(tool, output string) bool {
	switch tool {
	case "bash":
		return strings.Contains(output, "error") ||
			strings.Contains(output, "Error") ||
			strings.Contains(output, "ERROR")
	case "typecheck":
		return strings.Contains(output, "error")
	}
	return false
}

func (r *Recall) editWarning(path string) string {
	matched := knowledge.MatchFile(r.patterns(), path)
	if len(matched) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ **Pre-edit warning**: %s has %d known error pattern(s):", path, len(matched))
	for _, p := range matched {
		b.WriteString("\n- ")
		b.WriteString(p.Name)
	}
	return b.String()
}

func (r *Recall) patterns() []knowledge.Pattern {
	return loadPatterns(r.cfg.Knowledge)
}

func loadPatterns(k Knowledge) []knowledge.Pattern {
	if k == nil {
		return nil
	}
	patterns, err := k.ErrorPatterns()
	if err != nil {
		logging.Debug().Err(err).Str("component", "recall").Msg("loading error patterns")
		return nil
	}
	return patterns
}

func (r *Recall) emit(text string) {
	if r.notify != nil {
		r.notify.Notify(text)
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func projectName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

// Package health_test tests dependency health checks behind warden doctor.
// Related: internal/health/health.go
// Tags: health, dependencies, validation, doctor

package health

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warden-dev/warden/internal/claude"
	"github.com/warden-dev/warden/internal/knowledge"
)

func lookPathOnly(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func baseOptions(t *testing.T, found ...string) Options {
	t.Helper()
	return Options{
		Dir:        t.TempDir(),
		Binary:     "warden",
		TrackerCmd: "bd",
		GitCmd:     "git",
		CassCmd:    "cass",
		LookPath:   lookPathOnly(found...),
	}
}

func names(report *HealthReport) []string {
	out := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		out = append(out, c.Name)
	}
	return out
}

func TestRunHealthChecks(t *testing.T) {
	tests := map[string]struct {
		found      []string
		wantPassed bool
	}{
		"all tools present":         {found: []string{"bd", "git", "cass"}, wantPassed: true},
		"cass missing is a warning": {found: []string{"bd", "git"}, wantPassed: true},
		"tracker missing fails":     {found: []string{"git", "cass"}, wantPassed: false},
		"git missing fails":         {found: []string{"bd", "cass"}, wantPassed: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			report := RunHealthChecks(baseOptions(t, tt.found...))
			assert.Equal(t, tt.wantPassed, report.Passed)
			assert.Equal(t, []string{"Task tracker", "Git", "Git repository", "cass", "Claude hooks", "OpenCode MCP"}, names(report))
		})
	}
}

func TestRunHealthChecks_SkipOpenCodeWithKnowledge(t *testing.T) {
	opts := baseOptions(t, "bd", "git", "cass")
	opts.SkipOpenCode = true
	opts.Knowledge = knowledge.NewBase(t.TempDir(), "", "")

	report := RunHealthChecks(opts)
	assert.Equal(t, []string{"Task tracker", "Git", "Git repository", "cass", "Knowledge base", "Claude hooks"}, names(report))
}

func TestCheckKnowledge(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		res := CheckKnowledge(knowledge.NewBase(filepath.Join(t.TempDir(), "nope"), "", ""))
		assert.False(t, res.Passed)
		assert.True(t, res.Optional)
		assert.Contains(t, res.Message, "not found")
	})

	t.Run("counts patterns", func(t *testing.T) {
		dir := t.TempDir()
		md := "### Nil map\n**Pattern:** `assignment to entry in nil map`\n\n### Race\n**Pattern:** `DATA RACE`\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, knowledge.DefaultErrorPatternFile), []byte(md), 0o644))

		res := CheckKnowledge(knowledge.NewBase(dir, "", ""))
		assert.True(t, res.Passed)
		assert.Equal(t, "2 error pattern(s)", res.Message)
	})
}

func TestCheckClaudeHooks(t *testing.T) {
	dir := t.TempDir()

	res := CheckClaudeHooks(dir, "warden")
	assert.False(t, res.Passed)
	assert.True(t, res.Optional)

	s, err := claude.Load(dir)
	require.NoError(t, err)
	s.AddHooks("warden")
	require.NoError(t, s.Save())

	res = CheckClaudeHooks(dir, "warden")
	assert.True(t, res.Passed)
}

func TestFormatReport(t *testing.T) {
	report := &HealthReport{Checks: []CheckResult{
		{Name: "Git", Passed: true, Message: "git found"},
		{Name: "cass", Message: "cass not found in PATH", Optional: true},
		{Name: "Task tracker", Message: "bd not found in PATH"},
	}}

	assert.Equal(t,
		"✓ Git: git found\n⚠ cass: cass not found in PATH\n✗ Task tracker: bd not found in PATH\n",
		FormatReport(report))
}

func TestCheckRepository(t *testing.T) {
	dir := t.TempDir()

	res := CheckRepository(dir)
	assert.False(t, res.Passed)
	assert.True(t, res.Optional)

	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	assert.True(t, CheckRepository(dir).Passed)
}

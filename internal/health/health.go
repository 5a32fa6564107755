// Package health runs the dependency checks behind `warden doctor`.
package health

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/warden-dev/warden/internal/claude"
	"github.com/warden-dev/warden/internal/git"
	"github.com/warden-dev/warden/internal/knowledge"
	"github.com/warden-dev/warden/internal/opencode"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional failures are warnings; they do not fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// Options selects what the checks look at.
type Options struct {
	Dir          string
	Binary       string
	TrackerCmd   string
	GitCmd       string
	CassCmd      string
	Knowledge    *knowledge.Base
	LookPath     func(string) (string, error)
	SkipOpenCode bool
}

func (o *Options) lookPath(name string) error {
	lp := o.LookPath
	if lp == nil {
		lp = exec.LookPath
	}
	_, err := lp(name)
	return err
}

// RunHealthChecks runs all health checks and returns a report. The tracker
// and git are required: the gate blocks every gated action without them.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{Passed: true}

	report.add(CheckCommand(&opts, "Task tracker", opts.TrackerCmd, false))
	report.add(CheckCommand(&opts, "Git", opts.GitCmd, false))
	report.add(CheckRepository(opts.Dir))
	report.add(CheckCommand(&opts, "cass", opts.CassCmd, true))
	if opts.Knowledge != nil {
		report.add(CheckKnowledge(opts.Knowledge))
	}
	report.add(CheckClaudeHooks(opts.Dir, opts.Binary))
	if !opts.SkipOpenCode {
		report.add(CheckOpenCode(opts.Dir, opts.Binary))
	}

	return report
}

// CheckRepository warns when dir is outside a git repository: the gate's
// clean-tree check cannot see anything there.
func CheckRepository(dir string) CheckResult {
	if !git.IsRepository(dir) {
		return CheckResult{
			Name:     "Git repository",
			Message:  dir + " is not inside a git repository",
			Optional: true,
		}
	}
	return CheckResult{Name: "Git repository", Passed: true, Message: "found"}
}

// CheckCommand checks that an external command is in PATH.
func CheckCommand(opts *Options, name, command string, optional bool) CheckResult {
	if err := opts.lookPath(command); err != nil {
		return CheckResult{
			Name:     name,
			Message:  fmt.Sprintf("%s not found in PATH", command),
			Optional: optional,
		}
	}
	return CheckResult{Name: name, Passed: true, Message: fmt.Sprintf("%s found", command), Optional: optional}
}

// CheckKnowledge reports how many error patterns the knowledge base holds.
func CheckKnowledge(base *knowledge.Base) CheckResult {
	if _, err := os.Stat(base.Dir); err != nil {
		return CheckResult{
			Name:     "Knowledge base",
			Message:  fmt.Sprintf("%s not found", base.Dir),
			Optional: true,
		}
	}
	patterns, err := base.ErrorPatterns()
	if err != nil {
		return CheckResult{Name: "Knowledge base", Message: err.Error(), Optional: true}
	}
	return CheckResult{
		Name:     "Knowledge base",
		Passed:   true,
		Message:  fmt.Sprintf("%d error pattern(s)", len(patterns)),
		Optional: true,
	}
}

// CheckClaudeHooks checks the Claude Code hook registration.
func CheckClaudeHooks(dir, binary string) CheckResult {
	res, err := claude.CheckInDir(dir, binary)
	if err != nil {
		return CheckResult{Name: "Claude hooks", Message: err.Error(), Optional: true}
	}
	return CheckResult{
		Name:     "Claude hooks",
		Passed:   res.Status == claude.StatusConfigured,
		Message:  res.Message,
		Optional: true,
	}
}

// CheckOpenCode checks the OpenCode MCP registration.
func CheckOpenCode(dir, binary string) CheckResult {
	res, err := opencode.CheckInDir(dir, binary)
	if err != nil {
		return CheckResult{Name: "OpenCode MCP", Message: err.Error(), Optional: true}
	}
	return CheckResult{
		Name:     "OpenCode MCP",
		Passed:   res.Status == opencode.StatusConfigured,
		Message:  res.Message,
		Optional: true,
	}
}

// Mark returns the status symbol for a check: ✓ passed, ⚠ optional
// failure, ✗ required failure.
func Mark(check CheckResult) string {
	switch {
	case check.Passed:
		return "✓"
	case check.Optional:
		return "⚠"
	default:
		return "✗"
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		fmt.Fprintf(&b, "%s %s: %s\n", Mark(check), check.Name, check.Message)
	}
	return b.String()
}

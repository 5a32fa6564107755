// Package shell runs external CLI tools (bd, git, cass) with bounded
// timeouts and captured output.
//
// Callers never get a partially running process back: either the command
// finished, or it was killed when its context expired.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command describes a single external invocation.
type Command struct {
	// Name is the executable (looked up in PATH).
	Name string
	// Args are passed verbatim, no shell interpretation.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Timeout bounds the whole run. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns the default process runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command and waits for it, killing it when the timeout or
// ctx expires. A non-zero exit is reported in Result.ExitCode, not as an
// error; errors mean the command could not run to completion.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	ctx, cancel := applyTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.Command(c.Name, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	start := time.Now()
	var err error
	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return nil, fmt.Errorf("executing %s: %w", c.Name, ctx.Err())
	case err = <-done:
	}

	result := &Result{
		Duration: time.Since(start),
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("executing %s: %w", c.Name, err)
		}
	}
	return result, nil
}

// applyTimeout returns a context with timeout if d is set.
func applyTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Output runs c and returns stdout, treating a non-zero exit as an error.
func Output(ctx context.Context, r Runner, c Command) (string, error) {
	res, err := r.Run(ctx, c)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &ExitError{Command: c.String(), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

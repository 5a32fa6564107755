// Package shared provides constants and helpers used across CLI subpackages.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"
)

// Command group IDs for organizing help output
const (
	GroupGettingStarted = "getting-started"
	GroupHooks          = "hooks"
	GroupTools          = "tools"
	GroupConfiguration  = "configuration"
)

// Exit codes for CLI commands
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitBlocked           = 2
	ExitInvalidArguments  = 3
	ExitMissingDependency = 4
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code. The command
// has already reported to the user; Execute only sets the exit status.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// IsExitError reports whether err only carries an exit code.
func IsExitError(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}

package errors

import "fmt"

// InvalidRepo reports a repo argument that is neither owner/repo nor a
// GitHub URL.
func InvalidRepo(input string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid repository %q", input),
		"Use owner/repo, e.g. facebook/react",
		"Or pass a GitHub URL, e.g. https://github.com/facebook/react",
	)
}

// UnknownHook reports an unsupported hook name.
func UnknownHook(name string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown hook %q", name),
		"warden hook <name>",
		fmt.Sprintf("Valid hooks: %v", valid),
	)
}

// InvalidPriority reports a task priority outside 0..max.
func InvalidPriority(priority, maxPriority int) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid priority %d", priority),
		fmt.Sprintf("Use a priority between 0 and %d", maxPriority),
	)
}

// ToolNotFound reports a missing external command.
func ToolNotFound(name, install string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("%s not found in PATH", name),
		install,
		"Run 'warden doctor' to check all dependencies",
	)
}

// ConfigFileNotFound reports a config path that does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Create the file or remove the --config flag",
	)
}

// ConfigParseError reports an unreadable config file.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to parse config %s: %v", path, err),
		Remediation: []string{
			"Check the file is valid JSON",
			"Run 'warden config show' to see the effective configuration",
		},
		Err: err,
	}
}

// ConfigInvalid reports a config that parsed but failed validation.
func ConfigInvalid(err error) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     fmt.Sprintf("invalid configuration: %v", err),
		Remediation: []string{"Fix the reported keys in ~/.warden/config.json or .warden/config.json"},
		Err:         err,
	}
}

// TimeoutError reports an operation that ran past its deadline.
func TimeoutError(duration, operation string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("%s timed out after %s", operation, duration),
		"Check the command is responsive and try again",
	)
}

// DirectoryNotFound reports a missing directory.
func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"Create the directory or check the path",
	)
}

// FileNotWritable reports a file warden could not write.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write file: %s", path),
		"Check file permissions",
	)
}

package gate

import "strings"

// gatedTools always require alignment.
var gatedTools = map[string]bool{
	"edit":      true,
	"write":     true,
	"multiedit": true,
	"task":      true,
}

// dangerousShell lists substrings that make a shell command side-effecting.
// Matching is a plain substring test over the lowercased command, so it
// over-approximates (for example "farm x" contains "rm ").
var dangerousShell = []string{"git push", "git commit", "rm ", "rm -", "mv "}

// Action is a tool invocation the host is about to run.
type Action struct {
	Tool string
	Args map[string]any
}

// Command returns the shell command argument, or "" if absent or not a
// string.
func (a Action) Command() string {
	s, _ := a.Args["command"].(string)
	return s
}

// Classify reports whether the action must pass the gate. Tool names are
// compared case-insensitively.
func Classify(a Action) bool {
	tool := strings.ToLower(a.Tool)
	if tool == "bash" {
		return IsDangerousCommand(a.Command())
	}
	return gatedTools[tool]
}

// IsDangerousCommand reports whether a shell command matches one of the
// side-effecting substrings.
func IsDangerousCommand(command string) bool {
	lower := strings.ToLower(command)
	for _, pattern := range dangerousShell {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

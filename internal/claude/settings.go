package claude

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SettingsStatus represents the state of Claude hook registration.
type SettingsStatus int

const (
	// StatusConfigured indicates every warden hook is registered.
	StatusConfigured SettingsStatus = iota
	// StatusMissing indicates the settings file does not exist.
	StatusMissing
	// StatusNeedsHooks indicates the settings file lacks some warden hooks.
	StatusNeedsHooks
)

// String returns a human-readable representation of the status.
func (s SettingsStatus) String() string {
	switch s {
	case StatusConfigured:
		return "Configured"
	case StatusMissing:
		return "Missing"
	case StatusNeedsHooks:
		return "NeedsHooks"
	default:
		return "Unknown"
	}
}

// SettingsCheckResult contains the result of validating Claude settings.
type SettingsCheckResult struct {
	Status   SettingsStatus
	Message  string
	FilePath string
	Missing  []string
}

// SettingsFileName is the name of the Claude settings file.
const SettingsFileName = "settings.local.json"

// SettingsDir is the directory containing Claude settings.
const SettingsDir = ".claude"

// Hook binds a Claude Code hook event to a `warden hook` name.
type Hook struct {
	Event string
	Name  string
	// ToolEvent hooks carry a matcher selecting every tool.
	ToolEvent bool
}

// Hooks lists the registrations warden installs, in install order.
var Hooks = []Hook{
	{Event: "SessionStart", Name: "session-start"},
	{Event: "UserPromptSubmit", Name: "prompt"},
	{Event: "PreToolUse", Name: "pre-tool", ToolEvent: true},
	{Event: "PostToolUse", Name: "post-tool", ToolEvent: true},
	{Event: "Stop", Name: "stop"},
}

// HookCommand is the command line registered for a hook.
func HookCommand(binary, name string) string {
	return binary + " hook " + name
}

// Settings represents a Claude settings file with flexible JSON structure.
// Uses map[string]interface{} to preserve unknown fields during modification.
type Settings struct {
	data     map[string]interface{}
	filePath string
}

// Load reads and parses Claude settings from the project directory.
// Returns a Settings instance even if the file doesn't exist (with empty data).
// Returns an error only for actual failures like permission errors or malformed JSON.
func Load(projectDir string) (*Settings, error) {
	return loadFromPath(filepath.Join(projectDir, SettingsDir, SettingsFileName))
}

func loadFromPath(settingsPath string) (*Settings, error) {
	s := &Settings{
		data:     make(map[string]interface{}),
		filePath: settingsPath,
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
	}

	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", settingsPath, err)
	}

	return s, nil
}

// FilePath returns the path to the settings file.
func (s *Settings) FilePath() string {
	return s.filePath
}

// Exists returns true if the settings file exists on disk.
func (s *Settings) Exists() bool {
	_, err := os.Stat(s.filePath)
	return err == nil
}

func (s *Settings) getHooks() map[string]interface{} {
	hooks, ok := s.data["hooks"].(map[string]interface{})
	if !ok {
		hooks = make(map[string]interface{})
		s.data["hooks"] = hooks
	}
	return hooks
}

// commands returns every command registered under event, across matchers.
func (s *Settings) commands(event string) []string {
	hooks, ok := s.data["hooks"].(map[string]interface{})
	if !ok {
		return nil
	}
	groups, ok := hooks[event].([]interface{})
	if !ok {
		return nil
	}

	var out []string
	for _, g := range groups {
		group, ok := g.(map[string]interface{})
		if !ok {
			continue
		}
		entries, ok := group["hooks"].([]interface{})
		if !ok {
			continue
		}
		for _, e := range entries {
			entry, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			if cmd, ok := entry["command"].(string); ok {
				out = append(out, cmd)
			}
		}
	}
	return out
}

// HasHook checks if command is registered for event.
func (s *Settings) HasHook(event, command string) bool {
	for _, c := range s.commands(event) {
		if c == command {
			return true
		}
	}
	return false
}

// MissingHooks returns the events whose warden hook is not registered.
func (s *Settings) MissingHooks(binary string) []string {
	var missing []string
	for _, h := range Hooks {
		if !s.HasHook(h.Event, HookCommand(binary, h.Name)) {
			missing = append(missing, h.Event)
		}
	}
	return missing
}

// AddHooks registers every missing warden hook and returns the events that
// were added. Existing groups under an event are kept; warden's group is
// appended after them.
func (s *Settings) AddHooks(binary string) []string {
	var added []string
	hooks := s.getHooks()

	for _, h := range Hooks {
		command := HookCommand(binary, h.Name)
		if s.HasHook(h.Event, command) {
			continue
		}

		group := map[string]interface{}{
			"hooks": []interface{}{
				map[string]interface{}{"type": "command", "command": command},
			},
		}
		if h.ToolEvent {
			group["matcher"] = "*"
		}

		existing, _ := hooks[h.Event].([]interface{})
		hooks[h.Event] = append(existing, group)
		added = append(added, h.Event)
	}

	return added
}

// Check validates that Claude settings register every warden hook.
func (s *Settings) Check(binary string) SettingsCheckResult {
	if !s.Exists() {
		return SettingsCheckResult{
			Status:  StatusMissing,
			Message: ".claude/settings.local.json not found (run 'warden install' to configure)",
		}
	}

	if missing := s.MissingHooks(binary); len(missing) > 0 {
		return SettingsCheckResult{
			Status:   StatusNeedsHooks,
			Message:  fmt.Sprintf("missing %d warden hook(s) (run 'warden install' to fix)", len(missing)),
			FilePath: s.filePath,
			Missing:  missing,
		}
	}

	return SettingsCheckResult{
		Status:   StatusConfigured,
		Message:  "warden hooks configured",
		FilePath: s.filePath,
	}
}

// CheckInDir performs a settings check for the given project directory.
func CheckInDir(projectDir, binary string) (SettingsCheckResult, error) {
	settings, err := Load(projectDir)
	if err != nil {
		return SettingsCheckResult{}, fmt.Errorf("loading claude settings: %w", err)
	}
	return settings.Check(binary), nil
}

// Save writes the settings to disk using atomic write (temp file + rename).
// Creates the .claude directory if it doesn't exist.
func (s *Settings) Save() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}
	data = append(data, '\n')

	return atomicWrite(s.filePath, data)
}

// atomicWrite writes data to a file atomically using temp file + rename.
func atomicWrite(filePath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filePath), ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filePath, err)
	}

	tmpPath = ""
	return nil
}

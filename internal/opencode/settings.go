// Package opencode registers warden's MCP tool server in an OpenCode
// project's opencode.json, preserving every other field.
package opencode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// SettingsStatus represents the state of the OpenCode MCP registration.
type SettingsStatus int

const (
	// StatusConfigured indicates the warden MCP server is registered and enabled.
	StatusConfigured SettingsStatus = iota
	// StatusMissing indicates the settings file does not exist.
	StatusMissing
	// StatusNeedsServer indicates the file exists without a usable warden entry.
	StatusNeedsServer
	// StatusDisabled indicates the entry exists but is explicitly disabled.
	StatusDisabled
)

// String returns a human-readable representation of the status.
func (s SettingsStatus) String() string {
	switch s {
	case StatusConfigured:
		return "Configured"
	case StatusMissing:
		return "Missing"
	case StatusNeedsServer:
		return "NeedsServer"
	case StatusDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// SettingsCheckResult contains the result of validating OpenCode settings.
type SettingsCheckResult struct {
	Status   SettingsStatus
	Message  string
	FilePath string
}

// SettingsFileName is the name of the OpenCode settings file.
const SettingsFileName = "opencode.json"

// ServerName is the key warden registers under "mcp".
const ServerName = "warden"

// MCPServer is one entry of the "mcp" object. Only local servers are
// written; remote entries round-trip through Extra.
type MCPServer struct {
	Type    string   `json:"type"`
	Command []string `json:"command,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// IsEnabled treats an absent "enabled" as enabled.
func (m MCPServer) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// Settings represents an OpenCode settings file.
type Settings struct {
	// mcp holds every server entry as raw JSON so foreign entries keep
	// fields warden does not model.
	mcp map[string]json.RawMessage

	// extra holds unknown top-level fields to preserve during save
	extra map[string]json.RawMessage

	filePath string
}

// Load reads and parses OpenCode settings from the project directory.
// Returns a Settings instance even if the file doesn't exist (with empty data).
func Load(projectDir string) (*Settings, error) {
	return loadFromPath(filepath.Join(projectDir, SettingsFileName))
}

func loadFromPath(settingsPath string) (*Settings, error) {
	s := &Settings{
		mcp:      make(map[string]json.RawMessage),
		extra:    make(map[string]json.RawMessage),
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

	if err := s.unmarshalPreservingExtra(data); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", settingsPath, err)
	}

	return s, nil
}

func (s *Settings) unmarshalPreservingExtra(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if mcpRaw, ok := raw["mcp"]; ok {
		if err := json.Unmarshal(mcpRaw, &s.mcp); err != nil {
			return fmt.Errorf("parsing mcp field: %w", err)
		}
		if s.mcp == nil {
			s.mcp = make(map[string]json.RawMessage)
		}
		delete(raw, "mcp")
	}

	s.extra = raw
	return nil
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

// Server returns the warden entry, if present and well-formed.
func (s *Settings) Server() (MCPServer, bool) {
	raw, ok := s.mcp[ServerName]
	if !ok {
		return MCPServer{}, false
	}
	var srv MCPServer
	if err := json.Unmarshal(raw, &srv); err != nil {
		return MCPServer{}, false
	}
	return srv, true
}

// Command is the command line OpenCode runs for the warden MCP server.
func Command(binary string) []string {
	return []string{binary, "mcp"}
}

// AddServer registers (or repairs) the warden MCP entry. It returns false
// when the entry was already correct. An explicitly disabled entry is left
// disabled.
func (s *Settings) AddServer(binary string) bool {
	want := MCPServer{Type: "local", Command: Command(binary)}
	if existing, ok := s.Server(); ok {
		if existing.Type == want.Type && slices.Equal(existing.Command, want.Command) {
			return false
		}
		want.Enabled = existing.Enabled
	}

	data, err := json.Marshal(want)
	if err != nil {
		return false
	}
	s.mcp[ServerName] = data
	return true
}

// Check validates that the warden MCP server is registered.
func (s *Settings) Check(binary string) SettingsCheckResult {
	if !s.Exists() {
		return SettingsCheckResult{
			Status:  StatusMissing,
			Message: "opencode.json not found (run 'warden install --opencode' to configure)",
		}
	}

	srv, ok := s.Server()
	if !ok || srv.Type != "local" || !slices.Equal(srv.Command, Command(binary)) {
		return SettingsCheckResult{
			Status:   StatusNeedsServer,
			Message:  fmt.Sprintf("mcp.%s is not registered (run 'warden install --opencode' to fix)", ServerName),
			FilePath: s.filePath,
		}
	}

	if !srv.IsEnabled() {
		return SettingsCheckResult{
			Status:   StatusDisabled,
			Message:  fmt.Sprintf("mcp.%s is disabled in %s", ServerName, s.filePath),
			FilePath: s.filePath,
		}
	}

	return SettingsCheckResult{
		Status:   StatusConfigured,
		Message:  fmt.Sprintf("mcp.%s configured", ServerName),
		FilePath: s.filePath,
	}
}

// CheckInDir performs a settings check for the given project directory.
func CheckInDir(projectDir, binary string) (SettingsCheckResult, error) {
	settings, err := Load(projectDir)
	if err != nil {
		return SettingsCheckResult{}, fmt.Errorf("loading opencode settings: %w", err)
	}
	return settings.Check(binary), nil
}

// Save writes the settings to disk using atomic write (temp file + rename).
// Preserves unknown fields that were present when the file was loaded.
func (s *Settings) Save() error {
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := s.marshalWithExtra()
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}

	return atomicWrite(s.filePath, data)
}

func (s *Settings) marshalWithExtra() ([]byte, error) {
	result := make(map[string]json.RawMessage, len(s.extra)+1)
	for k, v := range s.extra {
		result[k] = v
	}
	if len(s.mcp) > 0 {
		mcpData, err := json.Marshal(s.mcp)
		if err != nil {
			return nil, err
		}
		result["mcp"] = mcpData
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
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

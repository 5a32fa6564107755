// Package claude_test tests Claude settings file management and hook registration.
// Related: internal/claude/settings.go
// Tags: claude, settings, hooks, json

package claude

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSettingsFile(t *testing.T, dir, content string) {
	t.Helper()
	claudeDir := filepath.Join(dir, SettingsDir)
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, SettingsFileName), []byte(content), 0644))
}

func readSettingsFile(t *testing.T, dir string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, SettingsDir, SettingsFileName))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content    *string
		wantErrMsg string
		check      func(t *testing.T, s *Settings)
	}{
		"missing file returns empty settings": {
			check: func(t *testing.T, s *Settings) {
				assert.False(t, s.Exists())
				assert.Empty(t, s.data)
			},
		},
		"empty file returns empty settings": {
			content: ptr(""),
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.Exists())
				assert.Empty(t, s.data)
			},
		},
		"malformed JSON returns error": {
			content:    ptr(`{invalid json}`),
			wantErrMsg: "parsing settings file",
		},
		"preserves extra fields": {
			content: ptr(`{"permissions": {"allow": ["Bash(foo:*)"]}, "custom_field": "value"}`),
			check: func(t *testing.T, s *Settings) {
				assert.Contains(t, s.data, "permissions")
				assert.Contains(t, s.data, "custom_field")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if tt.content != nil {
				createSettingsFile(t, dir, *tt.content)
			}

			s, err := Load(dir)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestAddHooks_FreshFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	added := s.AddHooks("warden")
	require.NoError(t, s.Save())

	assert.Equal(t, []string{"SessionStart", "UserPromptSubmit", "PreToolUse", "PostToolUse", "Stop"}, added)

	data := readSettingsFile(t, dir)
	hooks := data["hooks"].(map[string]interface{})
	pre := hooks["PreToolUse"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "*", pre["matcher"])
	entry := pre["hooks"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "command", entry["type"])
	assert.Equal(t, "warden hook pre-tool", entry["command"])

	start := hooks["SessionStart"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, start, "matcher")
}

func TestAddHooks_Idempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)
	s.AddHooks("warden")
	require.NoError(t, s.Save())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, again.AddHooks("warden"))
	assert.Empty(t, again.MissingHooks("warden"))
}

func TestAddHooks_PreservesExisting(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	createSettingsFile(t, dir, `{
		"model": "opus",
		"hooks": {
			"PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "lint-guard"}]}],
			"Stop": [{"hooks": [{"type": "command", "command": "warden hook stop"}]}]
		}
	}`)

	s, err := Load(dir)
	require.NoError(t, err)
	added := s.AddHooks("warden")
	require.NoError(t, s.Save())

	assert.NotContains(t, added, "Stop")
	assert.Contains(t, added, "PreToolUse")

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "opus", reloaded.data["model"])
	assert.True(t, reloaded.HasHook("PreToolUse", "lint-guard"))
	assert.True(t, reloaded.HasHook("PreToolUse", "warden hook pre-tool"))
	assert.Len(t, reloaded.commands("Stop"), 1)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		res, err := CheckInDir(t.TempDir(), "warden")
		require.NoError(t, err)
		assert.Equal(t, StatusMissing, res.Status)
	})

	t.Run("partial hooks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		createSettingsFile(t, dir, `{"hooks": {"Stop": [{"hooks": [{"type": "command", "command": "warden hook stop"}]}]}}`)

		res, err := CheckInDir(dir, "warden")
		require.NoError(t, err)
		assert.Equal(t, StatusNeedsHooks, res.Status)
		assert.Equal(t, []string{"SessionStart", "UserPromptSubmit", "PreToolUse", "PostToolUse"}, res.Missing)
		assert.Contains(t, res.Message, "4 warden hook(s)")
	})

	t.Run("configured", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		s, err := Load(dir)
		require.NoError(t, err)
		s.AddHooks("/usr/local/bin/warden")
		require.NoError(t, s.Save())

		res, err := CheckInDir(dir, "/usr/local/bin/warden")
		require.NoError(t, err)
		assert.Equal(t, StatusConfigured, res.Status)

		other, err := CheckInDir(dir, "warden")
		require.NoError(t, err)
		assert.Equal(t, StatusNeedsHooks, other.Status)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		createSettingsFile(t, dir, `{`)
		_, err := CheckInDir(dir, "warden")
		assert.Error(t, err)
	})
}

func TestSettingsStatus_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Configured", StatusConfigured.String())
	assert.Equal(t, "Missing", StatusMissing.String())
	assert.Equal(t, "NeedsHooks", StatusNeedsHooks.String())
	assert.Equal(t, "Unknown", SettingsStatus(42).String())
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := Load(dir)
	require.NoError(t, err)
	s.AddHooks("warden")
	require.NoError(t, s.Save())

	entries, err := os.ReadDir(filepath.Join(dir, SettingsDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SettingsFileName, entries[0].Name())
}

func ptr(s string) *string { return &s }

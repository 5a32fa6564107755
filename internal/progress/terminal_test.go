// Package progress_test tests terminal capability detection and symbol selection.
// Related: internal/progress/terminal.go
// Tags: progress, terminal, tty, unicode
package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	unicode := SelectSymbols(TerminalCapabilities{SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)
	assert.Equal(t, 14, unicode.SpinnerSet)

	ascii := SelectSymbols(TerminalCapabilities{})
	assert.Equal(t, "[OK]", ascii.Checkmark)
	assert.Equal(t, "[FAIL]", ascii.Failure)
	assert.Equal(t, 9, ascii.SpinnerSet)
}

func TestDetectTerminalCapabilities_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.False(t, caps.SupportsUnicode)
	assert.Zero(t, caps.Width)
}

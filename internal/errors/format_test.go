package errors

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatError(t *testing.T) {
	withoutColor(t)

	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"nil": {
			err:  nil,
			want: "",
		},
		"message only": {
			err:  &CLIError{Category: Runtime, Message: "syncing tasks: exit status 1"},
			want: "Runtime Error: syncing tasks: exit status 1\n",
		},
		"unknown hook shows usage and valid names": {
			err: UnknownHook("bogus", []string{"session-start", "pre-tool-use"}),
			want: "Argument Error: unknown hook \"bogus\"\n" +
				"\nUsage: warden hook <name>\n" +
				"\nTo fix this:\n" +
				"  1. Valid hooks: [session-start pre-tool-use]\n",
		},
		"invalid repo numbers every step": {
			err: InvalidRepo("not a repo"),
			want: "Argument Error: invalid repository \"not a repo\"\n" +
				"\nTo fix this:\n" +
				"  1. Use owner/repo, e.g. facebook/react\n" +
				"  2. Or pass a GitHub URL, e.g. https://github.com/facebook/react\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatError(tt.err))
		})
	}
}

func TestFormatError_Colored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	out := FormatError(ToolNotFound("bd", "Install beads: https://github.com/steveyegge/beads"))

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Prerequisite Error: ")
	assert.Contains(t, out, "bd not found in PATH")
	assert.Contains(t, out, "Run 'warden doctor' to check all dependencies")
}

func TestFprintError(t *testing.T) {
	withoutColor(t)

	tests := map[string]struct {
		err  *CLIError
		want string
	}{
		"nil writes nothing": {},
		"writes formatted error": {
			err:  DirectoryNotFound("/work/missing"),
			want: "Prerequisite Error: directory not found: /work/missing\n\nTo fix this:\n  1. Create the directory or check the path\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			FprintError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

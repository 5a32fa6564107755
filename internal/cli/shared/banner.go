package shared

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Tagline is the project tagline.
const Tagline = "Pre-flight checks and recall for coding agents"

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeading prints a bold cyan heading followed by a blank line.
func PrintHeading(out io.Writer, text string) {
	fmt.Fprintln(out, color.New(color.FgCyan, color.Bold).Sprint(text))
	fmt.Fprintln(out)
}

// Colors provides reusable color functions for CLI output.
type Colors struct {
	Cyan   func(a ...interface{}) string
	Green  func(a ...interface{}) string
	Yellow func(a ...interface{}) string
	Red    func(a ...interface{}) string
	Dim    func(a ...interface{}) string
	White  func(a ...interface{}) string
}

// NewColors creates a new Colors instance with standard terminal colors.
func NewColors() *Colors {
	return &Colors{
		Cyan:   color.New(color.FgCyan, color.Bold).SprintFunc(),
		Green:  color.New(color.FgGreen).SprintFunc(),
		Yellow: color.New(color.FgYellow).SprintFunc(),
		Red:    color.New(color.FgRed).SprintFunc(),
		Dim:    color.New(color.Faint).SprintFunc(),
		White:  color.New(color.FgWhite, color.Bold).SprintFunc(),
	}
}

// Box drawing characters for bordered output.
const (
	BoxTopLeft     = "╭"
	BoxTopRight    = "╮"
	BoxBottomLeft  = "╰"
	BoxBottomRight = "╯"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
)

// CenterText centers text within the given width.
func CenterText(text string, width int) string {
	textLen := len([]rune(text))
	if textLen >= width {
		return text
	}
	return strings.Repeat(" ", (width-textLen)/2) + text
}

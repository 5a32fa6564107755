package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.FgRed, color.Bold)
	usageColor   = color.New(color.FgCyan)
	stepColor    = color.New(color.FgYellow)
)

// FormatError renders err as a heading line, an optional usage line and
// numbered remediation steps. Colors follow color.NoColor.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headingColor.Sprint(err.Category.String() + ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Usage != "" {
		b.WriteString("\n")
		b.WriteString(usageColor.Sprint("Usage: "))
		b.WriteString(err.Usage)
		b.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		b.WriteString("\nTo fix this:\n")
		for i, r := range err.Remediation {
			fmt.Fprintf(&b, "  %s %s\n", stepColor.Sprintf("%d.", i+1), r)
		}
	}
	return b.String()
}

// FprintError writes err to w. Nil errors write nothing.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

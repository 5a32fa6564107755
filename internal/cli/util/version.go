package util

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/build"
	"github.com/warden-dev/warden/internal/cli/shared"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for warden",
		Example: `  # Show version info
  warden version

  # Plain output (for scripts)
  warden version --plain`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout(), shared.GetTerminalWidth())
		},
	}
	cmd.Flags().Bool("plain", false, "Plain output without formatting")
	return cmd
}

type versionField struct {
	label string
	value string
}

func versionFields() []versionField {
	return []versionField{
		{"Version", build.Version},
		{"Commit", truncateCommit(build.Commit)},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "warden %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the name, tagline and a bordered info box,
// centered in termWidth columns.
func printPrettyVersion(w io.Writer, termWidth int) {
	colors := shared.NewColors()

	fmt.Fprintln(w)
	fmt.Fprintln(w, colors.Cyan(shared.CenterText("warden", termWidth)))
	fmt.Fprintln(w, colors.Dim(shared.CenterText(shared.Tagline, termWidth)))
	fmt.Fprintln(w)

	boxWidth := 44
	if termWidth < 50 {
		boxWidth = termWidth - 6
	}
	contentWidth := boxWidth - 4
	pad := strings.Repeat(" ", max(0, (termWidth-boxWidth)/2))
	blank := pad + shared.BoxVertical + strings.Repeat(" ", boxWidth-2) + shared.BoxVertical

	fmt.Fprintln(w, pad+shared.BoxTopLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxTopRight)
	fmt.Fprintln(w, blank)
	for _, f := range versionFields() {
		line := fmt.Sprintf("  %s    %s", colors.Yellow(fmt.Sprintf("%12s", f.label)), colors.White(f.value))
		// Pad on visible width; color codes take no columns.
		if visible := 2 + 12 + 4 + len(f.value); visible < contentWidth {
			line += strings.Repeat(" ", contentWidth-visible)
		}
		fmt.Fprintln(w, pad+shared.BoxVertical+" "+line+" "+shared.BoxVertical)
	}
	fmt.Fprintln(w, blank)
	fmt.Fprintln(w, pad+shared.BoxBottomLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxBottomRight)
	fmt.Fprintln(w)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

// Package knowledge reads the markdown knowledge base: error patterns with
// known fixes, and prevention pattern notes grouped by section.
package knowledge

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is one entry from the error pattern file.
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
	Fix   string
	Files []string
}

var (
	sectionSplit   = regexp.MustCompile(`(?m)^### `)
	patternField   = regexp.MustCompile("\\*\\*Pattern:\\*\\*\\s*`([^`]+)`")
	filesField     = regexp.MustCompile("\\*\\*Files:\\*\\*\\s*`([^`]+)`")
	fixesBlock     = regexp.MustCompile("(?s)\\*\\*Fixes:\\*\\*.*?```\\w*\\n(.*?)```")
	preventionLine = regexp.MustCompile(`\*\*Prevention:\*\*\s*(.+)`)
)

// ParseErrorPatterns extracts patterns from markdown. Every "### " heading
// starts an entry; entries without a **Pattern:** field or with a regex
// that does not compile are skipped.
func ParseErrorPatterns(markdown string) []Pattern {
	sections := sectionSplit.Split(markdown, -1)
	if len(sections) < 2 {
		return nil
	}

	var patterns []Pattern
	for _, section := range sections[1:] {
		name, _, _ := strings.Cut(section, "\n")

		m := patternField.FindStringSubmatch(section)
		if m == nil {
			continue
		}
		re, err := regexp.Compile("(?i)" + m[1])
		if err != nil {
			continue
		}

		patterns = append(patterns, Pattern{
			Name:  strings.TrimSpace(name),
			Regex: re,
			Fix:   extractFix(section),
			Files: extractFiles(section),
		})
	}
	return patterns
}

func extractFiles(section string) []string {
	m := filesField.FindStringSubmatch(section)
	if m == nil {
		return nil
	}
	var files []string
	for _, f := range strings.Split(m[1], ",") {
		f = strings.TrimSpace(strings.ReplaceAll(f, "`", ""))
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// extractFix prefers the first code block after **Fixes:** and falls back
// to the **Prevention:** text.
func extractFix(section string) string {
	if m := fixesBlock.FindStringSubmatch(section); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := preventionLine.FindStringSubmatch(section); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// AppliesTo reports whether the pattern lists path. An entry matches when it
// is a substring of the base name or the full path, or a doublestar glob
// matching either.
func (p Pattern) AppliesTo(path string) bool {
	base := filepath.Base(path)
	slashed := filepath.ToSlash(path)
	for _, f := range p.Files {
		if strings.Contains(base, f) || strings.Contains(path, f) {
			return true
		}
		if ok, _ := doublestar.Match(f, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(f, base); ok {
			return true
		}
	}
	return false
}

// MatchFile returns the patterns that apply to path, in file order.
func MatchFile(patterns []Pattern, path string) []Pattern {
	var out []Pattern
	for _, p := range patterns {
		if p.AppliesTo(path) {
			out = append(out, p)
		}
	}
	return out
}

// MatchOutput returns the first pattern whose regex matches text.
func MatchOutput(patterns []Pattern, text string) (Pattern, bool) {
	for _, p := range patterns {
		if p.Regex.MatchString(text) {
			return p, true
		}
	}
	return Pattern{}, false
}

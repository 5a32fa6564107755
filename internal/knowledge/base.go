package knowledge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Default file names inside the knowledge directory.
const (
	DefaultErrorPatternFile      = "error-patterns.md"
	DefaultPreventionPatternFile = "prevention-patterns.md"
)

// Base locates the knowledge files. Missing files are treated as empty.
type Base struct {
	Dir            string
	ErrorFile      string
	PreventionFile string
}

// NewBase creates a Base rooted at dir. Empty file names use the defaults.
func NewBase(dir, errorFile, preventionFile string) *Base {
	if errorFile == "" {
		errorFile = DefaultErrorPatternFile
	}
	if preventionFile == "" {
		preventionFile = DefaultPreventionPatternFile
	}
	return &Base{Dir: dir, ErrorFile: errorFile, PreventionFile: preventionFile}
}

// ErrorPatterns reads and parses the error pattern file.
func (b *Base) ErrorPatterns() ([]Pattern, error) {
	content, err := b.read(b.ErrorFile)
	if err != nil {
		return nil, err
	}
	return ParseErrorPatterns(content), nil
}

// PreventionHeadings returns up to limit "### " headings from the
// "## <section>" part of the prevention file. The section ends at the next
// "## " heading. A missing file or section yields nil.
func (b *Base) PreventionHeadings(section string, limit int) ([]string, error) {
	content, err := b.read(b.PreventionFile)
	if err != nil {
		return nil, err
	}
	return SectionHeadings(content, section, limit), nil
}

func (b *Base) read(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.Dir, name)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading knowledge file %s: %w", path, err)
	}
	return string(data), nil
}

// SectionHeadings extracts sub-headings of one "## " section.
func SectionHeadings(markdown, section string, limit int) []string {
	var headings []string
	inSection := false
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, "\r")
		if title, ok := strings.CutPrefix(line, "## "); ok {
			if inSection {
				break
			}
			inSection = strings.TrimSpace(title) == section
			continue
		}
		if !inSection {
			continue
		}
		if title, ok := strings.CutPrefix(line, "### "); ok {
			headings = append(headings, strings.TrimSpace(title))
			if limit > 0 && len(headings) == limit {
				break
			}
		}
	}
	return headings
}

package crawl

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/warden-dev/warden/internal/github"
)

const (
	rootFileLimit   = 10
	subdirItemLimit = 15
)

var importantDirs = []string{"src", "lib", "app", "packages", "examples", "core"}

var keyFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^readme`),
	regexp.MustCompile(`^package\.json$`),
	regexp.MustCompile(`^tsconfig`),
	regexp.MustCompile(`^\.env\.example$`),
	regexp.MustCompile(`(?i)^docker`),
	regexp.MustCompile(`(?i)^makefile$`),
	regexp.MustCompile(`^cargo\.toml$`),
	regexp.MustCompile(`^go\.mod$`),
	regexp.MustCompile(`^pyproject\.toml$`),
	regexp.MustCompile(`^requirements\.txt$`),
	regexp.MustCompile(`^setup\.py$`),
	regexp.MustCompile(`^pom\.xml$`),
	regexp.MustCompile(`^build\.gradle`),
}

// Structure summarizes a repository: metadata, detected stack, root layout,
// key files and, for depth > 1, the contents of conventional source dirs.
// depth <= 0 means DefaultDepth.
func (c *Crawler) Structure(ctx context.Context, repo string, depth int) string {
	ref, ok := ParseRepo(repo)
	if !ok {
		return invalidRepoHint
	}
	if depth <= 0 {
		depth = DefaultDepth
	}

	var (
		info     *github.Repository
		contents []github.Entry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = c.api.Repository(gctx, ref.Owner, ref.Repo)
		return err
	})
	g.Go(func() error {
		var err error
		contents, err = c.api.Contents(gctx, ref.Owner, ref.Repo, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Sprintf("Failed to fetch repo: %v", err)
	}

	var dirs, files, keyFiles []string
	for _, e := range contents {
		if e.IsDir() {
			dirs = append(dirs, e.Name+"/")
			continue
		}
		files = append(files, e.Name)
		if isKeyFile(e.Name) {
			keyFiles = append(keyFiles, e.Name)
		}
	}

	var subdirs string
	if depth > 1 {
		subdirs = c.importantSubdirs(ctx, ref, dirs)
	}

	description := info.Description
	if description == "" {
		description = "(no description)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", ref, description)
	fmt.Fprintf(&b, "⭐ %d | 🍴 %d | 📅 Updated: %s\n\n", info.StargazersCount, info.ForksCount, info.UpdatedAt.UTC().Format("1/2/2006"))
	fmt.Fprintf(&b, "## Tech Stack\n%s\n\n", orDefault(DetectStack(dirs, files), "Unknown"))
	fmt.Fprintf(&b, "## Structure\nDirectories: %s\n", orDefault(dirs, "(none)"))
	fmt.Fprintf(&b, "Root files: %s\n\n", limitList(files, rootFileLimit))
	fmt.Fprintf(&b, "## Key Files\n%s\n", orDefault(keyFiles, "(none detected)"))
	if subdirs != "" {
		b.WriteString("\n## Important Subdirs")
		b.WriteString(subdirs)
	}
	return b.String()
}

// importantSubdirs fetches listed conventional dirs concurrently and renders
// them in root order. Dirs that fail to load are left out.
func (c *Crawler) importantSubdirs(ctx context.Context, ref Ref, dirs []string) string {
	var wanted []string
	for _, d := range dirs {
		name := strings.TrimSuffix(d, "/")
		if slices.Contains(importantDirs, name) {
			wanted = append(wanted, name)
		}
	}
	if len(wanted) == 0 {
		return ""
	}

	listings := make([][]github.Entry, len(wanted))
	var g errgroup.Group
	for i, name := range wanted {
		g.Go(func() error {
			entries, err := c.api.Contents(ctx, ref.Owner, ref.Repo, name)
			if err == nil {
				listings[i] = entries
			}
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	for i, name := range wanted {
		if listings[i] == nil {
			continue
		}
		items := make([]string, 0, len(listings[i]))
		for _, e := range listings[i] {
			if e.IsDir() {
				items = append(items, e.Name+"/")
			} else {
				items = append(items, e.Name)
			}
		}
		fmt.Fprintf(&b, "\n  %s/\n    %s", name, limitList(items, subdirItemLimit))
	}
	return b.String()
}

func isKeyFile(name string) bool {
	for _, p := range keyFilePatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// DetectStack guesses languages and layout conventions from root entries.
// dirs carry a trailing slash.
func DetectStack(dirs, files []string) []string {
	has := func(name string) bool { return slices.Contains(files, name) }
	hasLike := func(sub string) bool {
		return slices.ContainsFunc(files, func(f string) bool { return strings.Contains(f, sub) })
	}
	hasDir := func(name string) bool { return slices.Contains(dirs, name) }

	var stack []string
	if has("package.json") {
		stack = append(stack, "Node.js")
	}
	if hasLike("tsconfig") {
		stack = append(stack, "TypeScript")
	}
	if has("Cargo.toml") {
		stack = append(stack, "Rust")
	}
	if has("go.mod") {
		stack = append(stack, "Go")
	}
	if has("pyproject.toml") || has("setup.py") || has("requirements.txt") {
		stack = append(stack, "Python")
	}
	if has("pom.xml") || hasLike("build.gradle") {
		stack = append(stack, "Java/Kotlin")
	}
	if hasDir("src/") {
		stack = append(stack, "src/ structure")
	}
	if hasDir("lib/") {
		stack = append(stack, "lib/ structure")
	}
	if hasDir("app/") {
		stack = append(stack, "app/ structure (Next.js/Rails?)")
	}
	if hasDir("pages/") {
		stack = append(stack, "pages/ (Next.js Pages Router?)")
	}
	return stack
}

func orDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func limitList(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:limit], ", "), len(items)-limit)
}

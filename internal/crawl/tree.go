package crawl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/warden-dev/warden/internal/github"
)

const (
	treeLevelLimit = 50
	treeFetchLimit = 4
)

// Tree renders a directory tree starting at path (root when empty) down to
// maxDepth levels (DefaultTreeDepth when <= 0).
func (c *Crawler) Tree(ctx context.Context, repo, path string, maxDepth int) string {
	ref, ok := ParseRepo(repo)
	if !ok {
		return invalidRepo
	}
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}

	out := c.treeLevel(ctx, ref, strings.Trim(path, "/"), 1, maxDepth, "")
	if out == "" {
		return "Empty or not found"
	}
	return out
}

// treeLevel renders one directory. Subdirectories are fetched concurrently
// and stitched back in sorted order. A directory that fails to load renders
// as nothing.
func (c *Crawler) treeLevel(ctx context.Context, ref Ref, path string, depth, maxDepth int, prefix string) string {
	if depth > maxDepth {
		return ""
	}
	entries, err := c.api.Contents(ctx, ref.Owner, ref.Repo, path)
	if err != nil {
		return ""
	}
	SortEntries(entries)

	shown := min(len(entries), treeLevelLimit)
	children := make([]string, shown)

	g := new(errgroup.Group)
	g.SetLimit(treeFetchLimit)
	for i := 0; i < shown; i++ {
		e := entries[i]
		if !e.IsDir() || depth >= maxDepth {
			continue
		}
		childPrefix := prefix + branchPad(i == shown-1)
		g.Go(func() error {
			children[i] = c.treeLevel(ctx, ref, e.Path, depth+1, maxDepth, childPrefix)
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	for i := 0; i < shown; i++ {
		e := entries[i]
		name := e.Name
		if e.IsDir() {
			name += "/"
		}
		b.WriteString(prefix)
		b.WriteString(connector(i == shown-1))
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(children[i])
	}
	if len(entries) > treeLevelLimit {
		fmt.Fprintf(&b, "%s... (+%d more)\n", prefix, len(entries)-treeLevelLimit)
	}
	return b.String()
}

// SortEntries orders directories before files, then by name.
func SortEntries(entries []github.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}

func connector(last bool) string {
	if last {
		return "└── "
	}
	return "├── "
}

func branchPad(last bool) string {
	if last {
		return "    "
	}
	return "│   "
}

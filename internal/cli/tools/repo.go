package tools

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/cli/shared"
	"github.com/warden-dev/warden/internal/crawl"
	apperrors "github.com/warden-dev/warden/internal/errors"
)

func newRepoCmd() *cobra.Command {
	repoCmd := &cobra.Command{
		Use:   "repo",
		Short: "Browse a GitHub repository without cloning",
		Long: `Browse a public GitHub repository through the REST API. The repository
may be given as owner/repo, github.com/owner/repo or a full URL.

Set github_token (or GITHUB_TOKEN) to raise the API rate limit.`,
		Example: `  warden repo structure facebook/react
  warden repo tree facebook/react packages --depth 2
  warden repo search facebook/react useState`,
	}

	repoCmd.AddCommand(
		newRepoStructureCmd(),
		newRepoReadmeCmd(),
		newRepoFileCmd(),
		newRepoTreeCmd(),
		newRepoSearchCmd(),
	)
	return repoCmd
}

// crawlFunc fetches one view of a repository.
type crawlFunc func(cmd *cobra.Command, c *crawl.Crawler, repo string, args []string) string

// repoRunE validates the repo argument, fetches under a progress step and
// prints the result.
func repoRunE(label string, fetch crawlFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		repo := args[0]
		ref, ok := crawl.ParseRepo(repo)
		if !ok {
			return apperrors.InvalidRepo(repo)
		}

		dir, err := shared.ProjectDir(cmd)
		if err != nil {
			return err
		}
		d, err := shared.LoadDeps(cmd, dir)
		if err != nil {
			return err
		}
		crawler := d.Crawler()

		var out string
		_ = newDisplay(cmd).Run(fmt.Sprintf("%s %s/%s", label, ref.Owner, ref.Repo), func() error {
			out = fetch(cmd, crawler, repo, args[1:])
			return nil
		})
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
}

func intFlag(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func newRepoStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure <repo>",
		Short: "Show directories, key files and detected tech stack",
		Args:  cobra.ExactArgs(1),
		RunE: repoRunE("Crawling", func(cmd *cobra.Command, c *crawl.Crawler, repo string, _ []string) string {
			return c.Structure(cmd.Context(), repo, intFlag(cmd, "depth"))
		}),
	}
	cmd.Flags().Int("depth", crawl.DefaultDepth, "Max depth to crawl")
	return cmd
}

func newRepoReadmeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readme <repo>",
		Short: "Show the README",
		Args:  cobra.ExactArgs(1),
		RunE: repoRunE("Fetching README of", func(cmd *cobra.Command, c *crawl.Crawler, repo string, _ []string) string {
			return c.Readme(cmd.Context(), repo, intFlag(cmd, "max-length"))
		}),
	}
	cmd.Flags().Int("max-length", crawl.DefaultReadmeLength, "Max characters to print")
	return cmd
}

func newRepoFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <repo> <path>",
		Short: "Show one file",
		Args:  cobra.ExactArgs(2),
		RunE: repoRunE("Fetching file from", func(cmd *cobra.Command, c *crawl.Crawler, repo string, rest []string) string {
			return c.File(cmd.Context(), repo, rest[0], intFlag(cmd, "max-length"))
		}),
	}
	cmd.Flags().Int("max-length", crawl.DefaultFileLength, "Max characters to print")
	return cmd
}

func newRepoTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <repo> [path]",
		Short: "Show the directory tree under a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: repoRunE("Walking", func(cmd *cobra.Command, c *crawl.Crawler, repo string, rest []string) string {
			path := ""
			if len(rest) > 0 {
				path = rest[0]
			}
			return c.Tree(cmd.Context(), repo, path, intFlag(cmd, "depth"))
		}),
	}
	cmd.Flags().Int("depth", crawl.DefaultTreeDepth, "Max depth")
	return cmd
}

func newRepoSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <repo> <query>",
		Short: "Search code in the repository",
		Args:  cobra.ExactArgs(2),
		RunE: repoRunE("Searching", func(cmd *cobra.Command, c *crawl.Crawler, repo string, rest []string) string {
			return c.Search(cmd.Context(), repo, rest[0], intFlag(cmd, "max-results"))
		}),
	}
	cmd.Flags().Int("max-results", crawl.DefaultSearchResults, "Max results")
	return cmd
}

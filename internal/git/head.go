package git

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Opener opens the repository containing a directory. Tests substitute
// repositories backed by memory storage.
type Opener interface {
	Open(dir string) (Repository, error)
}

// Repository is the part of a go-git repository warden reads.
type Repository interface {
	Head() (*plumbing.Reference, error)
}

// DefaultOpener opens repositories on disk. It walks up from dir to the
// enclosing .git, so session directories below the root resolve too.
type DefaultOpener struct{}

// Open implements Opener.
func (DefaultOpener) Open(dir string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return repo, nil
}

// Head is where HEAD points. Branch is "detached" when HEAD is not a branch.
type Head struct {
	Branch string
	SHA    string
}

// ShortSHA returns the first seven characters of the commit hash.
func (h Head) ShortSHA() string {
	if len(h.SHA) > 7 {
		return h.SHA[:7]
	}
	return h.SHA
}

// String renders "branch (sha)".
func (h Head) String() string {
	return fmt.Sprintf("%s (%s)", h.Branch, h.ShortSHA())
}

// ReadHead resolves HEAD of the repository containing dir.
func ReadHead(opener Opener, dir string) (Head, error) {
	repo, err := opener.Open(dir)
	if err != nil {
		return Head{}, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return Head{}, fmt.Errorf("reading HEAD: %w", err)
	}

	head := Head{Branch: "detached", SHA: ref.Hash().String()}
	if ref.Name().IsBranch() {
		head.Branch = ref.Name().Short()
	}
	return head, nil
}

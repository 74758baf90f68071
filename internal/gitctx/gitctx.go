// Package gitctx works out which repository and branch the working directory
// belongs to.
package gitctx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")
	ErrNoOriginRemote   = errors.New("No remote repo with name `origin` found.")
)

// Identity is the GitHub repository and branch of a work tree.
type Identity struct {
	Org    string
	Repo   string
	Branch string
}

// Repository renders the identity the way the resolver expects it:
// "repo/branch".
func (id Identity) Repository() string {
	return id.Repo + "/" + id.Branch
}

// Current inspects the work tree containing dir.
func Current(dir string) (*Identity, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotGitRepository
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil, ErrNoOriginRemote
		}
		return nil, fmt.Errorf("failed to read remotes: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return nil, ErrNoOriginRemote
	}

	org, name, err := ParseRemoteURL(urls[0])
	if err != nil {
		return nil, err
	}

	branch, err := currentBranch(repo)
	if err != nil {
		return nil, err
	}

	return &Identity{Org: org, Repo: name, Branch: branch}, nil
}

// currentBranch mirrors `git rev-parse --abbrev-ref HEAD`: the short branch
// name, including for a branch without commits, or "HEAD" when detached.
func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return "HEAD", nil
}

// ParseRemoteURL extracts owner and repository name from a git remote URL.
// Handles:
//   - git@github.com:owner/repo.git
//   - git@github:owner/repo
//   - ssh://git@github.com/owner/repo.git
//   - https://github.com/owner/repo
func ParseRemoteURL(raw string) (owner, name string, err error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	// scp-like syntax separates host and path with a colon.
	s = strings.ReplaceAll(s, ":", "/")

	parts := strings.Split(s, "/")
	var segments []string
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) < 3 {
		return "", "", fmt.Errorf("could not parse repository from remote %q", raw)
	}
	return segments[len(segments)-2], segments[len(segments)-1], nil
}

// Package git stamps journal entries with the branch and commit of the
// repository the timer was started from.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/pomo/internal/ports"
)

const shortHashLen = 7

// Detector reads git context with go-git, without shelling out.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository containing workingDir, searching parent
// directories. An empty workingDir means the process working directory.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := openRepository(workingDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	return &ports.GitInfo{
		Branch:     branchName(head),
		Commit:     ShortCommit(head.Hash().String()),
		Repository: remoteRepository(repo),
	}, nil
}

func openRepository(dir string) (*git.Repository, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	return repo, nil
}

func branchName(head *plumbing.Reference) string {
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return "HEAD detached"
}

// remoteRepository names the repository after its origin remote, or the first
// remote when there is no origin. It is empty for local-only repositories.
func remoteRepository(repo *git.Repository) string {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if errors.Is(err, git.ErrRemoteNotFound) {
		remotes, listErr := repo.Remotes()
		if listErr != nil || len(remotes) == 0 {
			return ""
		}
		remote = remotes[0]
	} else if err != nil {
		return ""
	}

	if urls := remote.Config().URLs; len(urls) > 0 {
		return repoNameFromURL(urls[0])
	}
	return ""
}

// repoNameFromURL reduces a remote URL to owner/repo.
func repoNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")

	// scp-like: git@github.com:owner/repo
	if !strings.Contains(url, "://") {
		if _, path, ok := strings.Cut(url, ":"); ok {
			return path
		}
		return url
	}

	parts := strings.Split(url, "/")
	if len(parts) < 5 {
		return parts[len(parts)-1]
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// ShortCommit abbreviates a commit hash to seven characters.
func ShortCommit(commit string) string {
	if len(commit) > shortHashLen {
		return commit[:shortHashLen]
	}
	return commit
}

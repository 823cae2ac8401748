package git

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

var repoFormatRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// DetectRepository detects the GitHub repository from the origin remote of
// the git repository enclosing the current directory.
// Returns the repository in owner/repo format.
func DetectRepository() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return DetectRepositoryAt(cwd)
}

// DetectRepositoryAt is DetectRepository starting from dir
func DetectRepositoryAt(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("not in a git repository")
		}
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("no origin remote found in git config")
		}
		return "", fmt.Errorf("failed to read origin remote: %w", err)
	}

	for _, url := range remote.Config().URLs {
		if repo := extractRepoFromURL(url); repo != "" {
			return repo, nil
		}
	}

	return "", fmt.Errorf("failed to extract owner/repo from origin URLs: %s", strings.Join(remote.Config().URLs, ", "))
}

// RepositoryRoot returns the worktree root of the git repository enclosing the current directory
func RepositoryRoot() (string, error) {
	repo, err := gogit.PlainOpenWithOptions(".", &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	return wt.Filesystem.Root(), nil
}

// extractRepoFromURL converts various GitHub URL formats to owner/repo format
// Handles:
//   - https://github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
//   - ssh://git@github.com/owner/repo(.git)
func extractRepoFromURL(url string) string {
	var repo string

	switch {
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "ssh://"):
		idx := strings.Index(url, "github.com/")
		if idx == -1 {
			return ""
		}
		repo = url[idx+len("github.com/"):]
	default:
		after, ok := strings.CutPrefix(url, "git@github.com:")
		if !ok {
			return ""
		}
		repo = after
	}

	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")
	if isValidRepoFormat(repo) {
		return repo
	}

	return ""
}

// isValidRepoFormat checks if string is in owner/repo format
func isValidRepoFormat(repo string) bool {
	return repoFormatRegex.MatchString(repo)
}

package git

import (
	"fmt"
	"strings"
)

// ValidateRepositoryFormat validates that a repository string is in the correct owner/repo format
func ValidateRepositoryFormat(repo string) error {
	if !isValidRepoFormat(repo) {
		return fmt.Errorf("invalid repository format: %q - expected format: owner/repo", repo)
	}

	return nil
}

// SplitRepository validates repo and returns its owner and name
func SplitRepository(repo string) (Repository, error) {
	if err := ValidateRepositoryFormat(repo); err != nil {
		return Repository{}, err
	}

	owner, name, _ := strings.Cut(repo, "/")
	return Repository{Owner: owner, Name: name}, nil
}

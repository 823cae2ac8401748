package git

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/cli/go-gh/v2/pkg/repository"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
)

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

// FullName returns owner/name
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Locator resolves which repository to watch. Sources are tried in order:
// explicit arguments, the configured repository, gh's own resolution
// (GH_REPO and git remotes), the origin remote, then the interactive prompt.
type Locator struct {
	Configured string
	Logger     *log.Logger

	// Prompt is asked last; nil disables prompting
	Prompt func() (string, error)

	ghCurrent func() (repository.Repository, error)
	detect    func() (string, error)
}

// NewLocator creates a locator using gh and the local git repository
func NewLocator(configured string) *Locator {
	return &Locator{
		Configured: configured,
		Logger:     log.Default(),
		ghCurrent:  repository.Current,
		detect:     DetectRepository,
	}
}

// Locate resolves the repository from args ("owner name" or "owner/name") or the environment
func (l *Locator) Locate(args []string) (Repository, error) {
	switch len(args) {
	case 2:
		return l.validated(args[0]+"/"+args[1], "arguments")
	case 1:
		return l.validated(args[0], "arguments")
	case 0:
	default:
		return Repository{}, &runerr.UsageError{Err: fmt.Errorf("expected at most 2 arguments, got %d", len(args))}
	}

	if l.Configured != "" {
		return l.validated(l.Configured, "configuration")
	}

	if l.ghCurrent != nil {
		if repo, err := l.ghCurrent(); err == nil && repo.Owner != "" && repo.Name != "" {
			l.Logger.Debug("repository resolved by gh", "repo", repo.Owner+"/"+repo.Name, "host", repo.Host)
			return Repository{Owner: repo.Owner, Name: repo.Name}, nil
		} else if err != nil {
			l.Logger.Debug("gh could not resolve repository", "err", err)
		}
	}

	var detectErr error
	if l.detect != nil {
		full, err := l.detect()
		if err == nil {
			return l.validated(full, "origin remote")
		}
		detectErr = err
		l.Logger.Debug("origin remote lookup failed", "err", err)
	}

	if l.Prompt != nil {
		full, err := l.Prompt()
		if err != nil {
			return Repository{}, &runerr.ConfigError{Op: "resolve repository", Err: err}
		}
		return l.validated(full, "prompt")
	}

	cause := errors.New("position 1: owner, position 2: repo name, or be in a git repo")
	if detectErr != nil {
		cause = fmt.Errorf("%w (%v)", cause, detectErr)
	}
	return Repository{}, &runerr.ConfigError{Op: "resolve repository", Err: cause}
}

func (l *Locator) validated(full, source string) (Repository, error) {
	repo, err := SplitRepository(full)
	if err != nil {
		return Repository{}, &runerr.ConfigError{Op: "resolve repository from " + source, Err: err}
	}
	return repo, nil
}

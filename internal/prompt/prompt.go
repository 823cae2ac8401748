// Package prompt asks the user for missing input when running in a terminal.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/Cloudsky01/gh-runwatch/internal/git"
)

// IsTTY reports whether both stdin and stdout are terminals
func IsTTY() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// IsTerminal reports whether f is a terminal
func IsTerminal(f *os.File) bool {
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AskConfirm shows a yes/no question and stores the answer in value
func AskConfirm(title, description string, value *bool) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	)

	return form.Run()
}

// AskRepository asks for an owner/repo value
func AskRepository() (string, error) {
	var repo string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository").
				Description("No repository could be detected. Which one should be watched?").
				Placeholder("owner/repo").
				Validate(validateRepository).
				Value(&repo),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return strings.TrimSpace(repo), nil
}

func validateRepository(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("repository is required")
	}
	return git.ValidateRepositoryFormat(s)
}

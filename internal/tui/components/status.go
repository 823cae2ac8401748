package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runwatch/internal/tui/theme"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// StatusLine is a spinner followed by the state of the run being polled
type StatusLine struct {
	spinner  spinner.Model
	theme    *theme.Theme
	title    string
	run      *models.WorkflowRun
	attempt  int
	stopping bool
}

func NewStatusLine(t *theme.Theme, title string) StatusLine {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().
		Foreground(t.Colors.Primary).
		Bold(true)

	return StatusLine{
		spinner: s,
		theme:   t,
		title:   title,
	}
}

func (s StatusLine) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Observe records the latest fetched run
func (s *StatusLine) Observe(run models.WorkflowRun, attempt int) {
	s.run = &run
	s.attempt = attempt
}

func (s *StatusLine) SetStopping() {
	s.stopping = true
}

func (s StatusLine) Attempt() int {
	return s.attempt
}

func (s *StatusLine) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s StatusLine) View() string {
	if s.stopping {
		return s.spinner.View() + " " + s.theme.StatusWarning.Render("Stopping...")
	}

	label := s.theme.TextDim.Render(s.title)
	if s.run == nil {
		return s.spinner.View() + " " + label
	}

	icon, style := s.theme.StatusIcon(*s.run)
	detail := fmt.Sprintf("(attempt %d, state: %s)", s.attempt, s.run.Status)
	return s.spinner.View() + " " + label + " " + style.Render(icon+" "+detail)
}

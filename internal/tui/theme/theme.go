// Package theme provides the shared styling of the report and progress views.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// Colors defines the color palette for the application
type Colors struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color

	Text      lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

type Theme struct {
	Colors Colors

	Title     lipgloss.Style
	Label     lipgloss.Style
	Text      lipgloss.Style
	TextDim   lipgloss.Style
	TextMuted lipgloss.Style

	StatusSuccess    lipgloss.Style
	StatusWarning    lipgloss.Style
	StatusError      lipgloss.Style
	StatusInProgress lipgloss.Style

	Icons IconSet
}

type IconSet struct {
	Success    string
	Error      string
	Unknown    string
	InProgress string
	Pending    string
}

// DefaultColors returns the default color palette (dark theme)
func DefaultColors() Colors {
	return Colors{
		Primary: lipgloss.Color("39"),  // Bright blue
		Accent:  lipgloss.Color("141"), // Purple

		Text:      lipgloss.Color("252"),
		TextDim:   lipgloss.Color("245"),
		TextMuted: lipgloss.Color("240"),

		Success: lipgloss.Color("42"),  // Green
		Warning: lipgloss.Color("214"), // Orange/yellow
		Error:   lipgloss.Color("196"), // Red
	}
}

func DefaultIcons() IconSet {
	return IconSet{
		Success:    "✓",
		Error:      "✗",
		Unknown:    "❌",
		InProgress: "⟳",
		Pending:    "○",
	}
}

// Default returns the default theme
func Default() *Theme {
	colors := DefaultColors()

	return &Theme{
		Colors: colors,
		Icons:  DefaultIcons(),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Primary),

		Label: lipgloss.NewStyle().
			Foreground(colors.Accent),

		Text: lipgloss.NewStyle().
			Foreground(colors.Text),

		TextDim: lipgloss.NewStyle().
			Foreground(colors.TextDim),

		TextMuted: lipgloss.NewStyle().
			Foreground(colors.TextMuted),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(colors.Success).
			Bold(true),

		StatusWarning: lipgloss.NewStyle().
			Foreground(colors.Warning),

		StatusError: lipgloss.NewStyle().
			Foreground(colors.Error).
			Bold(true),

		StatusInProgress: lipgloss.NewStyle().
			Foreground(colors.Warning),
	}
}

// StatusIcon returns the icon and style for a run's current state
func (t *Theme) StatusIcon(run models.WorkflowRun) (string, lipgloss.Style) {
	switch run.Status.Kind() {
	case models.StatusKindCompleted:
		if run.Conclusion.IsSuccess() {
			return t.Icons.Success, t.StatusSuccess
		}
		return t.Icons.Error, t.StatusError
	case models.StatusKindActive:
		if run.Status.String() == models.StatusInProgress {
			return t.Icons.InProgress, t.StatusInProgress
		}
		return t.Icons.Pending, t.TextDim
	default:
		return t.Icons.Unknown, t.StatusWarning
	}
}

// ConclusionStyle colors a conclusion: green for success, red for any other
// known conclusion, yellow otherwise
func (t *Theme) ConclusionStyle(c models.Conclusion) lipgloss.Style {
	switch {
	case c.IsSuccess():
		return t.StatusSuccess
	case c.IsKnown():
		return t.StatusError
	default:
		return t.StatusWarning
	}
}

// Package report renders the human readable output of a watch session.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Cloudsky01/gh-runwatch/internal/tui/theme"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const missingRateLimit = "Could not find X-RateLimit-Remaining header in the response."

// FormatHeader is printed once before polling starts
func FormatHeader(owner, name string) string {
	return fmt.Sprintf("Checking the last executed run in git@github.com:%s/%s repository's workflow:", owner, name)
}

// FormatProgress describes one observation of a run
func FormatProgress(run models.WorkflowRun) string {
	return fmt.Sprintf("Workflow: %s | state: %s", run.Name, run.Status)
}

// FormatWarning describes a run that stopped on an unrecognised status
func FormatWarning(run models.WorkflowRun) string {
	return FormatProgress(run) + " | ❌"
}

// FormatResult describes the final run
func FormatResult(run models.WorkflowRun) string {
	return fmt.Sprintf("Workflow conclusion: %s | Time: %ds | DT: %s",
		run.Conclusion, models.Elapsed(run), run.UpdatedAt.Format(time.RFC3339Nano))
}

// FormatRateLimit describes the remaining quota
func FormatRateLimit(snap models.RateLimitSnapshot) string {
	if !snap.Known() {
		return missingRateLimit
	}
	return "API Rate Limit remaining: " + strconv.FormatUint(*snap.Remaining, 10)
}

// FormatRateLimitDetail describes the quota size and reset time, or returns
// "" when neither header was present
func FormatRateLimitDetail(snap models.RateLimitSnapshot) string {
	var detail string
	if snap.Limit != nil {
		detail = "of " + strconv.FormatUint(*snap.Limit, 10)
	}
	if !snap.Reset.IsZero() {
		if detail != "" {
			detail += ", "
		}
		detail += "resets at " + snap.Reset.Format(time.RFC3339)
	}
	return detail
}

// ConfigureColor disables colors when noColor is set or NO_COLOR is in the
// environment. It reports whether colors remain enabled.
func ConfigureColor(noColor bool) bool {
	if noColor || termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	return true
}

// Reporter writes session output. It implements poller.Observer.
type Reporter struct {
	out    io.Writer
	styled bool
	theme  *theme.Theme
}

// New creates a reporter; styled enables lipgloss rendering
func New(out io.Writer, styled bool) *Reporter {
	return &Reporter{out: out, styled: styled, theme: theme.Default()}
}

func (r *Reporter) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Reporter) Header(owner, name string) {
	if !r.styled {
		r.println(FormatHeader(owner, name))
		return
	}
	r.println(r.theme.Title.Render(FormatHeader(owner, name)))
}

func (r *Reporter) Progress(run models.WorkflowRun, attempt int) {
	if !r.styled {
		r.println(FormatProgress(run))
		return
	}

	icon, style := r.theme.StatusIcon(run)
	r.println(fmt.Sprintf("%s %s %s %s",
		style.Render(icon),
		r.theme.Label.Render("Workflow: ")+r.theme.Text.Render(run.Name),
		r.theme.TextMuted.Render("|"),
		r.theme.Label.Render("state: ")+style.Render(run.Status.String()),
	))
}

func (r *Reporter) Warning(run models.WorkflowRun) {
	if !r.styled {
		r.println(FormatWarning(run))
		return
	}
	r.println(r.theme.StatusWarning.Render(FormatWarning(run)))
}

func (r *Reporter) Result(run models.WorkflowRun) {
	if !r.styled {
		r.println(FormatResult(run))
		return
	}

	sep := r.theme.TextMuted.Render(" | ")
	r.println(r.theme.Label.Render("Workflow conclusion: ") +
		r.theme.ConclusionStyle(run.Conclusion).Render(run.Conclusion.String()) +
		sep + r.theme.Label.Render("Time: ") + r.theme.Text.Render(fmt.Sprintf("%ds", models.Elapsed(run))) +
		sep + r.theme.Label.Render("DT: ") + r.theme.TextDim.Render(run.UpdatedAt.Format(time.RFC3339Nano)))
}

func (r *Reporter) RateLimit(snap models.RateLimitSnapshot) {
	if !r.styled {
		r.println(FormatRateLimit(snap))
		return
	}
	if !snap.Known() {
		r.println(r.theme.StatusWarning.Render(missingRateLimit))
		return
	}
	line := r.theme.TextDim.Render(FormatRateLimit(snap))
	if detail := FormatRateLimitDetail(snap); detail != "" {
		line += " " + r.theme.TextMuted.Render("("+detail+")")
	}
	r.println(line)
}

// Note prints a dimmed informational line
func (r *Reporter) Note(msg string) {
	if !r.styled {
		r.println(msg)
		return
	}
	r.println(r.theme.TextDim.Render(msg))
}

// Package tui shows a live progress view while a workflow run is polled.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cloudsky01/gh-runwatch/internal/poller"
	"github.com/Cloudsky01/gh-runwatch/internal/report"
	"github.com/Cloudsky01/gh-runwatch/internal/tui/components"
	"github.com/Cloudsky01/gh-runwatch/internal/tui/theme"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// PollFunc runs a poll session reporting to obs
type PollFunc func(ctx context.Context, obs poller.Observer) (poller.Result, error)

type observationMsg struct {
	run     models.WorkflowRun
	attempt int
	warning bool
}

type pollDoneMsg struct {
	result poller.Result
	err    error
}

// ProgressModel renders a spinner next to the latest observation. Every
// observation is also printed above the spinner so the history stays visible.
type ProgressModel struct {
	status    components.StatusLine
	styled    bool
	last      *observationMsg
	cancel    context.CancelFunc
	cancelled bool
	done      bool
}

func NewProgressModel(title string, styled bool, cancel context.CancelFunc) ProgressModel {
	return ProgressModel{
		status: components.NewStatusLine(theme.Default(), title),
		styled: styled,
		cancel: cancel,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.status.Tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelled && m.cancel != nil {
				m.cancel()
			}
			m.cancelled = true
			m.status.SetStopping()
		}
		return m, nil

	case observationMsg:
		m.last = &msg
		if !msg.warning {
			m.status.Observe(msg.run, msg.attempt)
		}
		return m, tea.Println(m.renderObservation(msg))

	case pollDoneMsg:
		m.done = true
		return m, tea.Quit

	default:
		cmd := m.status.Update(msg)
		return m, cmd
	}
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}
	return m.status.View() + "\n"
}

func (m ProgressModel) renderObservation(o observationMsg) string {
	var buf bytes.Buffer
	r := report.New(&buf, m.styled)
	if o.warning {
		r.Warning(o.run)
	} else {
		r.Progress(o.run, o.attempt)
	}
	return strings.TrimRight(buf.String(), "\n")
}

type programObserver struct {
	program *tea.Program
}

func (o programObserver) Progress(run models.WorkflowRun, attempt int) {
	o.program.Send(observationMsg{run: run, attempt: attempt})
}

func (o programObserver) Warning(run models.WorkflowRun) {
	o.program.Send(observationMsg{run: run, warning: true})
}

// Run executes poll while showing the progress view. Quitting the view
// cancels the poll context; Run always waits for poll to return.
func Run(ctx context.Context, title string, styled bool, poll PollFunc) (poller.Result, error) {
	return run(ctx, title, styled, poll)
}

func run(ctx context.Context, title string, styled bool, poll PollFunc, opts ...tea.ProgramOption) (poller.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewProgressModel(title, styled, cancel), opts...)

	finished := make(chan pollDoneMsg, 1)
	go func() {
		res, err := poll(ctx, programObserver{program: p})
		done := pollDoneMsg{result: res, err: err}
		finished <- done
		p.Send(done)
	}()

	_, runErr := p.Run()
	if runErr != nil {
		cancel()
	}

	done := <-finished
	if done.err == nil && runErr != nil {
		return done.result, fmt.Errorf("progress view failed: %w", runErr)
	}
	return done.result, done.err
}

// Package poller drives a workflow run from first observation to a terminal state.
package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// State is the position of a session in the poll state machine
type State int

const (
	StatePolling State = iota
	StateCompleted
	StateOther
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateOther:
		return "other"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the run itself reached a final state. A
// cancelled session stopped watching a run that may still be active.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateOther
}

// Fetcher returns the newest run of a repository
type Fetcher interface {
	FetchLatestRun(ctx context.Context, owner, name string) (*models.WorkflowRun, error)
}

// Observer receives every observation of a session
type Observer interface {
	Progress(run models.WorkflowRun, attempt int)
	Warning(run models.WorkflowRun)
}

// Options configures a Poller
type Options struct {
	Backoff Backoff

	// MaxAttempts bounds the number of fetches; 0 means unlimited
	MaxAttempts int

	Sleeper Sleeper
	Logger  *log.Logger
}

type Poller struct {
	fetcher     Fetcher
	backoff     Backoff
	maxAttempts int
	sleeper     Sleeper
	logger      *log.Logger

	interval        atomic.Int64
	intervalVersion atomic.Uint64
}

func New(fetcher Fetcher, opts Options) *Poller {
	if opts.Sleeper == nil {
		opts.Sleeper = TimerSleeper{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	p := &Poller{
		fetcher:     fetcher,
		backoff:     opts.Backoff.normalized(),
		maxAttempts: opts.MaxAttempts,
		sleeper:     opts.Sleeper,
		logger:      opts.Logger,
	}
	p.interval.Store(int64(p.backoff.Interval))
	return p
}

// SetInterval changes the base interval. A running session restarts its
// backoff from d at its next wait. Safe to call from any goroutine.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.interval.Store(int64(d))
	p.intervalVersion.Add(1)
}

// Interval returns the current base interval
func (p *Poller) Interval() time.Duration {
	return time.Duration(p.interval.Load())
}

// Session is the mutable state of one Poll call
type Session struct {
	State    State
	Last     *models.WorkflowRun
	Attempts int
	Interval time.Duration
	Waited   time.Duration

	version uint64
}

// Result summarizes a finished session
type Result struct {
	State    State
	Run      *models.WorkflowRun
	Attempts int
	Waited   time.Duration
}

func (s *Session) result() Result {
	return Result{State: s.State, Run: s.Last, Attempts: s.Attempts, Waited: s.Waited}
}

func (s *Session) cancel(reason string, err error) (Result, error) {
	s.State = StateCancelled
	return s.result(), &runerr.CancelledError{Reason: reason, Attempts: s.Attempts, Last: s.Last, Err: err}
}

// Poll fetches the newest run of owner/name until it completes, reports an
// unrecognised status, a fetch fails, or ctx is done. Fetch errors are
// returned as they are without retrying.
func (p *Poller) Poll(ctx context.Context, owner, name string, obs Observer) (Result, error) {
	s := &Session{
		State:    StatePolling,
		Interval: p.Interval(),
		version:  p.intervalVersion.Load(),
	}

	for {
		if err := ctx.Err(); err != nil {
			return s.cancel(cancelReason(err), err)
		}

		s.Attempts++
		p.logger.Debug("fetching latest run", "repo", owner+"/"+name, "attempt", s.Attempts)

		run, err := p.fetcher.FetchLatestRun(ctx, owner, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return s.cancel(cancelReason(ctxErr), err)
			}
			return s.result(), err
		}
		s.Last = run

		switch run.Status.Kind() {
		case models.StatusKindCompleted:
			obs.Progress(*run, s.Attempts)
			s.State = StateCompleted
			return s.result(), nil
		case models.StatusKindUnknown:
			p.logger.Warn("unrecognised workflow status", "status", run.Status.String(), "workflow", run.Name)
			obs.Warning(*run)
			s.State = StateOther
			return s.result(), nil
		}

		obs.Progress(*run, s.Attempts)

		if p.maxAttempts > 0 && s.Attempts >= p.maxAttempts {
			return s.cancel("max attempts reached", nil)
		}

		if v := p.intervalVersion.Load(); v != s.version {
			s.version = v
			s.Interval = p.Interval()
			p.logger.Debug("poll interval changed", "interval", s.Interval)
		}

		wait := s.Interval
		p.logger.Debug("waiting before next attempt", "interval", wait)
		if err := p.sleeper.Sleep(ctx, wait); err != nil {
			return s.cancel(cancelReason(err), err)
		}
		s.Waited += wait
		s.Interval = p.backoff.Next(s.Interval)
	}
}

func cancelReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout reached"
	}
	return "interrupted"
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/github"
	"github.com/Cloudsky01/gh-runwatch/internal/poller"
	"github.com/Cloudsky01/gh-runwatch/internal/report"
	"github.com/Cloudsky01/gh-runwatch/internal/snapshot"
	"github.com/Cloudsky01/gh-runwatch/internal/tui"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

type runPoller interface {
	Poll(ctx context.Context, owner, name string, obs poller.Observer) (poller.Result, error)
}

// watchSession is one invocation: header, poll loop, result, rate limit
type watchSession struct {
	repo          git.Repository
	poller        runPoller
	rateLimit     github.RateLimitChecker
	snapshots     *snapshot.Store
	keepOnFailure bool
	timeout       time.Duration
	reporter      *report.Reporter
	interactive   bool
	styled        bool
	copyURL       bool
	clipboard     func(string) error
	logger        *log.Logger
}

func (s *watchSession) run(ctx context.Context) (err error) {
	scope := s.snapshots.Begin(s.keepOnFailure)
	defer func() {
		retained, closeErr := scope.Close(err)
		if closeErr != nil {
			s.logger.Warn("could not remove snapshot", "err", closeErr)
		}
		if retained {
			s.reporter.Note("Last API response kept at " + s.snapshots.Path())
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.reporter.Header(s.repo.Owner, s.repo.Name)

	res, err := s.poll(ctx)
	if err != nil {
		return err
	}

	if res.State == poller.StateCompleted && res.Run != nil {
		s.reporter.Result(*res.Run)
		s.copyRunURL(*res.Run)
	}

	if res.State.Terminal() {
		s.reporter.RateLimit(s.rateLimit.CheckRateLimit(ctx))
	}

	return nil
}

func (s *watchSession) poll(ctx context.Context) (poller.Result, error) {
	if !s.interactive {
		return s.poller.Poll(ctx, s.repo.Owner, s.repo.Name, s.reporter)
	}

	title := fmt.Sprintf("Watching %s", s.repo.FullName())
	return tui.Run(ctx, title, s.styled, func(ctx context.Context, obs poller.Observer) (poller.Result, error) {
		return s.poller.Poll(ctx, s.repo.Owner, s.repo.Name, obs)
	})
}

func (s *watchSession) copyRunURL(run models.WorkflowRun) {
	if !s.copyURL || s.clipboard == nil {
		return
	}
	if run.HTMLURL == "" {
		s.logger.Warn("run has no URL to copy")
		return
	}
	if err := s.clipboard(run.HTMLURL); err != nil {
		s.logger.Warn("could not copy run URL", "err", err)
		return
	}
	s.reporter.Note("Copied " + run.HTMLURL + " to the clipboard")
}

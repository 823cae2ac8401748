package poller

import (
	"context"
	"time"
)

const (
	DefaultInterval    = 20 * time.Second
	DefaultMultiplier  = 1.0
	DefaultMaxInterval = 5 * time.Minute
)

// Backoff computes the wait between attempts. With a multiplier of 1 the
// wait is constant.
type Backoff struct {
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
}

// DefaultBackoff polls every 20 seconds
func DefaultBackoff() Backoff {
	return Backoff{
		Interval:    DefaultInterval,
		Multiplier:  DefaultMultiplier,
		MaxInterval: DefaultMaxInterval,
	}
}

func (b Backoff) normalized() Backoff {
	if b.Interval <= 0 {
		b.Interval = DefaultInterval
	}
	if b.Multiplier < 1 {
		b.Multiplier = DefaultMultiplier
	}
	if b.MaxInterval <= 0 {
		b.MaxInterval = DefaultMaxInterval
	}
	if b.MaxInterval < b.Interval {
		b.MaxInterval = b.Interval
	}
	return b
}

// Next returns the wait that follows current
func (b Backoff) Next(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * b.Multiplier)
	if next > b.MaxInterval {
		next = max(b.MaxInterval, current)
	}
	return next
}

// Sleeper waits for d or until ctx is done
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper sleeps on a real timer
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

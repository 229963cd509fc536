package job

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle spaces out fetches. Wait returns ctx.Err() when cancelled.
type Throttle interface {
	Wait(ctx context.Context) error
}

// ThrottleFactory builds the throttle for one run from its interval and worker count.
type ThrottleFactory func(interval time.Duration, concurrency int) Throttle

// NewThrottle picks a TimerThrottle for sequential runs and a RateThrottle for worker pools.
func NewThrottle(interval time.Duration, concurrency int) Throttle {
	if concurrency > 1 {
		return NewRateThrottle(interval)
	}
	return NewTimerThrottle(interval)
}

// TimerThrottle sleeps a fixed interval on every Wait.
type TimerThrottle struct {
	interval time.Duration
}

func NewTimerThrottle(interval time.Duration) *TimerThrottle {
	return &TimerThrottle{interval: interval}
}

func (t *TimerThrottle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.interval <= 0 {
		return nil
	}

	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RateThrottle guarantees a minimum spacing between successive Wait returns,
// measured from the previous return rather than from when the caller finished its work.
type RateThrottle struct {
	limiter *rate.Limiter
}

// NewRateThrottle creates a throttle whose first Wait already waits a full interval.
func NewRateThrottle(interval time.Duration) *RateThrottle {
	if interval <= 0 {
		return &RateThrottle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	// The first dispatch happens without waiting, so the burst token belongs to it.
	limiter.Allow()
	return &RateThrottle{limiter: limiter}
}

func (t *RateThrottle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.limiter.Wait(ctx)
}

package client

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned before a request is sent when the local budget is spent.
var ErrRateLimited = errors.New("too many requests")

// RateLimitError tells the user which window is exhausted and when to retry.
type RateLimitError struct {
	Window     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%v (%s limit), retry in %s", ErrRateLimited, e.Window, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// RateLimiter combines per-minute and per-hour sliding windows with a short
// burst cooldown. Rejected requests are not counted.
type RateLimiter struct {
	PerMinute int
	PerHour   int
	Now       func() time.Time

	burst   *rate.Limiter
	history []time.Time
	mu      sync.Mutex
}

func NewRateLimiter(perMinute, perHour, burst int, cooldown time.Duration) *RateLimiter {
	return &RateLimiter{
		PerMinute: perMinute,
		PerHour:   perHour,
		Now:       time.Now,
		burst:     rate.NewLimiter(rate.Every(cooldown), burst),
	}
}

// DefaultRateLimiter cukup longgar untuk dashboard manager dalam mode push.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(60, 1000, 10, 200*time.Millisecond)
}

func (l *RateLimiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.Now()
	hourAgo := now.Add(-time.Hour)
	minuteAgo := now.Add(-time.Minute)

	kept := l.history[:0]
	for _, t := range l.history {
		if t.After(hourAgo) {
			kept = append(kept, t)
		}
	}
	l.history = kept

	if l.PerHour > 0 && len(l.history) >= l.PerHour {
		return &RateLimitError{Window: "hourly", RetryAfter: l.history[0].Sub(hourAgo)}
	}

	if l.PerMinute > 0 {
		inMinute := 0
		var oldest time.Time
		for _, t := range l.history {
			if t.After(minuteAgo) {
				if inMinute == 0 {
					oldest = t
				}
				inMinute++
			}
		}
		if inMinute >= l.PerMinute {
			return &RateLimitError{Window: "per-minute", RetryAfter: oldest.Sub(minuteAgo)}
		}
	}

	if l.burst != nil {
		r := l.burst.ReserveN(now, 1)
		if delay := r.DelayFrom(now); delay > 0 {
			r.CancelAt(now)
			return &RateLimitError{Window: "burst", RetryAfter: delay}
		}
	}

	l.history = append(l.history, now)
	return nil
}

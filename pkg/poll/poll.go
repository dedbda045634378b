// Package poll provides the single sleep-then-recheck primitive used by
// every bounded wait in the publish flow. The target UI is an uncontrolled
// third party, so all waits are blocking polls with an explicit interval
// and ceiling rather than event-driven callbacks.
package poll

import (
	"context"
	"time"
)

// Outcome is the result of a bounded poll.
type Outcome int

const (
	// Done means the predicate was satisfied before the deadline.
	Done Outcome = iota

	// TimedOut means the deadline elapsed with the predicate unsatisfied.
	TimedOut

	// Canceled means the context was canceled during the wait.
	Canceled
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case TimedOut:
		return "timed-out"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Until evaluates fn every interval until it returns true, the deadline
// elapses, or ctx is canceled. fn is evaluated once immediately before the
// first sleep. Errors from fn are treated as "not yet": reads against a
// live page can fail transiently and must not abort the wait.
func Until(ctx context.Context, interval, deadline time.Duration, fn func() (bool, error)) Outcome {
	if ok, err := fn(); err == nil && ok {
		return Done
	}

	timeout := time.After(deadline)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Canceled
		case <-timeout:
			return TimedOut
		case <-ticker.C:
			if ok, err := fn(); err == nil && ok {
				return Done
			}
		}
	}
}

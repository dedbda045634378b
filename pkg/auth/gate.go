// Package auth detects and waits out login gates. Authentication is
// inferred structurally from the live page, either a login-path URL or a
// login-prompt element, never from credentials. Logging in is always a
// human action in the browser window; this package only notices when it
// has happened.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"

	"github.com/entrhq/crosspost/pkg/poll"
	"github.com/entrhq/crosspost/pkg/web"
)

// Status is the gate's verdict.
type Status int

const (
	// Authenticated means no login marker is present.
	Authenticated Status = iota

	// TimedOut means a login marker was still present when the timeout
	// elapsed. Not fatal: later steps fail fast against unauthenticated
	// UI, or a human completes login around the block.
	TimedOut
)

// String returns a human-readable status name.
func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "timed-out"
}

// DefaultTimeout bounds how long the gate blocks waiting for a human to
// complete login.
const DefaultTimeout = 120 * time.Second

// DefaultInterval is the poll interval while a login marker is present.
const DefaultInterval = 2 * time.Second

// Gate polls the current page state for login markers.
type Gate struct {
	urlMarkers []glob.Glob
	prompt     string
	interval   time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithInterval overrides the poll interval. Used by tests.
func WithInterval(d time.Duration) Option {
	return func(g *Gate) { g.interval = d }
}

// NewGate compiles the URL marker patterns and builds a gate. urlPatterns
// are glob patterns matched against the full page URL (e.g. "*/login*");
// promptSelector, when non-empty, is a selector whose presence on the page
// marks an in-page login prompt (e.g. a QR-login element).
func NewGate(urlPatterns []string, promptSelector string, opts ...Option) (*Gate, error) {
	g := &Gate{prompt: promptSelector, interval: DefaultInterval}
	for _, pattern := range urlPatterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid login URL pattern %q: %w", pattern, err)
		}
		g.urlMarkers = append(g.urlMarkers, compiled)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// LoginVisible reports whether any login marker is currently present.
func (g *Gate) LoginVisible(page web.Page) bool {
	url := page.URL()
	for _, m := range g.urlMarkers {
		if m.Match(url) {
			return true
		}
	}

	if g.prompt != "" {
		if n, err := page.Locator(g.prompt).Count(); err == nil && n > 0 {
			return true
		}
	}

	return false
}

// Wait blocks until no login marker is present or the timeout elapses.
// Cancellation is reported as TimedOut; the flow treats both the same way.
func (g *Gate) Wait(ctx context.Context, page web.Page, timeout time.Duration) Status {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	out := poll.Until(ctx, g.interval, timeout, func() (bool, error) {
		return !g.LoginVisible(page), nil
	})

	if out == poll.Done {
		return Authenticated
	}
	return TimedOut
}

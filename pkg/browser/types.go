// Package browser owns the Chrome instance: probing for an already-running
// control port, launching a detached browser when none is listening, and
// attaching Playwright over CDP with a persistent-context fallback. The
// browser holds real login sessions, so nothing in this package ever closes
// it on a failed publish.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/crosspost/pkg/web"
)

// Mode records who owns the browser process.
type Mode int

const (
	// ModeDetached means the browser runs (or ran before us) outside our
	// process tree and survives our exit.
	ModeDetached Mode = iota

	// ModeManaged means Playwright launched the browser inside our
	// process tree; it dies with us, so the session is held open until
	// the operator interrupts.
	ModeManaged
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case ModeDetached:
		return "detached"
	case ModeManaged:
		return "managed"
	default:
		return "unknown"
	}
}

// Endpoint describes the browser to attach to.
type Endpoint struct {
	Port       int
	ProfileDir string
}

// URL returns the CDP endpoint URL.
func (e Endpoint) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", e.Port)
}

// Session is an attached browser with one page ready for automation.
type Session struct {
	Mode Mode

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Page returns the session's page behind the automation interface.
func (s *Session) Page() web.Page {
	return &pwPage{page: s.page}
}

// Release detaches from the browser without closing it. The Playwright
// driver connection is torn down; the browser process, its page, and its
// login state are left exactly as they are.
func (s *Session) Release() {
	if s.pw != nil {
		s.pw.Stop()
		s.pw = nil
	}
}

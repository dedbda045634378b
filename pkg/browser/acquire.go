package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Acquire attaches Playwright to the endpoint and returns a session with
// one page ready. Attach over CDP is preferred; when no control port is
// live the fallback is a Playwright-managed persistent context against the
// same profile directory, which keeps login state across runs at the cost
// of the browser dying with the process.
func Acquire(endpoint Endpoint, outcome Outcome) (*Session, error) {
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright driver: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright driver: %w", err)
	}

	if outcome != Unavailable {
		session, err := attach(pw, endpoint)
		if err != nil {
			pw.Stop()
			return nil, err
		}
		return session, nil
	}

	session, err := launchManaged(pw, endpoint.ProfileDir)
	if err != nil {
		pw.Stop()
		return nil, err
	}
	return session, nil
}

// attach connects over CDP and reuses the browser's existing context and
// page where possible.
func attach(pw *playwright.Playwright, endpoint Endpoint) (*Session, error) {
	browser, err := pw.Chromium.ConnectOverCDP(endpoint.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to attach to browser on port %d: %w", endpoint.Port, err)
	}

	var context playwright.BrowserContext
	if contexts := browser.Contexts(); len(contexts) > 0 {
		context = contexts[0]
	} else {
		context, err = browser.NewContext()
		if err != nil {
			return nil, fmt.Errorf("failed to create browser context: %w", err)
		}
	}

	page, err := context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		Mode:    ModeDetached,
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
	}, nil
}

// launchManaged starts a headed persistent-context browser owned by
// Playwright.
func launchManaged(pw *playwright.Playwright, profileDir string) (*Session, error) {
	context, err := pw.Chromium.LaunchPersistentContext(profileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(false),
		Args: []string{
			"--no-first-run",
			"--no-default-browser-check",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
	}

	return &Session{
		Mode:    ModeManaged,
		pw:      pw,
		context: context,
		page:    page,
	}, nil
}

package browser

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/entrhq/crosspost/pkg/poll"
)

const (
	probeTimeout   = 500 * time.Millisecond
	readyInterval  = 500 * time.Millisecond
	readyCeiling   = 15 * time.Second
	launchAttempts = 2
)

// Outcome records how an endpoint was obtained.
type Outcome int

const (
	// AlreadyListening means a browser was already serving the control
	// port; we attach to it and never own its lifecycle.
	AlreadyListening Outcome = iota

	// Launched means we started a detached browser on the port.
	Launched

	// Unavailable means no browser is listening and launch failed; the
	// caller falls back to a Playwright-managed browser.
	Unavailable
)

// String returns the outcome's name.
func (o Outcome) String() string {
	switch o {
	case AlreadyListening:
		return "already-listening"
	case Launched:
		return "launched"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Probe reports whether something is accepting connections on the port.
// A positive probe is treated as a live control port: the only process
// expected there is a browser we or the operator started earlier.
func Probe(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// findBrowserBinary locates a Chrome or Chromium binary.
func findBrowserBinary() (string, error) {
	candidates := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"google-chrome",
		"google-chrome-stable",
		"chromium",
		"chromium-browser",
	}
	for _, c := range candidates {
		if filepath.IsAbs(c) {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
			continue
		}
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no Chrome or Chromium binary found")
}

// freePort asks the kernel for an unused TCP port.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port, nil
}

// launchArgs builds the Chrome command line for a detached, operator-visible
// instance serving the control port against a dedicated profile.
func launchArgs(port int, profileDir string) []string {
	return []string{
		fmt.Sprintf("--remote-debugging-port=%d", port),
		fmt.Sprintf("--user-data-dir=%s", profileDir),
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-features=ChromeWhatsNewUI",
		"--disable-background-networking",
		"about:blank",
	}
}

// launchDetached starts Chrome outside our process tree and waits for the
// control port to come up. The process survives our exit: login sessions
// accumulated in it stay warm across runs.
func launchDetached(ctx context.Context, binary string, port int, profileDir string) error {
	cmd := exec.Command(binary, launchArgs(port, profileDir)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	pid := cmd.Process.Pid

	// Reap in the background so a crashed child never lingers as a zombie.
	go cmd.Wait()

	out := poll.Until(ctx, readyInterval, readyCeiling, func() (bool, error) {
		return Probe(port), nil
	})
	if out != poll.Done {
		return fmt.Errorf("browser (pid %d) never opened port %d", pid, port)
	}
	return nil
}

// Ensure makes sure a browser is serving a control port: attach if one
// already is, launch a detached one if not, and retry once on a free port
// when the preferred port cannot be bound. An Unavailable outcome is not
// an error; the caller falls back to a managed browser.
func Ensure(ctx context.Context, port int, profileDir string) (Endpoint, Outcome) {
	if Probe(port) {
		return Endpoint{Port: port, ProfileDir: profileDir}, AlreadyListening
	}

	binary, err := findBrowserBinary()
	if err != nil {
		return Endpoint{ProfileDir: profileDir}, Unavailable
	}

	for attempt := 0; attempt < launchAttempts; attempt++ {
		if attempt > 0 {
			p, err := freePort()
			if err != nil {
				break
			}
			port = p
		}
		if err := launchDetached(ctx, binary, port, profileDir); err == nil {
			return Endpoint{Port: port, ProfileDir: profileDir}, Launched
		}
	}

	return Endpoint{ProfileDir: profileDir}, Unavailable
}

package browser

import (
	"context"
	"time"

	"github.com/entrhq/crosspost/pkg/progress"
)

const heartbeatInterval = 30 * time.Second

// HoldOpen applies the exit policy for the session's mode. A detached
// browser outlives us, so we release the driver connection and return. A
// managed browser dies with the process, so we block with a periodic
// heartbeat until the operator interrupts, then release.
func HoldOpen(ctx context.Context, session *Session, reporter *progress.Reporter) {
	if session.Mode == ModeDetached {
		reporter.Info("browser stays open; it is safe to exit")
		session.Release()
		return
	}

	reporter.Info("browser closes when this program exits; press Ctrl-C when finished")

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			session.Release()
			return
		case <-ticker.C:
			reporter.Info("still holding the browser open; press Ctrl-C when finished")
		}
	}
}

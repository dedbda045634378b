package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/crosspost/pkg/progress"
)

func TestHoldOpenDetachedReturnsImmediately(t *testing.T) {
	session := &Session{Mode: ModeDetached}

	start := time.Now()
	HoldOpen(context.Background(), session, progress.Discard())

	assert.Less(t, time.Since(start), time.Second)
}

func TestHoldOpenManagedBlocksUntilCanceled(t *testing.T) {
	session := &Session{Mode: ModeManaged}
	ctx, cancel := context.WithCancel(context.Background())

	delay := 50 * time.Millisecond
	go func() {
		time.Sleep(delay)
		cancel()
	}()

	start := time.Now()
	HoldOpen(ctx, session, progress.Discard())
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, delay)
	assert.Less(t, elapsed, 5*time.Second)
}

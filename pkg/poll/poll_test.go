package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntilImmediateSuccess(t *testing.T) {
	calls := 0
	out := Until(context.Background(), time.Millisecond, 100*time.Millisecond, func() (bool, error) {
		calls++
		return true, nil
	})

	assert.Equal(t, Done, out)
	assert.Equal(t, 1, calls, "predicate should not be re-evaluated after success")
}

func TestUntilEventualSuccess(t *testing.T) {
	calls := 0
	out := Until(context.Background(), time.Millisecond, time.Second, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})

	assert.Equal(t, Done, out)
	assert.Equal(t, 3, calls)
}

func TestUntilTimeout(t *testing.T) {
	out := Until(context.Background(), time.Millisecond, 20*time.Millisecond, func() (bool, error) {
		return false, nil
	})

	assert.Equal(t, TimedOut, out)
}

func TestUntilErrorsAreNotYet(t *testing.T) {
	// An fn that errors while reporting true must not count as success.
	out := Until(context.Background(), time.Millisecond, 20*time.Millisecond, func() (bool, error) {
		return true, errors.New("page closed")
	})

	assert.Equal(t, TimedOut, out)
}

func TestUntilCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out := Until(ctx, time.Millisecond, 10*time.Second, func() (bool, error) {
		return false, nil
	})

	assert.Equal(t, Canceled, out)
	assert.Less(t, time.Since(start), time.Second, "cancellation should end the wait before the deadline")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "timed-out", TimedOut.String())
	assert.Equal(t, "canceled", Canceled.String())
}

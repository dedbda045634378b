package browser

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port

	assert.True(t, Probe(port))

	l.Close()
	assert.False(t, Probe(port))
}

func TestFreePort(t *testing.T) {
	port, err := freePort()
	require.NoError(t, err)
	assert.Greater(t, port, 0)

	// The port must be bindable after freePort released it.
	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	l.Close()
}

func TestEnsureAttachesToListeningPort(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	start := time.Now()
	endpoint, outcome := Ensure(context.Background(), port, t.TempDir())

	// A live port short-circuits the whole launch path: no binary
	// discovery, no readiness poll.
	assert.Equal(t, AlreadyListening, outcome)
	assert.Equal(t, port, endpoint.Port)
	assert.Less(t, time.Since(start), readyCeiling)
}

func TestLaunchArgs(t *testing.T) {
	args := launchArgs(9222, "/tmp/profile")

	assert.Contains(t, args, "--remote-debugging-port=9222")
	assert.Contains(t, args, "--user-data-dir=/tmp/profile")
	assert.Contains(t, args, "--no-first-run")
	assert.Contains(t, args, "--no-default-browser-check")
	assert.Contains(t, args, "--disable-background-networking")

	// The browser opens on a blank page, never on a platform URL.
	assert.Equal(t, "about:blank", args[len(args)-1])
}

func TestEndpointURL(t *testing.T) {
	e := Endpoint{Port: 9222}
	assert.Equal(t, "http://127.0.0.1:9222", e.URL())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "already-listening", AlreadyListening.String())
	assert.Equal(t, "launched", Launched.String())
	assert.Equal(t, "unavailable", Unavailable.String())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "detached", ModeDetached.String())
	assert.Equal(t, "managed", ModeManaged.String())
}

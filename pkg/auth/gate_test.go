package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/crosspost/pkg/web"
)

// loginPage fakes just enough of web.Page for the gate: a mutable URL and a
// mutable count for the login-prompt selector.
type loginPage struct {
	mu          sync.Mutex
	url         string
	promptCount int
}

func (p *loginPage) setURL(u string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = u
}

func (p *loginPage) setPromptCount(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.promptCount = n
}

func (p *loginPage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *loginPage) Goto(string, web.GotoOptions) error { return nil }
func (p *loginPage) Title() (string, error) { return "", nil }
func (p *loginPage) Content() (string, error) { return "", nil }
func (p *loginPage) WaitForLoadState(string, float64) error { return nil }
func (p *loginPage) GetByRole(string, string) web.Element { return countElement{0} }

func (p *loginPage) Locator(selector string) web.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return countElement{p.promptCount}
}

type countElement struct{ n int }

func (e countElement) Count() (int, error) { return e.n, nil }
func (e countElement) IsVisible() (bool, error) { return e.n > 0, nil }
func (e countElement) First() web.Element { return e }
func (e countElement) Last() web.Element { return e }
func (e countElement) Nth(int) web.Element { return e }
func (e countElement) Click(float64) error { return nil }
func (e countElement) Fill(string, float64) error { return nil }
func (e countElement) SetInputFiles([]string) error { return nil }
func (e countElement) WaitFor(float64) error { return nil }

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	gate, err := NewGate([]string{"*/login*"}, "text=qr-login", WithInterval(time.Millisecond))
	require.NoError(t, err)
	return gate
}

func TestGateAuthenticatedImmediately(t *testing.T) {
	page := &loginPage{url: "https://creator.example.com/publish"}

	status := newTestGate(t).Wait(context.Background(), page, 50*time.Millisecond)
	assert.Equal(t, Authenticated, status)
}

func TestGateTimesOutWhileMarkerPresent(t *testing.T) {
	page := &loginPage{url: "https://creator.example.com/login?redirect=publish"}

	status := newTestGate(t).Wait(context.Background(), page, 30*time.Millisecond)
	assert.Equal(t, TimedOut, status)
}

func TestGateReturnsWhenMarkerDisappears(t *testing.T) {
	page := &loginPage{url: "https://creator.example.com/login"}

	go func() {
		time.Sleep(10 * time.Millisecond)
		page.setURL("https://creator.example.com/publish")
	}()

	status := newTestGate(t).Wait(context.Background(), page, time.Second)
	assert.Equal(t, Authenticated, status)
}

func TestGatePromptMarker(t *testing.T) {
	page := &loginPage{url: "https://creator.example.com/publish", promptCount: 1}
	gate := newTestGate(t)

	assert.True(t, gate.LoginVisible(page), "prompt element should mark the page unauthenticated")

	go func() {
		time.Sleep(10 * time.Millisecond)
		page.setPromptCount(0)
	}()

	status := gate.Wait(context.Background(), page, time.Second)
	assert.Equal(t, Authenticated, status)
}

func TestGateCancellationIsTimeout(t *testing.T) {
	page := &loginPage{url: "https://creator.example.com/login"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status := newTestGate(t).Wait(ctx, page, time.Hour)
	assert.Equal(t, TimedOut, status)
}

func TestNewGateRejectsBadPattern(t *testing.T) {
	_, err := NewGate([]string{"[unterminated"}, "")
	assert.Error(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "timed-out", TimedOut.String())
}

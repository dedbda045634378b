// Package progress emits the human-readable progress lines that are the
// CLI's primary surface. Every flow state transition produces a line, and
// on any failure the final line names the next manual action, since the
// operator finishes in the browser what the flow could not.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Reporter writes styled progress lines to a single writer.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Discard creates a reporter that drops all output. Used by tests.
func Discard() *Reporter {
	return New(io.Discard)
}

// Step announces the start of a flow state.
func (r *Reporter) Step(format string, args ...interface{}) {
	r.emit(stepStyle, "->", format, args...)
}

// OK reports a completed step.
func (r *Reporter) OK(format string, args ...interface{}) {
	r.emit(okStyle, "ok", format, args...)
}

// Warn reports a non-fatal degradation; the flow continues.
func (r *Reporter) Warn(format string, args ...interface{}) {
	r.emit(warnStyle, "!!", format, args...)
}

// Fail reports a fatal outcome. The message must name the next manual
// action required.
func (r *Reporter) Fail(format string, args ...interface{}) {
	r.emit(failStyle, "xx", format, args...)
}

// Info reports context that needs no action.
func (r *Reporter) Info(format string, args ...interface{}) {
	r.emit(infoStyle, "..", format, args...)
}

func (r *Reporter) emit(style lipgloss.Style, prefix, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, style.Render(prefix+" "+fmt.Sprintf(format, args...)))
}

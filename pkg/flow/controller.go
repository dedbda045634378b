package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/crosspost/pkg/auth"
	"github.com/entrhq/crosspost/pkg/locate"
	"github.com/entrhq/crosspost/pkg/logging"
	"github.com/entrhq/crosspost/pkg/poll"
	"github.com/entrhq/crosspost/pkg/progress"
	"github.com/entrhq/crosspost/pkg/web"
)

// State is a node of the publish flow state machine.
type State int

const (
	StateNavigate State = iota
	StateAwaitAuth
	StateSelectMode
	StateUploadMedia
	StateAwaitForm
	StateFillFields
	StateSubmit
	StateDone
	StateAborted
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateNavigate:
		return "navigate"
	case StateAwaitAuth:
		return "await-auth"
	case StateSelectMode:
		return "select-mode"
	case StateUploadMedia:
		return "upload-media"
	case StateAwaitForm:
		return "await-form"
	case StateFillFields:
		return "fill-fields"
	case StateSubmit:
		return "submit"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Per-state outcomes. The transition policy lives in Run, declared once,
// instead of being scattered through catch-and-continue handlers: fatal
// aborts, everything else continues.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeTimeout
	outcomeUnresolved
	outcomeFatal
)

type stepResult struct {
	kind   outcomeKind
	detail string
	err    error
}

func success(detail string) stepResult {
	return stepResult{kind: outcomeSuccess, detail: detail}
}

// ErrAborted marks a run that terminated before Submit completed. The
// browser is left open and populated as far as progress allowed; the
// operator finishes manually.
var ErrAborted = errors.New("publish flow aborted")

// ErrNoInputTarget means neither the primary input nor any editable region
// resolved.
var ErrNoInputTarget = errors.New("no input target found")

// ErrSubmitUnresolved means the submit control never resolved.
var ErrSubmitUnresolved = errors.New("submit control not found")

// Options tune the controller's per-state waits. Zero values take the
// defaults; tests shrink them.
type Options struct {
	// AuthTimeout bounds the login wait. Default 120s.
	AuthTimeout time.Duration

	// AuthPollInterval is the login poll interval. Default 2s.
	AuthPollInterval time.Duration

	// UploadConfirmWait bounds the wait for an upload progress or form
	// readiness marker. Default 10s.
	UploadConfirmWait time.Duration

	// UploadPollInterval is the upload confirmation poll interval.
	// Default 500ms.
	UploadPollInterval time.Duration

	// NetworkIdleGraceMs bounds the non-fatal network quiescence wait
	// after navigation. Default 5000.
	NetworkIdleGraceMs float64

	// ActionTimeoutMs bounds individual clicks and fills. Default 10000.
	ActionTimeoutMs float64
}

func (o *Options) applyDefaults() {
	if o.AuthTimeout == 0 {
		o.AuthTimeout = auth.DefaultTimeout
	}
	if o.AuthPollInterval == 0 {
		o.AuthPollInterval = auth.DefaultInterval
	}
	if o.UploadConfirmWait == 0 {
		o.UploadConfirmWait = 10 * time.Second
	}
	if o.UploadPollInterval == 0 {
		o.UploadPollInterval = 500 * time.Millisecond
	}
	if o.NetworkIdleGraceMs == 0 {
		o.NetworkIdleGraceMs = 5000
	}
	if o.ActionTimeoutMs == 0 {
		o.ActionTimeoutMs = 10000
	}
}

// Controller sequences the publish flow against one page.
type Controller struct {
	page     web.Page
	platform Platform
	gate     *auth.Gate
	reporter *progress.Reporter
	logger   *logging.Logger
	opts     Options

	// primary is the input resolved by AwaitForm, carried into
	// FillFields. primaryIsTitle distinguishes a title field from a
	// composer/body target.
	primary        web.Element
	primaryIsTitle bool
}

// New builds a controller for one run.
func New(page web.Page, platform Platform, reporter *progress.Reporter, opts Options) (*Controller, error) {
	opts.applyDefaults()

	gate, err := auth.NewGate(
		platform.Markers.LoginURLGlobs,
		platform.Markers.LoginPrompt,
		auth.WithInterval(opts.AuthPollInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid %s login markers: %w", platform.Name, err)
	}

	logger, _ := logging.NewLogger("flow") // fallback logger on error

	return &Controller{
		page:     page,
		platform: platform,
		gate:     gate,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}, nil
}

// Close releases the controller's log file handle. Safe to call more than
// once.
func (c *Controller) Close() error {
	return c.logger.Close()
}

// Run executes the state machine. The returned diagnostics are always
// non-nil; the error is non-nil only for a fatal abort, and even then the
// browser is never closed.
func (c *Controller) Run(ctx context.Context, req Request) (*Diagnostics, error) {
	diag := newDiagnostics(logging.GetRunID())

	steps := []struct {
		state State
		fn    func(context.Context, Request) stepResult
	}{
		{StateNavigate, c.navigate},
		{StateAwaitAuth, c.awaitAuth},
		{StateSelectMode, c.selectMode},
		{StateUploadMedia, c.uploadMedia},
		{StateAwaitForm, c.awaitForm},
		{StateFillFields, c.fillFields},
		{StateSubmit, c.submit},
	}

	for _, step := range steps {
		start := time.Now()
		res := step.fn(ctx, req)
		diag.record(step.state, time.Since(start), res.detail)
		c.logger.Infof("state %s: %s", step.state, res.detail)

		if res.kind == outcomeFatal {
			diag.Terminal = StateAborted
			c.logger.Errorf("aborted in state %s: %v", step.state, res.err)
			return diag, fmt.Errorf("%w in state %s: %v", ErrAborted, step.state, res.err)
		}
	}

	diag.Terminal = StateDone
	c.reporter.OK("all steps finished; confirm the post in the browser window")
	return diag, nil
}

// navigate opens the publish entry URL. DOM readiness is required; network
// quiescence gets a short, non-fatal grace wait.
func (c *Controller) navigate(ctx context.Context, _ Request) stepResult {
	c.reporter.Step("opening %s", c.platform.EntryURL)

	if err := c.page.Goto(c.platform.EntryURL, web.GotoOptions{WaitUntil: "domcontentloaded"}); err != nil {
		c.reporter.Fail("could not open the publish page; check the browser window and rerun")
		return stepResult{kind: outcomeFatal, detail: "navigation failed", err: err}
	}

	if err := c.page.WaitForLoadState("networkidle", c.opts.NetworkIdleGraceMs); err != nil {
		c.reporter.Warn("page still loading in the background, continuing")
	}

	if title, err := c.page.Title(); err == nil && title != "" {
		c.reporter.Info("page title: %s", title)
	}

	return success("opened " + c.platform.EntryURL)
}

// awaitAuth delegates to the authentication gate and proceeds regardless
// of outcome. Login is always a human, in-browser action.
func (c *Controller) awaitAuth(ctx context.Context, _ Request) stepResult {
	c.reporter.Step("checking login state")

	if !c.gate.LoginVisible(c.page) {
		return success("already authenticated")
	}

	c.reporter.Warn("login required: complete login in the browser window, the flow resumes automatically")

	if c.gate.Wait(ctx, c.page, c.opts.AuthTimeout) == auth.TimedOut {
		c.reporter.Warn("login wait gave up after %s; continuing best-effort", c.opts.AuthTimeout)
		return stepResult{kind: outcomeTimeout, detail: "login wait timed out"}
	}

	c.reporter.OK("login detected")
	return success("authenticated after wait")
}

// selectMode ensures the UI is in image/text publishing mode. Detection is
// by URL fragment or page content; the fix is direct navigation to the
// mode-qualified URL, with a redundant tab click as backup. Verification
// failure is non-fatal: later steps fail visibly if the mode never changed.
func (c *Controller) selectMode(ctx context.Context, _ Request) stepResult {
	if c.platform.ModeSwitchURL == "" {
		return success("not applicable")
	}

	c.reporter.Step("ensuring image/text publishing mode")

	wrongMode := false
	if m := c.platform.Markers.VideoModeURL; m != "" && strings.Contains(c.page.URL(), m) {
		wrongMode = true
	}
	if !wrongMode && c.platform.Markers.VideoModeText != "" {
		if content, err := c.page.Content(); err == nil && strings.Contains(content, c.platform.Markers.VideoModeText) {
			wrongMode = true
		}
	}

	if wrongMode {
		if err := c.page.Goto(c.platform.ModeSwitchURL, web.GotoOptions{WaitUntil: "domcontentloaded"}); err != nil {
			c.reporter.Warn("mode-switch navigation failed: %v", err)
		}
		_ = c.page.WaitForLoadState("networkidle", 2000)
	}

	if len(c.platform.ModeTab.Candidates) > 0 {
		if res := locate.Resolve(ctx, c.page, c.platform.ModeTab); res.Result == locate.Resolved {
			if err := res.Element.Click(c.opts.ActionTimeoutMs); err != nil {
				c.reporter.Warn("mode tab click failed: %v", err)
			}
		}
	}

	if m := c.platform.Markers.ImageModeReady; m != "" {
		if n, err := c.page.Locator(m).Count(); err == nil && n > 0 {
			c.reporter.OK("image/text mode confirmed")
			return success("mode verified")
		}
		c.reporter.Warn("could not confirm image/text mode; later steps will fail visibly if it is wrong")
		return stepResult{kind: outcomeTimeout, detail: "mode unverified"}
	}

	return success("mode switch attempted")
}

// uploadMedia hands the whole ordered media set to the file input in one
// call, then waits for either the upload-count marker or the post-upload
// form, whichever appears first. Timeouts degrade to a warning: the user
// is expected to inspect the browser.
func (c *Controller) uploadMedia(ctx context.Context, req Request) stepResult {
	if !req.HasMedia() {
		return success("skipped, no media")
	}

	paths := req.MediaPaths()
	c.reporter.Step("uploading %d media file(s)", len(paths))

	res := locate.Resolve(ctx, c.page, c.platform.FileInput)
	if res.Result != locate.Resolved {
		c.reporter.Warn("file input not found; upload the media manually in the browser")
		return stepResult{kind: outcomeUnresolved, detail: "file input unresolved"}
	}

	if err := res.Element.SetInputFiles(paths); err != nil {
		c.reporter.Warn("file upload failed (%v); upload the media manually in the browser", err)
		return stepResult{kind: outcomeUnresolved, detail: "set input files failed", err: err}
	}
	c.reporter.OK("selected %d file(s)", len(paths))

	progressSel := c.platform.Markers.UploadProgress
	formSel := c.platform.Markers.FormReady
	if progressSel == "" && formSel == "" {
		return success("uploaded, no confirmation marker configured")
	}

	out := poll.Until(ctx, c.opts.UploadPollInterval, c.opts.UploadConfirmWait, func() (bool, error) {
		if progressSel != "" {
			if n, err := c.page.Locator(progressSel).Count(); err == nil && n > 0 {
				return true, nil
			}
		}
		if formSel != "" {
			if n, err := c.page.Locator(formSel).Count(); err == nil && n > 0 {
				return true, nil
			}
		}
		return false, nil
	})

	if out != poll.Done {
		c.reporter.Warn("no upload confirmation within %s; inspect the browser window", c.opts.UploadConfirmWait)
		return stepResult{kind: outcomeTimeout, detail: "upload unconfirmed"}
	}

	c.reporter.OK("upload confirmed")
	return success("upload confirmed")
}

// awaitForm resolves the primary input: the title field on platforms that
// have one, otherwise the composer. Falls back to clicking the compose
// button (some layouts hide the composer behind it), then to any editable
// region. Nothing editable at all is the one truly fatal resolution
// failure of the flow.
func (c *Controller) awaitForm(ctx context.Context, _ Request) stepResult {
	c.reporter.Step("waiting for the publish form")

	primaryTarget := c.platform.TitleInput
	c.primaryIsTitle = true
	if c.platform.TitleLimit == 0 {
		primaryTarget = c.platform.BodyEditor
		c.primaryIsTitle = false
	}

	res := locate.Resolve(ctx, c.page, primaryTarget)

	if res.Result != locate.Resolved && len(c.platform.ComposeButton.Candidates) > 0 {
		if btn := locate.Resolve(ctx, c.page, c.platform.ComposeButton); btn.Result == locate.Resolved {
			if err := btn.Element.Click(c.opts.ActionTimeoutMs); err == nil {
				res = locate.Resolve(ctx, c.page, primaryTarget)
			}
		}
	}

	if res.Result != locate.Resolved {
		c.reporter.Warn("%s not found, falling back to any editable region", primaryTarget.Role)
		res = locate.Resolve(ctx, c.page, c.platform.FallbackEditable)
	}

	if res.Result != locate.Resolved {
		c.reporter.Fail("no input field found; the browser stays open, fill in and publish manually")
		return stepResult{kind: outcomeFatal, detail: "no editable input", err: ErrNoInputTarget}
	}

	c.primary = res.Element
	c.reporter.OK("publish form ready")
	return success("resolved via " + res.Description)
}

// fillFields applies the title truncation policy, fills the title, then
// resolves and fills the body editor. Fill errors degrade to warnings: the
// field is visible in the browser and the operator can type it.
func (c *Controller) fillFields(ctx context.Context, req Request) stepResult {
	c.reporter.Step("filling in the post")

	if !c.primaryIsTitle {
		_ = c.primary.Click(c.opts.ActionTimeoutMs)
		if err := c.primary.Fill(req.Body(), c.opts.ActionTimeoutMs); err != nil {
			c.reporter.Warn("could not fill the composer (%v); type the text manually", err)
			return stepResult{kind: outcomeUnresolved, detail: "composer fill failed", err: err}
		}
		c.reporter.OK("post text filled")
		return success("body filled")
	}

	title := req.Title()
	if limit := c.platform.TitleLimit; limit > 0 {
		if runes := []rune(title); len(runes) > limit {
			c.reporter.Warn("title longer than %d characters (%d), truncated", limit, len(runes))
			title = string(runes[:limit])
		}
	}

	_ = c.primary.Click(c.opts.ActionTimeoutMs)
	if err := c.primary.Fill(title, c.opts.ActionTimeoutMs); err != nil {
		c.reporter.Warn("could not fill the title (%v); type it manually", err)
	} else {
		c.reporter.OK("title filled: %s", title)
	}

	res := locate.Resolve(ctx, c.page, c.platform.BodyEditor)
	if res.Result != locate.Resolved {
		c.reporter.Warn("body editor not found; paste the body manually")
		return stepResult{kind: outcomeUnresolved, detail: "body editor unresolved"}
	}

	_ = res.Element.Click(c.opts.ActionTimeoutMs)
	if err := res.Element.Fill(req.Body(), c.opts.ActionTimeoutMs); err != nil {
		c.reporter.Warn("could not fill the body (%v); paste it manually", err)
		return stepResult{kind: outcomeUnresolved, detail: "body fill failed", err: err}
	}

	c.reporter.OK("body filled")
	return success("title and body filled")
}

// submit resolves the submit control by role/label, waits for it to become
// actionable, and clicks it. An unresolved control aborts (the operator
// must click); a failed click only warns, the button is right there.
func (c *Controller) submit(ctx context.Context, _ Request) stepResult {
	c.reporter.Step("submitting the post")

	res := locate.Resolve(ctx, c.page, c.platform.Submit)
	if res.Result != locate.Resolved {
		c.reporter.Fail("submit control not found; click publish manually in the browser")
		return stepResult{kind: outcomeFatal, detail: "submit unresolved", err: ErrSubmitUnresolved}
	}

	if err := res.Element.WaitFor(c.opts.ActionTimeoutMs); err != nil {
		c.reporter.Warn("submit control never became clickable; click publish manually")
		return stepResult{kind: outcomeTimeout, detail: "submit not actionable", err: err}
	}

	if err := res.Element.Click(c.opts.ActionTimeoutMs); err != nil {
		c.reporter.Warn("automatic submit failed (%v); click publish manually", err)
		return stepResult{kind: outcomeTimeout, detail: "submit click failed", err: err}
	}

	c.reporter.OK("submit clicked")
	return success("submitted via " + res.Description)
}

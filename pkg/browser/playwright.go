package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/crosspost/pkg/web"
)

// pwPage adapts a Playwright page to the automation interface.
type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Goto(url string, opts web.GotoOptions) error {
	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.TimeoutMs > 0 {
		playwrightOpts.Timeout = &opts.TimeoutMs
	}

	if _, err := p.page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Title() (string, error) {
	return p.page.Title()
}

func (p *pwPage) Content() (string, error) {
	return p.page.Content()
}

func (p *pwPage) WaitForLoadState(state string, timeoutMs float64) error {
	loadState := playwright.LoadState(state)
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   &loadState,
		Timeout: &timeoutMs,
	})
}

func (p *pwPage) Locator(selector string) web.Element {
	return &pwElement{locator: p.page.Locator(selector)}
}

func (p *pwPage) GetByRole(role, name string) web.Element {
	return &pwElement{locator: p.page.GetByRole(
		playwright.AriaRole(role),
		playwright.PageGetByRoleOptions{Name: name},
	)}
}

// pwElement adapts a Playwright locator.
type pwElement struct {
	locator playwright.Locator
}

func (e *pwElement) Count() (int, error) {
	return e.locator.Count()
}

func (e *pwElement) IsVisible() (bool, error) {
	return e.locator.IsVisible()
}

func (e *pwElement) First() web.Element {
	return &pwElement{locator: e.locator.First()}
}

func (e *pwElement) Last() web.Element {
	return &pwElement{locator: e.locator.Last()}
}

func (e *pwElement) Nth(i int) web.Element {
	return &pwElement{locator: e.locator.Nth(i)}
}

func (e *pwElement) Click(timeoutMs float64) error {
	return e.locator.Click(playwright.LocatorClickOptions{Timeout: &timeoutMs})
}

func (e *pwElement) Fill(value string, timeoutMs float64) error {
	return e.locator.Fill(value, playwright.LocatorFillOptions{Timeout: &timeoutMs})
}

func (e *pwElement) SetInputFiles(paths []string) error {
	return e.locator.SetInputFiles(paths)
}

func (e *pwElement) WaitFor(timeoutMs float64) error {
	state := playwright.WaitForSelectorStateVisible
	return e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   state,
		Timeout: &timeoutMs,
	})
}

// Package web defines the narrow browser-control surface the publish flow
// drives. The concrete implementation wraps Playwright (see pkg/browser);
// tests substitute fakes so flow logic runs without a live browser.
package web

// GotoOptions configures page navigation behavior.
type GotoOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// TimeoutMs is the navigation timeout in milliseconds (0 means default)
	TimeoutMs float64
}

// Page is one controllable browser tab.
type Page interface {
	// Goto navigates to the URL and waits for the configured load signal.
	Goto(url string, opts GotoOptions) error

	// URL returns the current page URL.
	URL() string

	// Title returns the current page title.
	Title() (string, error)

	// Content returns the full HTML content of the page.
	Content() (string, error)

	// WaitForLoadState blocks until the page reaches the given load state
	// ("load", "domcontentloaded", "networkidle") or the timeout elapses.
	WaitForLoadState(state string, timeoutMs float64) error

	// Locator creates an element handle for a CSS/text selector. The handle
	// is lazy: it is re-evaluated against the live DOM on every operation.
	Locator(selector string) Element

	// GetByRole creates an element handle for an accessible role and name.
	GetByRole(role, name string) Element
}

// Element is a lazy handle over zero or more matching DOM elements.
type Element interface {
	// Count returns the number of elements currently matching.
	Count() (int, error)

	// IsVisible reports whether the first matching element is visible.
	IsVisible() (bool, error)

	// First narrows the handle to the first match.
	First() Element

	// Last narrows the handle to the last match.
	Last() Element

	// Nth narrows the handle to the i-th match (zero-based).
	Nth(i int) Element

	// Click clicks the element, waiting up to timeoutMs for actionability.
	Click(timeoutMs float64) error

	// Fill replaces the element's value or editable content with value.
	Fill(value string, timeoutMs float64) error

	// SetInputFiles associates the ordered file set with a file input in a
	// single call. Works for hidden inputs.
	SetInputFiles(paths []string) error

	// WaitFor blocks until the element is visible or timeoutMs elapses.
	WaitFor(timeoutMs float64) error
}

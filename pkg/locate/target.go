// Package locate resolves logical UI roles ("title-input", "submit-button")
// to concrete elements through an ordered chain of candidate locators. A
// role may be rendered differently across sessions and layout experiments,
// so resolution tries each candidate's predicate in order and takes the
// first that matches instead of hard-failing on the first miss.
package locate

import (
	"time"

	"github.com/entrhq/crosspost/pkg/web"
)

// Predicate is the match condition a candidate must satisfy.
type Predicate int

const (
	// Exists requires at least one matching element in the DOM.
	Exists Predicate = iota

	// Visible requires the picked element to be visible.
	Visible

	// MinCount requires at least Candidate.Min matching elements.
	MinCount
)

// Pick selects which of several matching elements the candidate yields.
type Pick int

const (
	// PickFirst yields the first match (default).
	PickFirst Pick = iota

	// PickLast yields the last match. Used for body editors that render
	// after and below the title field.
	PickLast

	// PickNth yields the match at Candidate.Nth (zero-based).
	PickNth
)

// Candidate is one strategy for finding an element for a logical role.
// Either Selector or Role must be set.
type Candidate struct {
	// Selector is a CSS/text selector.
	Selector string

	// Role and Name locate by accessible role and label instead of a
	// selector. Takes precedence over Selector when Role is non-empty.
	Role string
	Name string

	// Pred is the match condition. Defaults to Exists.
	Pred Predicate

	// Min is the threshold for MinCount.
	Min int

	// Pick selects among multiple matches. Defaults to PickFirst.
	Pick Pick

	// Nth is the index for PickNth.
	Nth int
}

// Target maps a logical UI role to its ordered candidate chain.
type Target struct {
	// Role names the logical role, used in logs and diagnostics.
	Role string

	// Critical marks targets whose resolution failure aborts the flow.
	// Non-critical targets are logged and skipped.
	Critical bool

	// Interval and Ceiling bound the resolution poll. Zero values take
	// criticality-dependent defaults.
	Interval time.Duration
	Ceiling  time.Duration

	// Candidates is the fallback chain, tried strictly in order.
	Candidates []Candidate
}

// Defaults for the resolution poll. Critical targets get the longer, slower
// bound; non-critical targets give up quickly.
const (
	criticalInterval    = 2 * time.Second
	criticalCeiling     = 30 * time.Second
	nonCriticalInterval = 500 * time.Millisecond
	nonCriticalCeiling  = 10 * time.Second
)

func (t Target) interval() time.Duration {
	if t.Interval > 0 {
		return t.Interval
	}
	if t.Critical {
		return criticalInterval
	}
	return nonCriticalInterval
}

func (t Target) ceiling() time.Duration {
	if t.Ceiling > 0 {
		return t.Ceiling
	}
	if t.Critical {
		return criticalCeiling
	}
	return nonCriticalCeiling
}

// locator builds the element handle for this candidate on the given page.
func (c Candidate) locator(page web.Page) web.Element {
	if c.Role != "" {
		return page.GetByRole(c.Role, c.Name)
	}
	return page.Locator(c.Selector)
}

// pick narrows a multi-match handle according to the candidate's Pick.
func (c Candidate) pick(el web.Element) web.Element {
	switch c.Pick {
	case PickLast:
		return el.Last()
	case PickNth:
		return el.Nth(c.Nth)
	default:
		return el.First()
	}
}

// describe returns a short label for logs.
func (c Candidate) describe() string {
	if c.Role != "" {
		return "role=" + c.Role + " name=" + c.Name
	}
	return c.Selector
}

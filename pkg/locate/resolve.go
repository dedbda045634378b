package locate

import (
	"context"

	"github.com/entrhq/crosspost/pkg/poll"
	"github.com/entrhq/crosspost/pkg/web"
)

// Result is the outcome of a target resolution.
type Result int

const (
	// Resolved means a candidate satisfied its predicate.
	Resolved Result = iota

	// Unresolved means no candidate matched within the target's bound.
	Unresolved

	// Canceled means the context was canceled during resolution.
	Canceled
)

// Resolution carries the resolved element and which candidate produced it.
type Resolution struct {
	Result Result

	// Element is the picked element. Nil unless Result is Resolved.
	Element web.Element

	// Candidate is the index of the winning candidate, or -1.
	Candidate int

	// Description labels the winning candidate for diagnostics.
	Description string
}

// Resolve evaluates the target's candidates in order, repeatedly, within the
// target's interval/ceiling bound. Within each round the first candidate
// satisfying its predicate wins and later candidates are never evaluated.
func Resolve(ctx context.Context, page web.Page, target Target) Resolution {
	res := Resolution{Result: Unresolved, Candidate: -1}

	out := poll.Until(ctx, target.interval(), target.ceiling(), func() (bool, error) {
		for i, c := range target.Candidates {
			el, ok := match(page, c)
			if !ok {
				continue
			}
			res.Result = Resolved
			res.Element = el
			res.Candidate = i
			res.Description = c.describe()
			return true, nil
		}
		return false, nil
	})

	if out == poll.Canceled {
		res.Result = Canceled
	}
	return res
}

// match evaluates one candidate against the live page.
func match(page web.Page, c Candidate) (web.Element, bool) {
	el := c.locator(page)

	n, err := el.Count()
	if err != nil || n == 0 {
		return nil, false
	}

	switch c.Pred {
	case MinCount:
		if n < c.Min {
			return nil, false
		}
	case Visible:
		picked := c.pick(el)
		visible, err := picked.IsVisible()
		if err != nil || !visible {
			return nil, false
		}
		return picked, true
	}

	return c.pick(el), true
}

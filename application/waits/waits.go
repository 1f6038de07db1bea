// Package waits implements bounded polling against a browser session.
//
// Conditions are evaluated on the calling goroutine; a condition error counts
// as "not yet" and is kept to enrich the timeout error.
package waits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

const (
	// DefaultInterval is the poll granularity of overlay and view checks
	DefaultInterval = 100 * time.Millisecond

	// ElementInterval is the poll granularity of element lookups
	ElementInterval = 500 * time.Millisecond
)

// Condition reports whether the awaited state holds
type Condition func(ctx context.Context) (bool, error)

// Until polls cond every interval until it holds or timeout elapses. The last
// sleep is cut short at the deadline.
// The condition is always evaluated at least once.
func Until(ctx context.Context, timeout, interval time.Duration, op string, cond Condition) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	deadline := time.Now().Add(timeout)
	var last error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			last = err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("waiting for %s: %w", op, ctx.Err())
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &entities.TimeoutError{Op: op, After: timeout, Last: last}
		}
		if err := Sleep(ctx, min(interval, remaining)); err != nil {
			return fmt.Errorf("waiting for %s: %w", op, err)
		}
	}
}

// Sleep pauses for d unless ctx ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State is the element state an element wait looks for
type State int

const (
	Present State = iota
	Visible
	Clickable
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	default:
		return "present"
	}
}

// ForElement waits until the locator matches an element in the given state
func ForElement(ctx context.Context, d interfaces.Driver, by entities.By, value string, state State, timeout time.Duration) (interfaces.Element, error) {
	var found interfaces.Element
	op := fmt.Sprintf("%s %s=%s", state, by, value)
	err := Until(ctx, timeout, ElementInterval, op, func(ctx context.Context) (bool, error) {
		el, err := d.FindElement(ctx, by, value)
		if err != nil {
			return false, err
		}
		ok, err := inState(el, state)
		if err != nil || !ok {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ForAnyElement waits until any of the locators matches an element in state
func ForAnyElement(ctx context.Context, d interfaces.Driver, locs []entities.Locator, state State, timeout time.Duration) (interfaces.Element, error) {
	var found interfaces.Element
	names := make([]string, 0, len(locs))
	for _, l := range locs {
		names = append(names, strings.Join(l.Selectors(), " | "))
	}
	op := fmt.Sprintf("any %s of [%s]", state, strings.Join(names, "; "))
	err := Until(ctx, timeout, ElementInterval, op, func(ctx context.Context) (bool, error) {
		var last error
		for _, l := range locs {
			for _, sel := range l.Selectors() {
				el, err := d.FindElement(ctx, l.By, sel)
				if err != nil {
					last = err
					continue
				}
				if ok, err := inState(el, state); err == nil && ok {
					found = el
					return true, nil
				}
			}
		}
		return false, last
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ForScript waits until script evaluates to a truthy value
func ForScript(ctx context.Context, d interfaces.Driver, timeout time.Duration, op, script string, args ...interface{}) error {
	return Until(ctx, timeout, DefaultInterval, op, func(ctx context.Context) (bool, error) {
		res, err := d.ExecuteScript(ctx, script, args...)
		if err != nil {
			return false, err
		}
		return Truthy(res), nil
	})
}

// ForStale waits until el is detached from the document
func ForStale(ctx context.Context, el interfaces.Element, timeout time.Duration) error {
	return Until(ctx, timeout, DefaultInterval, "staleness", func(ctx context.Context) (bool, error) {
		_, err := el.TagName()
		return err != nil && IsStale(err), nil
	})
}

// ForTitlePrefix waits until the document title starts with prefix and returns it
func ForTitlePrefix(ctx context.Context, d interfaces.Driver, prefix string, timeout time.Duration) (string, error) {
	var title string
	err := Until(ctx, timeout, ElementInterval, "title prefix "+prefix, func(ctx context.Context) (bool, error) {
		t, err := d.Title(ctx)
		if err != nil {
			return false, err
		}
		title = t
		return strings.HasPrefix(t, prefix), nil
	})
	return title, err
}

// Truthy converts a script result the way JavaScript would
func Truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

// IsStale reports whether err is a stale element reference
func IsStale(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "stale")
}

func inState(el interfaces.Element, state State) (bool, error) {
	switch state {
	case Visible:
		return el.IsDisplayed()
	case Clickable:
		shown, err := el.IsDisplayed()
		if err != nil || !shown {
			return false, err
		}
		return el.IsEnabled()
	default:
		return true, nil
	}
}

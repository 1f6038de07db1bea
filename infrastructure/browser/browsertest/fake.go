// Package browsertest provides an in-memory interfaces.Driver for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// ErrNoSuchElement is returned by lookups that match nothing
var ErrNoSuchElement = errors.New("no such element")

// ErrStale is returned by calls on a detached element
var ErrStale = errors.New("stale element reference")

// ScriptFunc answers one ExecuteScript call
type ScriptFunc func(script string, args []interface{}) (interface{}, error)

// Driver is a scripted fake browser session
type Driver struct {
	mu sync.Mutex

	// Script answers ExecuteScript and ExecuteScriptAsync; nil returns (nil, nil)
	Script ScriptFunc

	// TitleFunc overrides TitleValue when set
	TitleFunc  func() string
	TitleValue string

	elements map[string][]*Element
	windows  []string
	current  string
	nextWin  int

	Visited     []string
	ScriptCalls []string
	Closed      bool
}

// NewDriver returns a fake with one open window
func NewDriver() *Driver {
	return &Driver{
		elements: make(map[string][]*Element),
		windows:  []string{"win-0"},
		current:  "win-0",
		nextWin:  1,
	}
}

// Key identifies a locator in the fake's element table
func Key(by entities.By, value string) string {
	return string(by) + "=" + value
}

// Put registers the elements a locator resolves to
func (d *Driver) Put(by entities.By, value string, els ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[Key(by, value)] = els
}

// Remove forgets a locator
func (d *Driver) Remove(by entities.By, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, Key(by, value))
}

// Calls returns a copy of the scripts executed so far
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ScriptCalls...)
}

func (d *Driver) Get(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Visited = append(d.Visited, url)
	return nil
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if d.TitleFunc != nil {
		return d.TitleFunc(), nil
	}
	return d.TitleValue, nil
}

func (d *Driver) FindElement(ctx context.Context, by entities.By, value string) (interfaces.Element, error) {
	els, err := d.FindElements(ctx, by, value)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, Key(by, value))
	}
	return els[0], nil
}

func (d *Driver) FindElements(ctx context.Context, by entities.By, value string) ([]interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []interfaces.Element
	for _, el := range d.elements[Key(by, value)] {
		if !el.Stale {
			out = append(out, el)
		}
	}
	return out, nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	d.mu.Lock()
	d.ScriptCalls = append(d.ScriptCalls, script)
	fn := d.Script
	d.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(script, args)
}

func (d *Driver) ExecuteScriptAsync(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	return d.ExecuteScript(ctx, script, args...)
}

func (d *Driver) CurrentWindow(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *Driver) NewTab(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := fmt.Sprintf("win-%d", d.nextWin)
	d.nextWin++
	d.windows = append(d.windows, h)
	d.current = h
	return h, nil
}

func (d *Driver) SwitchWindow(ctx context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w == handle {
			d.current = handle
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

func (d *Driver) CloseWindow(ctx context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.windows {
		if w == handle {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such window: %s", handle)
}

// Windows returns the open window handles
func (d *Driver) Windows() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.windows...)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("\x89PNG fake"), nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Element is a fake DOM node
type Element struct {
	Tag       string
	TextValue string
	Attrs     map[string]string
	Hidden    bool
	Disabled  bool
	Stale     bool

	// ClickErr fails native clicks when set
	ClickErr error
	// OnClick runs after a successful native click
	OnClick func()

	Clicks int
	Keys   []string

	children map[string][]*Element
}

// NewElement returns a visible, enabled element
func NewElement(tag, text string, attrs map[string]string) *Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &Element{Tag: tag, TextValue: text, Attrs: attrs}
}

// PutChild registers what a lookup under this element resolves to
func (e *Element) PutChild(by entities.By, value string, els ...*Element) {
	if e.children == nil {
		e.children = make(map[string][]*Element)
	}
	e.children[Key(by, value)] = els
}

func (e *Element) Click() error {
	if e.Stale {
		return ErrStale
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) SendKeys(keys string) error {
	if e.Stale {
		return ErrStale
	}
	e.Keys = append(e.Keys, keys)
	return nil
}

func (e *Element) Clear() error {
	if e.Stale {
		return ErrStale
	}
	e.Attrs["value"] = ""
	return nil
}

func (e *Element) Attribute(name string) (string, error) {
	if e.Stale {
		return "", ErrStale
	}
	return e.Attrs[name], nil
}

func (e *Element) Text() (string, error) {
	if e.Stale {
		return "", ErrStale
	}
	return e.TextValue, nil
}

func (e *Element) TagName() (string, error) {
	if e.Stale {
		return "", ErrStale
	}
	return e.Tag, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	if e.Stale {
		return false, ErrStale
	}
	return !e.Hidden, nil
}

func (e *Element) IsEnabled() (bool, error) {
	if e.Stale {
		return false, ErrStale
	}
	return !e.Disabled, nil
}

func (e *Element) FindElement(by entities.By, value string) (interfaces.Element, error) {
	els, err := e.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, Key(by, value))
	}
	return els[0], nil
}

func (e *Element) FindElements(by entities.By, value string) ([]interfaces.Element, error) {
	if e.Stale {
		return nil, ErrStale
	}
	var out []interfaces.Element
	for _, c := range e.children[Key(by, value)] {
		out = append(out, c)
	}
	return out, nil
}

var (
	_ interfaces.Driver  = (*Driver)(nil)
	_ interfaces.Element = (*Element)(nil)
)

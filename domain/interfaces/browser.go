package interfaces

import (
	"context"

	"totvs_automation/domain/entities"
)

// Driver is the remote-control surface of one browser session.
// Every call is a synchronous round trip; nothing read through it stays valid
// after the next action.
type Driver interface {
	// Get navigates the current window to url (data: URLs included)
	Get(ctx context.Context, url string) error

	// Title returns the current document title
	Title(ctx context.Context) (string, error)

	// FindElement returns the first element matching the locator
	FindElement(ctx context.Context, by entities.By, value string) (Element, error)

	// FindElements returns every element matching the locator
	FindElements(ctx context.Context, by entities.By, value string) ([]Element, error)

	// ExecuteScript runs a function body in page context; args are exposed as arguments[i].
	// Element values in args are passed as DOM nodes.
	ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error)

	// ExecuteScriptAsync is ExecuteScript with a completion callback appended to arguments
	ExecuteScriptAsync(ctx context.Context, script string, args ...interface{}) (interface{}, error)

	// CurrentWindow returns the handle of the active window
	CurrentWindow(ctx context.Context) (string, error)

	// NewTab opens a blank tab, makes it active and returns its handle
	NewTab(ctx context.Context) (string, error)

	// SwitchWindow activates the window with the given handle
	SwitchWindow(ctx context.Context, handle string) error

	// CloseWindow closes the window with the given handle
	CloseWindow(ctx context.Context, handle string) error

	// Screenshot captures the current viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close ends the session and releases the browser
	Close() error
}

// Element is a handle to one DOM node; it may go stale at any time
type Element interface {
	Click() error
	SendKeys(keys string) error
	Clear() error
	Attribute(name string) (string, error)
	Text() (string, error)
	TagName() (string, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	FindElement(by entities.By, value string) (Element, error)
	FindElements(by entities.By, value string) ([]Element, error)
}

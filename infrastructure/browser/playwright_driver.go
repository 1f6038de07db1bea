package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const browserStateFile = "playwright_state.json"

var errStaleHandle = errors.New("stale element reference: element is not attached to the page document")

// PlaywrightDriver drives Chromium through playwright. Pages are exposed as
// window handles so callers can treat both engines alike.
type PlaywrightDriver struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	storagePath string
	logger      *logrus.Logger
	timeoutMS   float64

	pagesMutex sync.Mutex
	pages      map[string]playwright.Page
	current    string
	nextID     int
}

var _ interfaces.Driver = (*PlaywrightDriver)(nil)

// NewPlaywrightDriver launches Chromium, restoring cookies saved by the last run
func NewPlaywrightDriver(cfg *config.Config, logger *logrus.Logger) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	stateDir := cfg.UserDataDir
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		stateDir = filepath.Join(homeDir, ".totvs_automation")
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	storagePath := filepath.Join(stateDir, browserStateFile)

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1400,
			Height: 900,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
	}

	if data, err := os.ReadFile(storagePath); err == nil {
		var storageState playwright.StorageState
		if err := json.Unmarshal(data, &storageState); err == nil {
			contextOptions.StorageState = storageState.ToOptionalStorageState()
			logger.Infof("Restoring browser state from %s", storagePath)
		}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-popup-blocking",
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	d := &PlaywrightDriver{
		pw:          pw,
		browser:     browser,
		context:     bctx,
		storagePath: storagePath,
		logger:      logger,
		timeoutMS:   float64(cfg.PageLoadTimeout.Milliseconds()),
		pages:       make(map[string]playwright.Page),
	}

	bctx.OnPage(func(p playwright.Page) {
		d.register(p)
	})

	page, err := bctx.NewPage()
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	d.pagesMutex.Lock()
	d.current = d.registerLocked(page)
	d.pagesMutex.Unlock()

	return d, nil
}

// register tracks p under a stable handle; pages opened by the site are
// tracked but never activated implicitly
func (d *PlaywrightDriver) register(p playwright.Page) string {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	return d.registerLocked(p)
}

func (d *PlaywrightDriver) registerLocked(p playwright.Page) string {
	for h, known := range d.pages {
		if known == p {
			return h
		}
	}
	h := fmt.Sprintf("page-%d", d.nextID)
	d.nextID++
	d.pages[h] = p

	if d.timeoutMS > 0 {
		p.SetDefaultNavigationTimeout(d.timeoutMS)
	}
	p.OnDialog(func(dialog playwright.Dialog) {
		d.logger.Infof("Accepting %s dialog: %s", dialog.Type(), dialog.Message())
		dialog.Accept()
	})
	p.OnClose(func(closed playwright.Page) {
		d.pagesMutex.Lock()
		defer d.pagesMutex.Unlock()
		for h, known := range d.pages {
			if known == closed {
				delete(d.pages, h)
			}
		}
	})
	return h
}

func (d *PlaywrightDriver) page() (playwright.Page, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	p, ok := d.pages[d.current]
	if !ok {
		return nil, fmt.Errorf("no active page (window %s was closed)", d.current)
	}
	return p, nil
}

func (d *PlaywrightDriver) Get(ctx context.Context, url string) error {
	p, err := d.page()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(url, "data:") {
		d.logger.Infof("Navigating to: %s", url)
	}
	if _, err := p.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return nil
}

func (d *PlaywrightDriver) Title(ctx context.Context) (string, error) {
	p, err := d.page()
	if err != nil {
		return "", err
	}
	return p.Title()
}

func (d *PlaywrightDriver) FindElement(ctx context.Context, by entities.By, value string) (interfaces.Element, error) {
	p, err := d.page()
	if err != nil {
		return nil, err
	}
	h, err := p.QuerySelector(playwrightSelector(by, value))
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("no such element: %s=%s", by, value)
	}
	return &playwrightElement{h: h}, nil
}

func (d *PlaywrightDriver) FindElements(ctx context.Context, by entities.By, value string) ([]interfaces.Element, error) {
	p, err := d.page()
	if err != nil {
		return nil, err
	}
	hs, err := p.QuerySelectorAll(playwrightSelector(by, value))
	if err != nil {
		return nil, err
	}
	return wrapHandles(hs), nil
}

// ExecuteScript evaluates a function body with WebDriver calling conventions
func (d *PlaywrightDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	p, err := d.page()
	if err != nil {
		return nil, err
	}
	expr := "(args) => (function() {\n" + script + "\n}).apply(null, args)"
	return p.Evaluate(expr, playwrightArgs(args))
}

// ExecuteScriptAsync appends a resolve callback as the last argument
func (d *PlaywrightDriver) ExecuteScriptAsync(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	p, err := d.page()
	if err != nil {
		return nil, err
	}
	expr := "(args) => new Promise((resolve) => { (function() {\n" + script + "\n}).apply(null, args.concat([resolve])); })"
	return p.Evaluate(expr, playwrightArgs(args))
}

func (d *PlaywrightDriver) CurrentWindow(ctx context.Context) (string, error) {
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	return d.current, nil
}

func (d *PlaywrightDriver) NewTab(ctx context.Context) (string, error) {
	p, err := d.context.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open tab: %w", err)
	}
	d.pagesMutex.Lock()
	defer d.pagesMutex.Unlock()
	h := d.registerLocked(p)
	d.current = h
	return h, nil
}

func (d *PlaywrightDriver) SwitchWindow(ctx context.Context, handle string) error {
	d.pagesMutex.Lock()
	p, ok := d.pages[handle]
	if ok {
		d.current = handle
	}
	d.pagesMutex.Unlock()
	if !ok {
		return fmt.Errorf("no such window: %s", handle)
	}
	return p.BringToFront()
}

func (d *PlaywrightDriver) CloseWindow(ctx context.Context, handle string) error {
	d.pagesMutex.Lock()
	p, ok := d.pages[handle]
	delete(d.pages, handle)
	d.pagesMutex.Unlock()
	if !ok {
		return fmt.Errorf("no such window: %s", handle)
	}
	return p.Close()
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	p, err := d.page()
	if err != nil {
		return nil, err
	}
	return p.Screenshot()
}

// SaveState writes cookies and local storage for the next run
func (d *PlaywrightDriver) SaveState() error {
	if d.context == nil || d.storagePath == "" {
		return nil
	}
	if _, err := d.context.StorageState(d.storagePath); err != nil && !isClosedErr(err) {
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close saves state and shuts the browser down; already-closed targets are ignored
func (d *PlaywrightDriver) Close() error {
	var errs []string
	if err := d.SaveState(); err != nil {
		errs = append(errs, err.Error())
	}
	if d.context != nil {
		if err := d.context.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Sprintf("failed to close context: %v", err))
		}
		d.context = nil
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !isClosedErr(err) {
			errs = append(errs, fmt.Sprintf("failed to close browser: %v", err))
		}
		d.browser = nil
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to stop playwright: %v", err))
		}
		d.pw = nil
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isClosedErr(err error) bool {
	return strings.Contains(err.Error(), "closed")
}

// playwrightSelector maps a locator onto playwright's selector engines
func playwrightSelector(by entities.By, value string) string {
	switch by {
	case entities.ByXPath:
		return "xpath=" + value
	case entities.ByID:
		return fmt.Sprintf("[id=%q]", value)
	case entities.ByName:
		return fmt.Sprintf("[name=%q]", value)
	case entities.ByClass:
		return "." + value
	default:
		return value
	}
}

// playwrightArgs unwraps elements so they reach the page as DOM nodes
func playwrightArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*playwrightElement); ok {
			out[i] = el.h
			continue
		}
		out[i] = a
	}
	return out
}

func wrapHandles(hs []playwright.ElementHandle) []interfaces.Element {
	out := make([]interfaces.Element, 0, len(hs))
	for _, h := range hs {
		out = append(out, &playwrightElement{h: h})
	}
	return out
}

type playwrightElement struct {
	h playwright.ElementHandle
}

func (e *playwrightElement) Click() error { return e.h.Click() }

func (e *playwrightElement) SendKeys(keys string) error {
	if keys == "\n" {
		return e.h.Press("Enter")
	}
	return e.h.Type(keys)
}

func (e *playwrightElement) Clear() error { return e.h.Fill("") }

func (e *playwrightElement) Attribute(name string) (string, error) {
	return e.h.GetAttribute(name)
}

func (e *playwrightElement) Text() (string, error) { return e.h.InnerText() }

// TagName doubles as the liveness probe used by staleness waits
func (e *playwrightElement) TagName() (string, error) {
	res, err := e.h.Evaluate("el => el.isConnected ? el.tagName.toLowerCase() : ''")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errStaleHandle, err)
	}
	tag, _ := res.(string)
	if tag == "" {
		return "", errStaleHandle
	}
	return tag, nil
}

func (e *playwrightElement) IsDisplayed() (bool, error) { return e.h.IsVisible() }
func (e *playwrightElement) IsEnabled() (bool, error)   { return e.h.IsEnabled() }

func (e *playwrightElement) FindElement(by entities.By, value string) (interfaces.Element, error) {
	h, err := e.h.QuerySelector(playwrightSelector(by, value))
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("no such element: %s=%s", by, value)
	}
	return &playwrightElement{h: h}, nil
}

func (e *playwrightElement) FindElements(by entities.By, value string) ([]interfaces.Element, error) {
	hs, err := e.h.QuerySelectorAll(playwrightSelector(by, value))
	if err != nil {
		return nil, err
	}
	return wrapHandles(hs), nil
}

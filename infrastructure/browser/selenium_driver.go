package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const (
	chromeDriverPort = 9515

	// operator dialogs run as async scripts and wait for a click
	asyncScriptTimeout = 10 * time.Minute
)

// SeleniumDriver drives Chrome through a local chromedriver service
type SeleniumDriver struct {
	wd          selenium.WebDriver
	service     *selenium.Service
	logger      *logrus.Logger
	userDataDir string
}

var _ interfaces.Driver = (*SeleniumDriver)(nil)

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// userDataDir returns the Chrome profile directory, creating it when needed
func userDataDir(configured string) (string, error) {
	dir := configured
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".totvs_automation", "chrome_profile")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create user data directory: %w", err)
	}
	return dir, nil
}

// NewSeleniumDriver starts chromedriver and opens a Chrome session
func NewSeleniumDriver(cfg *config.Config, logger *logrus.Logger) (*SeleniumDriver, error) {
	driverPath, err := findChromeDriver(cfg.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(cfg.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	profile, err := userDataDir(cfg.UserDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to setup user data directory: %w", err)
	}
	logger.Infof("Using user data directory: %s (sessions will be preserved)", profile)

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--disable-popup-blocking",
		"--no-sandbox",
		"--window-size=1400,900",
		fmt.Sprintf("--user-data-dir=%s", profile),
	}
	if cfg.Headless {
		args = append(args, "--headless=new")
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	chromeCaps := chrome.Capabilities{Args: args}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if cfg.PageLoadTimeout > 0 {
		if err := wd.SetPageLoadTimeout(cfg.PageLoadTimeout); err != nil {
			logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}
	if err := wd.SetAsyncScriptTimeout(asyncScriptTimeout); err != nil {
		logger.Warnf("Failed to set async script timeout: %v", err)
	}

	return &SeleniumDriver{
		wd:          wd,
		service:     service,
		logger:      logger,
		userDataDir: profile,
	}, nil
}

func (s *SeleniumDriver) Get(ctx context.Context, url string) error {
	if strings.HasPrefix(url, "data:") {
		s.logger.Debug("Navigating to inline document")
	} else {
		s.logger.Infof("Navigating to: %s", url)
	}
	return s.wd.Get(url)
}

func (s *SeleniumDriver) Title(ctx context.Context) (string, error) {
	return s.wd.Title()
}

func (s *SeleniumDriver) FindElement(ctx context.Context, by entities.By, value string) (interfaces.Element, error) {
	el, err := s.wd.FindElement(seleniumBy(by), value)
	if err != nil {
		return nil, err
	}
	return &seleniumElement{el: el}, nil
}

func (s *SeleniumDriver) FindElements(ctx context.Context, by entities.By, value string) ([]interfaces.Element, error) {
	els, err := s.wd.FindElements(seleniumBy(by), value)
	if err != nil {
		return nil, err
	}
	return wrapSeleniumElements(els), nil
}

func (s *SeleniumDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	return s.wd.ExecuteScript(script, seleniumArgs(args))
}

func (s *SeleniumDriver) ExecuteScriptAsync(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	return s.wd.ExecuteScriptAsync(script, seleniumArgs(args))
}

func (s *SeleniumDriver) CurrentWindow(ctx context.Context) (string, error) {
	return s.wd.CurrentWindowHandle()
}

// NewTab opens a tab with window.open and switches to the handle that appeared
func (s *SeleniumDriver) NewTab(ctx context.Context) (string, error) {
	before, err := s.wd.WindowHandles()
	if err != nil {
		return "", fmt.Errorf("failed to list windows: %w", err)
	}
	if _, err := s.wd.ExecuteScript("window.open('about:blank', '_blank');", nil); err != nil {
		return "", fmt.Errorf("failed to open tab: %w", err)
	}

	known := make(map[string]bool, len(before))
	for _, h := range before {
		known[h] = true
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		after, err := s.wd.WindowHandles()
		if err != nil {
			return "", fmt.Errorf("failed to list windows: %w", err)
		}
		for _, h := range after {
			if !known[h] {
				if err := s.wd.SwitchWindow(h); err != nil {
					return "", fmt.Errorf("failed to switch to new tab: %w", err)
				}
				return h, nil
			}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return "", fmt.Errorf("new tab did not appear")
}

func (s *SeleniumDriver) SwitchWindow(ctx context.Context, handle string) error {
	return s.wd.SwitchWindow(handle)
}

func (s *SeleniumDriver) CloseWindow(ctx context.Context, handle string) error {
	return s.wd.CloseWindow(handle)
}

func (s *SeleniumDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return s.wd.Screenshot()
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumDriver) Close() error {
	var errs []string
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Sprintf("quit: %v", err))
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("stop service: %v", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close browser: %s", strings.Join(errs, "; "))
	}
	return nil
}

func seleniumBy(by entities.By) string {
	switch by {
	case entities.ByID:
		return selenium.ByID
	case entities.ByName:
		return selenium.ByName
	case entities.ByXPath:
		return selenium.ByXPATH
	case entities.ByTag:
		return selenium.ByTagName
	case entities.ByClass:
		return selenium.ByClassName
	default:
		return selenium.ByCSSSelector
	}
}

// seleniumArgs replaces wrapped elements with the underlying WebElement
func seleniumArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*seleniumElement); ok {
			out[i] = el.el
			continue
		}
		out[i] = a
	}
	return out
}

func wrapSeleniumElements(els []selenium.WebElement) []interfaces.Element {
	out := make([]interfaces.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &seleniumElement{el: el})
	}
	return out
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click() error               { return e.el.Click() }
func (e *seleniumElement) SendKeys(keys string) error { return e.el.SendKeys(keys) }
func (e *seleniumElement) Clear() error               { return e.el.Clear() }
func (e *seleniumElement) Text() (string, error)      { return e.el.Text() }
func (e *seleniumElement) TagName() (string, error)   { return e.el.TagName() }
func (e *seleniumElement) IsDisplayed() (bool, error) { return e.el.IsDisplayed() }
func (e *seleniumElement) IsEnabled() (bool, error)   { return e.el.IsEnabled() }

func (e *seleniumElement) Attribute(name string) (string, error) {
	return e.el.GetAttribute(name)
}

func (e *seleniumElement) FindElement(by entities.By, value string) (interfaces.Element, error) {
	el, err := e.el.FindElement(seleniumBy(by), value)
	if err != nil {
		return nil, err
	}
	return &seleniumElement{el: el}, nil
}

func (e *seleniumElement) FindElements(by entities.By, value string) ([]interfaces.Element, error) {
	els, err := e.el.FindElements(seleniumBy(by), value)
	if err != nil {
		return nil, err
	}
	return wrapSeleniumElements(els), nil
}

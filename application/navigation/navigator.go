// Package navigation takes a fresh browser session from the login page to the
// product grid.
package navigation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const (
	scrollScript = `arguments[0].scrollIntoView({block: 'center'});`
	clickScript  = `arguments[0].click();`
)

// Screenshotter saves the page state of a failed step and returns the file path
type Screenshotter interface {
	Screenshot(ctx context.Context, driver interfaces.Driver, step string) (string, error)
}

// Navigator drives login, domain selection and the main menu
type Navigator struct {
	driver    interfaces.Driver
	locs      *config.Locators
	shots     Screenshotter
	logger    *logrus.Logger
	timeout   time.Duration
	probe     time.Duration
	attempts  int
	overlayTO time.Duration
	menuWait  time.Duration
}

func NewNavigator(driver interfaces.Driver, locs *config.Locators, shots Screenshotter, timeout time.Duration, logger *logrus.Logger) *Navigator {
	menuWait := timeout / 5
	if menuWait < 2*time.Second {
		menuWait = 2 * time.Second
	}
	return &Navigator{
		driver:    driver,
		locs:      locs,
		shots:     shots,
		logger:    logger,
		timeout:   timeout,
		probe:     3 * time.Second,
		attempts:  5,
		overlayTO: 8 * time.Second,
		menuWait:  menuWait,
	}
}

// fail wraps err in a NavigationError carrying a screenshot of the page
func (n *Navigator) fail(ctx context.Context, step string, err error) error {
	navErr := &entities.NavigationError{Step: step, Err: err}
	if n.shots != nil {
		path, shotErr := n.shots.Screenshot(ctx, n.driver, "erro_"+step)
		if shotErr != nil {
			n.logger.Warnf("screenshot of %s failed: %v", step, shotErr)
		} else {
			navErr.Screenshot = path
		}
	}
	n.logger.WithField("step", step).Error(navErr.Error())
	return navErr
}

// clickWithFallback scrolls el into view and clicks it, by script if the native click fails
func (n *Navigator) clickWithFallback(ctx context.Context, el interfaces.Element) error {
	if _, err := n.driver.ExecuteScript(ctx, scrollScript, el); err != nil {
		n.logger.Debugf("scroll into view failed: %v", err)
	}
	if err := el.Click(); err != nil {
		_, err = n.driver.ExecuteScript(ctx, clickScript, el)
		return err
	}
	return nil
}

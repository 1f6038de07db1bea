// Package browser adapts selenium and playwright sessions to interfaces.Driver.
package browser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

// New opens a browser session with the engine named in cfg
func New(cfg *config.Config, logger *logrus.Logger) (interfaces.Driver, error) {
	logger.WithField("engine", cfg.Engine).Info("Starting browser")
	switch cfg.Engine {
	case config.EnginePlaywright:
		return NewPlaywrightDriver(cfg, logger)
	case config.EngineSelenium, "":
		return NewSeleniumDriver(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
	}
}

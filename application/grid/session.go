// Package grid drives the DevExpress product grid of the TOTVS web client:
// overlay gating, row focus, the edit form and the pager.
package grid

import (
	"github.com/sirupsen/logrus"

	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

// Session bundles every grid component bound to one browser session
type Session struct {
	*OverlayMonitor
	*Executor
	*Views
	*Extractor
	*Pager
}

// NewSession wires the grid components to one browser session
func NewSession(driver interfaces.Driver, locs config.ProductLocators, guard interfaces.Guard, logger *logrus.Logger) *Session {
	overlay := NewOverlayMonitor(driver, logger)
	executor := NewExecutor(driver, overlay, NewResolver(locs.Targets), guard, logger)
	views := NewViews(driver, locs.Grid, logger)
	modal := NewModalConfirmer(driver, logger)
	return &Session{
		OverlayMonitor: overlay,
		Executor:       executor,
		Views:          views,
		Extractor:      NewExtractor(driver, executor, overlay, views, modal, locs.EditForm, logger),
		Pager:          NewPager(driver, overlay, views, locs.Pagination, logger),
	}
}

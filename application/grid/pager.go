package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const (
	pagerRootJS = `var root = document.querySelector('#tabPanelResultContainer') || document;
var pager = root.querySelector('[id*="_DXPagerBottom"], .dxgvPagerBottom, .dxpLite') || root;
var curEl = pager.querySelector('.dxp-current');
var cur = curEl ? parseInt(curEl.textContent.trim(), 10) : NaN;
`

	// pagerClickScript clicks the numbered link right after the current page
	pagerClickScript = `try {
` + pagerRootJS + `if (isNaN(cur)) return {current: null, clicked: false};
var target = String(cur + 1);
var links = pager.querySelectorAll('a.dxp-num');
for (var i = 0; i < links.length; i++) {
  if (links[i].textContent.trim() === target) { links[i].click(); return {current: cur, clicked: true}; }
}
return {current: cur, clicked: false};
} catch (e) { return {current: null, clicked: false}; }`

	// pagerAPIScript asks the grid to move one page past arguments[0]
	pagerAPIScript = `try {
if (window.ASPx && ASPx.GVPagerOnClick) { ASPx.GVPagerOnClick('dataGrid', 'PN' + arguments[0]); return true; }
} catch (e) {}
return false;`

	pagerCurrentScript = `try {
` + pagerRootJS + `return isNaN(cur) ? null : cur;
} catch (e) { return null; }`

	pageOverlayTimeout = 30 * time.Second
	pageRowsTimeout    = 20 * time.Second
	anchorStaleTimeout = 5 * time.Second
)

// Pager moves the server-side grid forward one page at a time
type Pager struct {
	driver  interfaces.Driver
	overlay *OverlayMonitor
	views   *Views
	locs    config.PaginationLocators
	logger  *logrus.Logger

	overlayTimeout time.Duration
	rowsTimeout    time.Duration
	staleTimeout   time.Duration
}

// NewPager uses locs to find the next-page control and the first-row anchor
func NewPager(driver interfaces.Driver, overlay *OverlayMonitor, views *Views, locs config.PaginationLocators, logger *logrus.Logger) *Pager {
	return &Pager{
		driver:         driver,
		overlay:        overlay,
		views:          views,
		locs:           locs,
		logger:         logger,
		overlayTimeout: pageOverlayTimeout,
		rowsTimeout:    pageRowsTimeout,
		staleTimeout:   anchorStaleTimeout,
	}
}

// AdvancePage goes from current to the next page. It returns (false, current,
// nil) when there is no next page; an error means the grid never showed rows
// or a clicked page link never became the current page.
func (p *Pager) AdvancePage(ctx context.Context, current int) (bool, int, error) {
	log := p.logger.WithField("page", current)
	anchor := p.findAnchor(ctx)

	res, err := p.driver.ExecuteScript(ctx, pagerClickScript)
	if err != nil {
		log.Debugf("pager script failed: %v", err)
		return false, current, nil
	}
	state, _ := res.(map[string]interface{})
	indicator, ok := toInt(state["current"])
	if !ok {
		log.Info("pager indicator not found, treating as last page")
		return false, current, nil
	}
	target := indicator + 1

	clicked, _ := state["clicked"].(bool)
	if !clicked {
		if p.nextDisabled(ctx) {
			log.Info("next page control is disabled, last page reached")
			return false, current, nil
		}
		res, err := p.driver.ExecuteScript(ctx, pagerAPIScript, indicator)
		if err != nil || !waits.Truthy(res) {
			log.Info("no link or grid API for the next page, last page reached")
			return false, current, nil
		}
		log.Debugf("moved to page %d through the grid API", target)
	}

	if anchor != nil {
		if err := waits.ForStale(ctx, anchor, p.staleTimeout); err != nil {
			log.Debugf("previous rows still attached: %v", err)
		}
	}
	p.overlay.WaitGone(ctx, p.overlayTimeout, "pagination")
	if err := p.views.WaitRows(ctx, p.rowsTimeout); err != nil {
		return false, current, err
	}

	// rows of the old page can still be on screen while the callback runs
	err = waits.Until(ctx, p.rowsTimeout, waits.DefaultInterval, fmt.Sprintf("pager indicator %d", target), func(ctx context.Context) (bool, error) {
		now, ok := p.currentIndicator(ctx)
		return ok && now == target, nil
	})
	if err != nil {
		if clicked || ctx.Err() != nil {
			return false, current, err
		}
		// the grid API accepts PN past the last page without moving
		log.Infof("pager did not move to page %d, last page reached", target)
		return false, current, nil
	}
	return true, current + 1, nil
}

func (p *Pager) findAnchor(ctx context.Context) interfaces.Element {
	for _, sel := range p.locs.Anchor.Selectors() {
		if el, err := p.driver.FindElement(ctx, p.locs.Anchor.By, sel); err == nil {
			return el
		}
	}
	return nil
}

// nextDisabled reports whether the configured "next" control is rendered
// in a disabled state
func (p *Pager) nextDisabled(ctx context.Context) bool {
	for _, sel := range p.locs.Next.Selectors() {
		els, err := p.driver.FindElements(ctx, p.locs.Next.By, sel)
		if err != nil || len(els) == 0 {
			continue
		}
		el := els[0]
		if class, err := el.Attribute("class"); err == nil && strings.Contains(class, "dxp-disabled") {
			return true
		}
		if aria, err := el.Attribute("aria-disabled"); err == nil && aria == "true" {
			return true
		}
		if enabled, err := el.IsEnabled(); err == nil && !enabled {
			return true
		}
		return false
	}
	return false
}

func (p *Pager) currentIndicator(ctx context.Context) (int, bool) {
	res, err := p.driver.ExecuteScript(ctx, pagerCurrentScript)
	if err != nil {
		return 0, false
	}
	return toInt(res)
}

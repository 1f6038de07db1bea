package grid

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/interfaces"
)

// overlayScript reports whether the WaitPanel blocks the page: the dijit
// "open" flag, then the underlay wrapper, the inner underlay and the dialog.
const overlayScript = `
function vis(el) {
  if (!el) return false;
  var s = getComputedStyle(el);
  if (s.display === 'none' || s.visibility === 'hidden') return false;
  return !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
}
var dojoOpen = false;
try {
  if (window.dijit && dijit.byId) {
    var w = dijit.byId('WaitPanelDialog');
    if (w && typeof w.get === 'function') dojoOpen = !!w.get('open');
  }
} catch (e) {}
var wrap = document.querySelector('[id^="dijit_DialogUnderlay_"]') || document.getElementById('dijit_DialogUnderlay_0');
var ul = document.getElementById('WaitPanelDialog_underlay') ||
         (wrap ? wrap.querySelector('.dijitDialogUnderlay, ._underlay') : null);
var dlg = document.getElementById('WaitPanelDialog');
return dojoOpen || vis(wrap) || vis(ul) || vis(dlg);
`

// OverlayMonitor watches the application's "please wait" panel.
// Every check goes back to the DOM; nothing is cached between polls.
type OverlayMonitor struct {
	driver   interfaces.Driver
	logger   *logrus.Logger
	interval time.Duration
}

// NewOverlayMonitor polls the overlay every 100ms
func NewOverlayMonitor(driver interfaces.Driver, logger *logrus.Logger) *OverlayMonitor {
	return &OverlayMonitor{driver: driver, logger: logger, interval: waits.DefaultInterval}
}

// Visible reports whether the overlay currently blocks clicks.
// A failing script reads as not visible.
func (o *OverlayMonitor) Visible(ctx context.Context) bool {
	res, err := o.driver.ExecuteScript(ctx, overlayScript)
	if err != nil {
		o.logger.Debugf("overlay check failed: %v", err)
		return false
	}
	return waits.Truthy(res)
}

// WaitGone polls until the overlay is hidden or max elapses. It never fails:
// on timeout it logs and returns false so the caller can carry on.
func (o *OverlayMonitor) WaitGone(ctx context.Context, max time.Duration, tag string) bool {
	log := o.logger.WithField("tag", tag)
	log.Debugf("waiting for overlay to clear (up to %s)", max)

	var last *bool
	err := waits.Until(ctx, max, o.interval, "overlay "+tag, func(ctx context.Context) (bool, error) {
		active := o.Visible(ctx)
		if last == nil || *last != active {
			state := "HIDDEN"
			if active {
				state = "ACTIVE"
			}
			log.Infof("overlay %s -> %s", tag, state)
			last = &active
		}
		return !active, nil
	})
	if err != nil {
		log.Warnf("overlay %s still active after %s, continuing: %v", tag, max, err)
		return false
	}
	return true
}

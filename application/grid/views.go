package grid

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const (
	resultViewScript = `var e = document.getElementById('tabPanelEdition'), r = document.getElementById('tabPanelResult');
return !!(e && getComputedStyle(e).display == 'none' && r && getComputedStyle(r).display != 'none');`

	editViewScript = `var e = document.getElementById('tabPanelEdition');
return !!(e && getComputedStyle(e).display != 'none');`

	editContainerID = "tabPanelEditionContainer"

	// rowCountScript takes the container selector and the row selector
	rowCountScript = `var rc = document.querySelector(arguments[0]);
if (!rc) return 0;
return rc.querySelectorAll(arguments[1]).length;`

	// firstRowIndexScript returns the smallest DXDataRow index rendered, or null
	firstRowIndexScript = `var rc = document.querySelector(arguments[0]);
if (!rc) return null;
var rows = rc.querySelectorAll('tr[id^="dataGrid_DXDataRow"]');
var min = null;
for (var i = 0; i < rows.length; i++) {
  var m = (rows[i].id || '').match(/DXDataRow(\d+)$/);
  if (m) {
    var v = parseInt(m[1], 10);
    if (min === null || v < min) min = v;
  }
}
return min;`

	headersScript = `var rc = document.querySelector(arguments[0]);
if (!rc) return [];
var out = [];
rc.querySelectorAll(arguments[1]).forEach(function (c) { out.push((c.textContent || '').trim()); });
return out;`
)

// Views waits on the result/edit tab state of the product screen
type Views struct {
	driver    interfaces.Driver
	logger    *logrus.Logger
	container string
	rows      string
	headers   string
}

// NewViews uses the grid container and row selectors from locs
func NewViews(driver interfaces.Driver, locs config.GridLocators, logger *logrus.Logger) *Views {
	return &Views{
		driver:    driver,
		logger:    logger,
		container: strings.Join(locs.ContainerCSS, ", "),
		rows:      strings.Join(locs.RowCSS, ", "),
		headers:   strings.Join(locs.HeaderCSS, ", "),
	}
}

// WaitResultView waits until the edit tab is hidden and the result tab shown
func (v *Views) WaitResultView(ctx context.Context, timeout time.Duration) error {
	return waits.ForScript(ctx, v.driver, timeout, "result view", resultViewScript)
}

// WaitEditView waits until the edit tab is shown and its content container exists
func (v *Views) WaitEditView(ctx context.Context, timeout time.Duration) error {
	if err := waits.ForScript(ctx, v.driver, timeout, "edit view", editViewScript); err != nil {
		return err
	}
	_, err := waits.ForElement(ctx, v.driver, entities.ByID, editContainerID, waits.Present, timeout)
	return err
}

// WaitGridReady waits for a visible result container holding at least one row
func (v *Views) WaitGridReady(ctx context.Context, timeout time.Duration) error {
	if _, err := waits.ForElement(ctx, v.driver, entities.ByCSS, v.container, waits.Visible, timeout); err != nil {
		return err
	}
	return v.WaitRows(ctx, timeout)
}

// WaitRows waits until the grid body has at least one data row
func (v *Views) WaitRows(ctx context.Context, timeout time.Duration) error {
	return waits.Until(ctx, timeout, waits.DefaultInterval, "grid rows", func(ctx context.Context) (bool, error) {
		n, err := v.RowCount(ctx)
		return n >= 1, err
	})
}

// RowCount returns the number of data rows currently rendered
func (v *Views) RowCount(ctx context.Context) (int, error) {
	res, err := v.driver.ExecuteScript(ctx, rowCountScript, v.container, v.rows)
	if err != nil {
		return 0, err
	}
	n, _ := toInt(res)
	return n, nil
}

// FirstRowIndex returns the smallest global row index on screen, 0 when none
func (v *Views) FirstRowIndex(ctx context.Context) (int, error) {
	res, err := v.driver.ExecuteScript(ctx, firstRowIndexScript, v.container)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(res)
	if !ok || n < 0 {
		return 0, nil
	}
	return n, nil
}

// LogHeaders writes the column titles at debug level
func (v *Views) LogHeaders(ctx context.Context) {
	if v.headers == "" || !v.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	res, err := v.driver.ExecuteScript(ctx, headersScript, v.container, v.headers)
	if err != nil {
		v.logger.Debugf("reading grid headers: %v", err)
		return
	}
	v.logger.Debugf("grid headers: %v", res)
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// NoRow is passed to Perform when the target is not tied to a grid row
const NoRow = -1

const (
	focusRowScript  = `try { if (window.dataGrid) { dataGrid.SetFocusedRowIndex(arguments[0]); if (dataGrid.SelectRow) dataGrid.SelectRow(arguments[0]); } } catch (e) {}`
	focusOnlyScript = `try { if (window.dataGrid) { dataGrid.SetFocusedRowIndex(arguments[0]); } } catch (e) {}`
	editItemScript  = `try { runInSession('editItem()'); } catch (e) {}`
	scrollScript    = `arguments[0].scrollIntoView({block: 'center'});`
	clickScript     = `arguments[0].click();`

	rowElementPrefix = "dataGrid_DXDataRow"
	enterKey         = "\n"

	maxOverlayBeforeAction = 12 * time.Second
	rowPresenceTimeout     = 3 * time.Second
	clickableTimeout       = 5 * time.Second
)

// Executor performs clicks and focus changes on logical targets.
// It never checks whether an action had an effect; callers wait for the
// resulting view state themselves.
type Executor struct {
	driver   interfaces.Driver
	overlay  *OverlayMonitor
	resolver *Resolver
	guard    interfaces.Guard
	logger   *logrus.Logger
}

// NewExecutor gates every action on overlay and refuses targets the guard rejects
func NewExecutor(driver interfaces.Driver, overlay *OverlayMonitor, resolver *Resolver, guard interfaces.Guard, logger *logrus.Logger) *Executor {
	return &Executor{
		driver:   driver,
		overlay:  overlay,
		resolver: resolver,
		guard:    guard,
		logger:   logger,
	}
}

// Perform acts on the named target. Row and edit targets are best-effort and
// only fail on an unresolvable name; generic targets fail when the element
// never shows up or the guard refuses the click.
func (e *Executor) Perform(ctx context.Context, name string, row int, timeout time.Duration) error {
	e.overlay.WaitGone(ctx, minDuration(maxOverlayBeforeAction, timeout), "before "+name)

	target, err := e.resolver.Resolve(name)
	if err != nil {
		return err
	}

	switch target.Kind {
	case TargetRow:
		e.focusRow(ctx, row)
		return nil
	case TargetEdit:
		e.openEdit(ctx, row)
		return nil
	}

	if e.guard != nil {
		if err := e.guard.AllowClick(ctx, name); err != nil {
			return err
		}
	}
	return e.click(ctx, target, timeout)
}

// IsClickable reports whether the target can be acted on right now.
// For a row it also moves the grid focus to that row.
func (e *Executor) IsClickable(ctx context.Context, name string, row int, timeout time.Duration) bool {
	target, err := e.resolver.Resolve(name)
	if err != nil {
		e.logger.Debugf("clickable check %q: %v", name, err)
		return false
	}
	switch target.Kind {
	case TargetRow:
		if row != NoRow {
			if _, err := e.driver.ExecuteScript(ctx, focusOnlyScript, row); err != nil {
				return false
			}
		}
		return true
	case TargetEdit:
		return true
	}
	_, err = waits.ForAnyElement(ctx, e.driver, []entities.Locator{target.Locator}, waits.Clickable, timeout)
	return err == nil
}

func (e *Executor) focusRow(ctx context.Context, row int) {
	if row == NoRow {
		return
	}
	log := e.logger.WithField("g", row)
	if _, err := e.driver.ExecuteScript(ctx, focusRowScript, row); err != nil {
		log.Debugf("focus via grid API failed: %v", err)
	}

	el, err := waits.ForElement(ctx, e.driver, entities.ByID, fmt.Sprintf("%s%d", rowElementPrefix, row), waits.Present, rowPresenceTimeout)
	if err != nil {
		log.Debug("row element not rendered, relying on API focus")
		return
	}
	if _, err := e.driver.ExecuteScript(ctx, scrollScript, el); err != nil {
		log.Debugf("scroll into view failed: %v", err)
	}
	if cell, err := el.FindElement(entities.ByXPath, "./td[1]"); err == nil {
		if err := cell.Click(); err == nil {
			return
		}
	}
	if err := el.Click(); err != nil {
		log.Debugf("row click failed: %v", err)
	}
}

func (e *Executor) openEdit(ctx context.Context, row int) {
	if row != NoRow {
		if _, err := e.driver.ExecuteScript(ctx, focusOnlyScript, row); err != nil {
			e.logger.Debugf("focus before edit failed: %v", err)
		}
	}
	if _, err := e.driver.ExecuteScript(ctx, editItemScript); err != nil {
		e.logger.Debugf("editItem hook failed: %v", err)
	}
}

// click tries a native click, then a script click, then the Enter key,
// each only after the previous one failed
func (e *Executor) click(ctx context.Context, target Target, timeout time.Duration) error {
	locs := []entities.Locator{target.Locator}
	el, err := waits.ForAnyElement(ctx, e.driver, locs, waits.Present, timeout)
	if err != nil {
		return fmt.Errorf("target %q: %w", target.Name, err)
	}
	if _, err := e.driver.ExecuteScript(ctx, scrollScript, el); err != nil {
		e.logger.Debugf("scroll into view %q failed: %v", target.Name, err)
	}

	clickable, err := waits.ForAnyElement(ctx, e.driver, locs, waits.Clickable, clickableTimeout)
	if err == nil {
		if err = clickable.Click(); err == nil {
			return nil
		}
	}
	e.logger.Debugf("native click on %q failed (%v), trying script click", target.Name, err)

	if _, err := e.driver.ExecuteScript(ctx, clickScript, el); err == nil {
		return nil
	}
	if err := el.SendKeys(enterKey); err != nil {
		e.logger.Debugf("enter key on %q failed: %v", target.Name, err)
	}
	return nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

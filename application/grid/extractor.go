package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/config"
)

const (
	fieldVisibleTimeout = 20 * time.Second
	listReturnTimeout   = 20 * time.Second
	listOverlayTimeout  = 12 * time.Second

	fiscalTabTarget = "dados fiscais"
	cancelTarget    = "cancelar"

	// hiddenSignalsScript collects every checkbox signal for the field id in
	// arguments[0] and leaves the decision to Go
	hiddenSignalsScript = `var id = arguments[0];
var input = document.getElementById(id) || document.querySelector("input[name='" + id + "']");
var cont = input ? (input.closest('.dijitCheckBox') || input.parentElement) : null;
var out = {widget: null, checked: null, aria: '', container: false, attr: false};
try {
  if (window.dijit && dijit.byId) {
    var w = dijit.byId(id);
    if (w && typeof w.get === 'function') out.widget = !!w.get('checked');
  }
} catch (e) {}
if (input) {
  if (typeof input.checked !== 'undefined') out.checked = !!input.checked;
  out.aria = (input.getAttribute('aria-checked') || '').toLowerCase();
  out.attr = input.getAttribute('checked') !== null;
}
if (cont && /\bdijitCheckBoxChecked\b/.test(cont.className || '')) out.container = true;
return out;`
)

// fieldStrategy is one way of reading a field; ok is false when it found nothing
type fieldStrategy func(ctx context.Context) (value string, ok bool)

// firstOf runs strategies in order and returns the first value found
func firstOf(ctx context.Context, strategies ...fieldStrategy) string {
	for _, s := range strategies {
		if v, ok := s(ctx); ok {
			return v
		}
	}
	return ""
}

// Extractor reads one product from the open edit form and returns the UI to
// the result list
type Extractor struct {
	driver   interfaces.Driver
	executor *Executor
	overlay  *OverlayMonitor
	views    *Views
	modal    *ModalConfirmer
	form     config.EditFormLocators
	logger   *logrus.Logger

	fieldTimeout   time.Duration
	listTimeout    time.Duration
	listOverlayMax time.Duration
}

// NewExtractor reads the edit form fields named in form
func NewExtractor(driver interfaces.Driver, executor *Executor, overlay *OverlayMonitor, views *Views, modal *ModalConfirmer, form config.EditFormLocators, logger *logrus.Logger) *Extractor {
	return &Extractor{
		driver:   driver,
		executor: executor,
		overlay:  overlay,
		views:    views,
		modal:    modal,
		form:     form,
		logger:   logger,

		fieldTimeout:   fieldVisibleTimeout,
		listTimeout:    listReturnTimeout,
		listOverlayMax: listOverlayTimeout,
	}
}

// ExtractCurrentRecord reads code, name, tax rate and the hidden-from-menu
// flag, then cancels the edit. Only a missing name field is an error.
func (x *Extractor) ExtractCurrentRecord(ctx context.Context) (entities.Record, error) {
	code := x.readCode(ctx)

	name, err := x.readName(ctx)
	if err != nil {
		return entities.Record{}, err
	}

	rec := entities.Record{
		Code:           code,
		Name:           name,
		TaxRate:        x.readTaxRate(ctx),
		HiddenFromMenu: x.readHiddenFlag(ctx),
	}

	x.backToList(ctx)
	return rec, nil
}

func (x *Extractor) readCode(ctx context.Context) string {
	return firstOf(ctx,
		func(ctx context.Context) (string, bool) {
			el, err := waits.ForElement(ctx, x.driver, entities.ByID, x.form.CodeID, waits.Visible, x.fieldTimeout)
			if err != nil {
				return "", false
			}
			return elementValue(el), true
		},
		func(ctx context.Context) (string, bool) {
			el, err := x.driver.FindElement(ctx, entities.ByName, x.form.CodeID)
			if err != nil {
				return "", false
			}
			return elementValue(el), true
		},
	)
}

func (x *Extractor) readName(ctx context.Context) (string, error) {
	el, err := waits.ForElement(ctx, x.driver, entities.ByID, x.form.NameID, waits.Visible, x.fieldTimeout)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", x.form.NameID, err)
	}
	return elementValue(el), nil
}

func (x *Extractor) readTaxRate(ctx context.Context) string {
	if x.executor.IsClickable(ctx, fiscalTabTarget, NoRow, 5*time.Second) {
		if err := x.executor.Perform(ctx, fiscalTabTarget, NoRow, 10*time.Second); err != nil {
			x.logger.Debugf("switching to fiscal tab: %v", err)
		}
		x.overlay.WaitGone(ctx, 6*time.Second, fiscalTabTarget)
	}

	id := x.form.TaxRateID
	var base interfaces.Element
	return firstOf(ctx,
		func(ctx context.Context) (string, bool) {
			el, err := x.driver.FindElement(ctx, entities.ByID, id)
			if err != nil {
				return "", false
			}
			base = el
			if tag, err := el.TagName(); err == nil && strings.EqualFold(tag, "input") {
				return elementValue(el), true
			}
			return "", false
		},
		func(ctx context.Context) (string, bool) {
			if base == nil {
				return "", false
			}
			el, err := base.FindElement(entities.ByCSS, fmt.Sprintf("input, .dxeEditArea, input[id^='%s']", id))
			if err != nil {
				return "", false
			}
			return elementValue(el), true
		},
		func(ctx context.Context) (string, bool) {
			el, err := x.driver.FindElement(ctx, entities.ByCSS, fmt.Sprintf("input#%s, input[id^='%s']", id, id))
			if err != nil {
				return "", false
			}
			return elementValue(el), true
		},
		func(ctx context.Context) (string, bool) {
			el, err := x.driver.FindElement(ctx, entities.ByCSS, fmt.Sprintf("input[name*='%s']", id))
			if err != nil {
				return "", false
			}
			return elementValue(el), true
		},
	)
}

func (x *Extractor) readHiddenFlag(ctx context.Context) bool {
	res, err := x.driver.ExecuteScript(ctx, hiddenSignalsScript, x.form.HiddenFlagID)
	if err != nil {
		x.logger.Debugf("reading %s: %v", x.form.HiddenFlagID, err)
		return false
	}
	signals, _ := res.(map[string]interface{})
	return resolveHiddenFlag(signals)
}

// resolveHiddenFlag applies the checkbox signals in priority order: widget
// state, checked property, aria-checked, container class, checked attribute.
// No decisive signal means not hidden.
func resolveHiddenFlag(signals map[string]interface{}) bool {
	if signals == nil {
		return false
	}
	if v, ok := signals["widget"].(bool); ok {
		return v
	}
	if v, ok := signals["checked"].(bool); ok {
		return v
	}
	switch aria, _ := signals["aria"].(string); strings.ToLower(aria) {
	case "true":
		return true
	case "false":
		return false
	}
	if v, _ := signals["container"].(bool); v {
		return true
	}
	if v, _ := signals["attr"].(bool); v {
		return true
	}
	return false
}

// backToList cancels the edit, confirms the discard modal and waits for the
// result list. A stuck edit view is logged, not returned.
func (x *Extractor) backToList(ctx context.Context) {
	if x.executor.IsClickable(ctx, cancelTarget, NoRow, 6*time.Second) {
		if err := x.executor.Perform(ctx, cancelTarget, NoRow, 6*time.Second); err != nil {
			x.logger.Debugf("cancel edit: %v", err)
		} else {
			x.modal.Confirm(ctx, x.resultShown, ConfirmLabels...)
		}
	}

	if err := x.views.WaitResultView(ctx, x.listTimeout); err != nil {
		x.logger.Warnf("result view did not come back: %v", err)
		x.overlay.WaitGone(ctx, x.listOverlayMax, "after cancel")
	}
}

func (x *Extractor) resultShown(ctx context.Context) bool {
	res, err := x.driver.ExecuteScript(ctx, resultViewScript)
	return err == nil && waits.Truthy(res)
}

// elementValue is the value attribute, else the text, trimmed
func elementValue(el interfaces.Element) string {
	if v, err := el.Attribute("value"); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if t, err := el.Text(); err == nil {
		return strings.TrimSpace(t)
	}
	return ""
}

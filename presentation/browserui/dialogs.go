// Package browserui shows operator dialogs inside the automated browser.
//
// Every dialog is injected into the page by script, so the operator answers
// in the same window the extraction runs in.
package browserui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

const defaultOutputTimeout = 10 * time.Minute

// Dialogs implements interfaces.Prompter on top of a browser session
type Dialogs struct {
	driver interfaces.Driver
	logger *logrus.Logger

	outputTimeout time.Duration
}

var _ interfaces.Prompter = (*Dialogs)(nil)

func NewDialogs(driver interfaces.Driver, logger *logrus.Logger) *Dialogs {
	return &Dialogs{
		driver:        driver,
		logger:        logger,
		outputTimeout: defaultOutputTimeout,
	}
}

const askPagesScript = `
const cb = arguments[arguments.length - 1];
const msg = arguments[0] || '';
const okT = arguments[1] || 'OK';
const allT = arguments[2] || 'Extrair tudo';
const cancelT = arguments[3] || 'Cancelar';

const old = document.getElementById('totvs-pages-wrap');
if (old) old.remove();

const wrap = document.createElement('div');
wrap.id = 'totvs-pages-wrap';
wrap.style.cssText = 'position:fixed;inset:0;background:rgba(0,0,0,.45);display:flex;align-items:center;justify-content:center;z-index:2147483647';

const box = document.createElement('div');
box.style.cssText = 'background:#fff;padding:16px;border-radius:12px;min-width:320px;max-width:480px;box-shadow:0 10px 30px rgba(0,0,0,.3);font:14px system-ui,Segoe UI,Arial,sans-serif';

const label = document.createElement('div');
label.style.cssText = 'margin-bottom:10px;font-size:15px';
label.textContent = msg;

const input = document.createElement('input');
input.type = 'number';
input.min = '1';
input.step = '1';
input.placeholder = 'Ex: 5';
input.style.cssText = 'width:120px;padding:8px;border:1px solid #ccc;border-radius:8px;margin-bottom:12px';

const row = document.createElement('div');
row.style.cssText = 'display:flex;gap:8px;justify-content:flex-end';
function button(text, css) {
  const b = document.createElement('button');
  b.textContent = text;
  b.style.cssText = 'padding:8px 12px;border-radius:8px;' + css;
  row.appendChild(b);
  return b;
}
const all = button(allT, 'border:1px solid #0a84ff;background:#0a84ff;color:#fff');
const ok = button(okT, 'border:1px solid #0a84ff;background:#fff;color:#0a84ff');
const cancel = button(cancelT, 'border:1px solid #bbb;background:#f5f5f5');

box.appendChild(label);
box.appendChild(input);
box.appendChild(row);
wrap.appendChild(box);
document.body.appendChild(wrap);
input.focus();

let done = false;
function finish(val) {
  if (done) return;
  done = true;
  try { wrap.remove(); } catch (e) {}
  cb(val);
}
ok.onclick = () => {
  const val = parseInt(input.value, 10);
  finish(Number.isFinite(val) && val > 0 ? val : null);
};
all.onclick = () => finish(true);
cancel.onclick = () => finish(null);
input.onkeydown = (e) => {
  if (e.key === 'Enter') ok.click();
  if (e.key === 'Escape') cancel.click();
};
`

// AskPages asks for a page count; "extract all" answers PageSelection{All: true}
func (d *Dialogs) AskPages(ctx context.Context) (entities.PageSelection, error) {
	res, err := d.driver.ExecuteScriptAsync(ctx, askPagesScript,
		"Quantas páginas deseja extrair?", "OK", "Extrair tudo", "Cancelar")
	if err != nil {
		return entities.PageSelection{}, fmt.Errorf("page prompt failed: %w", err)
	}
	sel, err := pageSelection(res)
	if err != nil {
		return entities.PageSelection{}, err
	}
	d.logger.WithFields(logrus.Fields{"all": sel.All, "pages": sel.Pages}).Info("Operator chose pages")
	return sel, nil
}

func pageSelection(res interface{}) (entities.PageSelection, error) {
	switch v := res.(type) {
	case nil:
		return entities.PageSelection{}, entities.ErrCancelled
	case bool:
		if v {
			return entities.PageSelection{All: true}, nil
		}
		return entities.PageSelection{}, entities.ErrCancelled
	case float64:
		if v >= 1 {
			return entities.PageSelection{Pages: int(v)}, nil
		}
	case int:
		if v >= 1 {
			return entities.PageSelection{Pages: v}, nil
		}
	case int64:
		if v >= 1 {
			return entities.PageSelection{Pages: int(v)}, nil
		}
	}
	return entities.PageSelection{}, errors.New("page prompt returned an invalid answer")
}

const toastScript = `
const msg = arguments[0] || '';
const ms = arguments[1] || 2000;

let cont = document.getElementById('totvs-toast-cont');
if (!cont) {
  cont = document.createElement('div');
  cont.id = 'totvs-toast-cont';
  cont.style.cssText = 'position:fixed;top:16px;right:16px;z-index:2147483647;display:flex;flex-direction:column;gap:8px';
  document.body.appendChild(cont);
}

const t = document.createElement('div');
t.style.cssText = 'background:#333;color:#fff;padding:8px 12px;border-radius:10px;box-shadow:0 6px 18px rgba(0,0,0,.25);max-width:420px;font:13px system-ui,Segoe UI,Arial,sans-serif;opacity:0;transform:translateY(-6px);transition:all .2s ease';
t.textContent = msg;
cont.appendChild(t);

requestAnimationFrame(() => {
  t.style.opacity = '1';
  t.style.transform = 'translateY(0)';
});
setTimeout(() => {
  t.style.opacity = '0';
  setTimeout(() => t.remove(), 250);
}, ms);
`

// Notify shows a toast in the top-right corner
func (d *Dialogs) Notify(ctx context.Context, message string, dur time.Duration) {
	if _, err := d.driver.ExecuteScript(ctx, toastScript, message, dur.Milliseconds()); err != nil {
		d.logger.WithError(err).Debug("toast failed")
	}
}

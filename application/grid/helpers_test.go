package grid

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/browser/browsertest"
	"totvs_automation/infrastructure/config"
)

var testGrid = config.GridLocators{
	ContainerCSS: []string{"#tabPanelResultContainer"},
	HeaderCSS:    []string{"thead th"},
	RowCSS:       []string{"tr[id^='dataGrid_DXDataRow']"},
}

var testPagination = config.PaginationLocators{
	Next:   entities.Locator{By: entities.ByCSS, Value: ".dxp-button:last-of-type"},
	Anchor: entities.Locator{By: entities.ByCSS, Value: "#tabPanelResultContainer tr[id^='dataGrid_DXDataRow']"},
}

var testForm = config.EditFormLocators{
	CodeID:       "CodigoProduto",
	NameID:       "NomeProduto",
	TaxRateID:    "AliquotaIcmsEfetivo",
	HiddenFlagID: "NaoExibirNoCardapio",
}

// scripts routes ExecuteScript calls by script constant
type scripts struct {
	mu       sync.Mutex
	handlers map[string]browsertest.ScriptFunc
	args     map[string][][]interface{}
}

func newScripts() *scripts {
	return &scripts{
		handlers: make(map[string]browsertest.ScriptFunc),
		args:     make(map[string][][]interface{}),
	}
}

func (s *scripts) on(script string, fn browsertest.ScriptFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[script] = fn
}

func (s *scripts) returns(script string, v interface{}) {
	s.on(script, func(string, []interface{}) (interface{}, error) { return v, nil })
}

func (s *scripts) calls(script string) [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.args[script]
}

func (s *scripts) run(script string, args []interface{}) (interface{}, error) {
	s.mu.Lock()
	s.args[script] = append(s.args[script], args)
	fn := s.handlers[script]
	s.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(script, args)
}

type harness struct {
	driver   *browsertest.Driver
	scripts  *scripts
	logger   *logrus.Logger
	hook     *test.Hook
	overlay  *OverlayMonitor
	views    *Views
	executor *Executor
	modal    *ModalConfirmer
}

func newHarness(t *testing.T, guard *denyGuard) *harness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	d := browsertest.NewDriver()
	s := newScripts()
	d.Script = s.run

	h := &harness{driver: d, scripts: s, logger: logger, hook: hook}
	h.overlay = NewOverlayMonitor(d, logger)
	h.overlay.interval = time.Millisecond
	h.views = NewViews(d, testGrid, logger)
	if guard == nil {
		guard = &denyGuard{}
	}
	h.executor = NewExecutor(d, h.overlay, NewResolver(nil), guard, logger)
	h.modal = NewModalConfirmer(d, logger)
	return h
}

var errRefused = errors.New("refused")

// denyGuard refuses targets containing any of its words
type denyGuard struct {
	words []string
}

func (g *denyGuard) AllowClick(ctx context.Context, target string) error {
	for _, w := range g.words {
		if strings.Contains(strings.ToLower(target), w) {
			return errRefused
		}
	}
	return nil
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

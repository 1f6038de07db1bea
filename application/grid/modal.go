package grid

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// ConfirmLabels are the button captions accepted as "yes" on a confirm modal
var ConfirmLabels = []string{"Sim", "Yes", "OK", "Confirmar"}

const buttonsXPath = "//*[self::button or self::a]"

// modalRoots are searched in order: the newest bootbox modal, the newest open
// modal, then the whole document
var modalRoots = []struct {
	xpath   string
	partial bool
}{
	{"//div[contains(@class,'bootbox') and contains(@class,'modal') and (contains(@class,'in') or contains(@style,'display: block'))][last()]", true},
	{"//div[contains(@class,'modal') and (contains(@class,'in') or contains(@style,'display: block'))][last()]", true},
	{"//body", false},
}

// ModalConfirmer clicks the affirmative button of a confirmation modal
type ModalConfirmer struct {
	driver  interfaces.Driver
	logger  *logrus.Logger
	timeout time.Duration
}

// NewModalConfirmer looks for confirm buttons for up to six seconds
func NewModalConfirmer(driver interfaces.Driver, logger *logrus.Logger) *ModalConfirmer {
	return &ModalConfirmer{driver: driver, logger: logger, timeout: 6 * time.Second}
}

// Confirm looks for a button whose caption matches one of labels, ignoring
// case and accents, and clicks it. Inside a modal a caption containing the
// label is enough; at document level it must match exactly. Polling stops
// early when settled reports true. Returns whether a button was clicked.
func (m *ModalConfirmer) Confirm(ctx context.Context, settled func(ctx context.Context) bool, labels ...string) bool {
	if len(labels) == 0 {
		labels = ConfirmLabels
	}
	wanted := make([]string, len(labels))
	for i, l := range labels {
		wanted[i] = fold(l)
	}

	clicked := false
	err := waits.Until(ctx, m.timeout, waits.ElementInterval, "confirm modal", func(ctx context.Context) (bool, error) {
		for _, root := range modalRoots {
			if m.clickIn(ctx, root.xpath, root.partial, wanted) {
				clicked = true
				return true, nil
			}
		}
		return settled != nil && settled(ctx), nil
	})
	if err != nil {
		m.logger.Debugf("no confirm button found: %v", err)
	}
	return clicked
}

func (m *ModalConfirmer) clickIn(ctx context.Context, root string, partial bool, wanted []string) bool {
	els, err := m.driver.FindElements(ctx, entities.ByXPath, root+buttonsXPath)
	if err != nil || len(els) == 0 {
		return false
	}
	for _, label := range wanted {
		for _, el := range els {
			text, err := el.Text()
			if err != nil || !captionMatches(fold(text), label, partial) {
				continue
			}
			if shown, err := el.IsDisplayed(); err != nil || !shown {
				continue
			}
			if enabled, err := el.IsEnabled(); err != nil || !enabled {
				continue
			}
			if err := el.Click(); err != nil {
				m.logger.Debugf("modal button %q click failed: %v", text, err)
				continue
			}
			m.logger.Debugf("confirmed modal with %q", text)
			return true
		}
	}
	return false
}

func captionMatches(caption, label string, partial bool) bool {
	if caption == label {
		return true
	}
	return partial && label != "" && strings.Contains(caption, label)
}

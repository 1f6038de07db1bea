package grid

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/browser/browsertest"
)

func TestWaitResultView(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.scripts.returns(resultViewScript, false)
	require.ErrorIs(t, h.views.WaitResultView(ctx, 10*time.Millisecond), entities.ErrTimeout)

	h.scripts.returns(resultViewScript, true)
	require.NoError(t, h.views.WaitResultView(ctx, time.Second))
}

func TestWaitEditViewNeedsContentContainer(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.scripts.returns(editViewScript, true)

	err := h.views.WaitEditView(ctx, 10*time.Millisecond)
	require.ErrorIs(t, err, entities.ErrTimeout)

	h.driver.Put(entities.ByID, editContainerID, browsertest.NewElement("div", "", nil))
	require.NoError(t, h.views.WaitEditView(ctx, time.Second))
}

func TestWaitGridReady(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.driver.Put(entities.ByCSS, "#tabPanelResultContainer", browsertest.NewElement("div", "", nil))

	h.scripts.returns(rowCountScript, float64(0))
	require.ErrorIs(t, h.views.WaitGridReady(ctx, 10*time.Millisecond), entities.ErrTimeout)

	h.scripts.returns(rowCountScript, float64(10))
	require.NoError(t, h.views.WaitGridReady(ctx, time.Second))

	args := h.scripts.calls(rowCountScript)
	require.Equal(t, []interface{}{"#tabPanelResultContainer", "tr[id^='dataGrid_DXDataRow']"}, args[len(args)-1])
}

func TestFirstRowIndex(t *testing.T) {
	tests := []struct {
		name string
		res  interface{}
		want int
	}{
		{"float from webdriver", float64(20), 20},
		{"int from playwright", 30, 30},
		{"no rows", nil, 0},
		{"negative", float64(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.scripts.returns(firstRowIndexScript, tt.res)
			got, err := h.views.FirstRowIndex(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogHeaders(t *testing.T) {
	h := newHarness(t, nil)
	h.scripts.returns(headersScript, []interface{}{"Código", "Descrição"})

	h.views.LogHeaders(context.Background())
	require.Contains(t, messages(h.hook), "grid headers: [Código Descrição]")

	h.hook.Reset()
	h.logger.SetLevel(logrus.InfoLevel)
	h.views.LogHeaders(context.Background())
	require.Empty(t, h.hook.AllEntries())
}

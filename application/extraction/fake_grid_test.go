package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/paging"
)

var errBoom = errors.New("boom")

// fakeGrid is a server-side grid of pages*PageSize rows, or fewer when
// lastPageRows is set
type fakeGrid struct {
	pages        int
	lastPageRows int
	page         int
	focused      int

	// failOnVisit makes the n-th extraction (1-based) fail
	failOnVisit int
	// editTimeouts is how many WaitEditView calls time out per row
	editTimeouts map[int]int
	advanceErr   error

	visited   []int
	edits     []int
	advances  int
	extracted int
}

func newFakeGrid(pages int) *fakeGrid {
	return &fakeGrid{pages: pages, page: 1, focused: -1, editTimeouts: map[int]int{}}
}

func (f *fakeGrid) rowsOn(page int) int {
	if page == f.pages && f.lastPageRows > 0 {
		return f.lastPageRows
	}
	return paging.PageSize
}

func (f *fakeGrid) WaitGridReady(ctx context.Context, timeout time.Duration) error { return nil }

func (f *fakeGrid) WaitGone(ctx context.Context, max time.Duration, tag string) bool { return true }

func (f *fakeGrid) FirstRowIndex(ctx context.Context) (int, error) {
	return paging.FirstIndex(f.page), nil
}

func (f *fakeGrid) RowCount(ctx context.Context) (int, error) { return f.rowsOn(f.page), nil }

func (f *fakeGrid) IsClickable(ctx context.Context, name string, row int, timeout time.Duration) bool {
	return true
}

func (f *fakeGrid) Perform(ctx context.Context, name string, row int, timeout time.Duration) error {
	switch name {
	case rowTarget:
		if paging.ToPage(row) != f.page {
			return fmt.Errorf("row %d is not on page %d", row, f.page)
		}
		f.focused = row
		f.visited = append(f.visited, row)
	case editTarget:
		f.edits = append(f.edits, row)
	}
	return nil
}

func (f *fakeGrid) WaitEditView(ctx context.Context, timeout time.Duration) error {
	if f.editTimeouts[f.focused] > 0 {
		f.editTimeouts[f.focused]--
		return &entities.TimeoutError{Op: "edit view", After: timeout}
	}
	return nil
}

func (f *fakeGrid) ExtractCurrentRecord(ctx context.Context) (entities.Record, error) {
	f.extracted++
	if f.extracted == f.failOnVisit {
		return entities.Record{}, errBoom
	}
	return recordFor(f.focused), nil
}

func (f *fakeGrid) AdvancePage(ctx context.Context, current int) (bool, int, error) {
	f.advances++
	if f.advanceErr != nil {
		return false, current, f.advanceErr
	}
	if f.page >= f.pages {
		return false, current, nil
	}
	f.page++
	return true, current + 1, nil
}

func recordFor(g int) entities.Record {
	return entities.Record{
		Code:           fmt.Sprintf("%06d", g+1),
		Name:           fmt.Sprintf("Produto %d", g),
		TaxRate:        "18,00",
		HiddenFromMenu: g%3 == 0,
	}
}

func newLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func mustLoop(t *testing.T, g Grid, maxPages int) *Loop {
	t.Helper()
	logger, _ := newLogger()
	return NewLoop(g, maxPages, logger)
}

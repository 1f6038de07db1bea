package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"totvs_automation/application/grid"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/paging"
)

func TestLoopVisitsEveryRowOnceInOrder(t *testing.T) {
	for _, pages := range []int{1, 2, 5} {
		f := newFakeGrid(pages)
		res, err := mustLoop(t, f, 140).Run(context.Background(), entities.PageSelection{All: true})
		require.NoError(t, err)

		want := indices(pages * paging.PageSize)
		require.Equal(t, want, f.visited)
		require.Len(t, res.Records, len(want))
		require.Equal(t, pages, res.Pages)
		require.Equal(t, 0, res.FirstIndex)
		require.Equal(t, len(want)-1, res.LastIndex)
		for i, r := range res.Records {
			require.Equal(t, recordFor(i), r)
		}
		// the last page reports no advance and the loop keeps what it read
		require.Equal(t, pages, f.advances)
	}
}

func TestLoopStopsAtShortLastPage(t *testing.T) {
	f := newFakeGrid(3)
	f.lastPageRows = 4

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	require.NoError(t, err)
	require.Len(t, res.Records, 24)
	require.Equal(t, indices(24), f.visited)
}

func TestLoopHonoursPageBudget(t *testing.T) {
	tests := []struct {
		name     string
		sel      entities.PageSelection
		maxPages int
		want     int
	}{
		{"explicit pages", entities.PageSelection{Pages: 2}, 140, 2},
		{"explicit capped by ceiling", entities.PageSelection{Pages: 9}, 3, 3},
		{"all capped by ceiling", entities.PageSelection{All: true}, 4, 4},
		{"all without ceiling", entities.PageSelection{All: true}, 0, 6},
		{"zero pages means one", entities.PageSelection{}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeGrid(6)
			res, err := mustLoop(t, f, tt.maxPages).Run(context.Background(), tt.sel)
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Pages)
			require.Len(t, res.Records, tt.want*paging.PageSize)
		})
	}
}

func TestLoopStartsAtFirstRowOnScreen(t *testing.T) {
	f := newFakeGrid(4)
	f.page = 3

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	require.NoError(t, err)
	require.Equal(t, 20, res.FirstIndex)
	require.Equal(t, 20, f.visited[0])
	require.Equal(t, 39, f.visited[len(f.visited)-1])
	require.Equal(t, 2, res.Pages)
}

func TestLoopRetriesEditOnce(t *testing.T) {
	f := newFakeGrid(1)
	f.editTimeouts[4] = 1

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	require.NoError(t, err)
	require.Len(t, res.Records, paging.PageSize)

	retries := 0
	for _, row := range f.edits {
		if row == grid.NoRow {
			retries++
		}
	}
	require.Equal(t, 1, retries)
}

func TestLoopFailsWhenEditNeverOpens(t *testing.T) {
	f := newFakeGrid(2)
	f.editTimeouts[12] = 2

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	var rowErr *entities.RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 12, rowErr.Index)
	require.Equal(t, 2, rowErr.Page)
	require.Equal(t, 2, rowErr.Offset)
	require.ErrorIs(t, err, entities.ErrTimeout)
	require.Len(t, res.Records, 12)
}

func TestLoopKeepsRecordsBeforeFailingRow(t *testing.T) {
	f := newFakeGrid(3)
	f.failOnVisit = 15

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	require.ErrorIs(t, err, errBoom)
	require.Len(t, res.Records, 14)
	require.Equal(t, 13, res.LastIndex)
}

func TestLoopPagerErrorIsRowError(t *testing.T) {
	f := newFakeGrid(3)
	f.advanceErr = &entities.TimeoutError{Op: "grid rows"}

	res, err := mustLoop(t, f, 0).Run(context.Background(), entities.PageSelection{All: true})
	var rowErr *entities.RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 9, rowErr.Index)
	require.Len(t, res.Records, 10)
}

func TestLoopStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := mustLoop(t, newFakeGrid(1), 0).Run(ctx, entities.PageSelection{All: true})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, res.Records)
}

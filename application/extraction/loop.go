// Package extraction walks the product grid row by row and exports what it read.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/application/grid"
	"totvs_automation/domain/entities"
	"totvs_automation/domain/paging"
)

// Grid is what the loop needs from the browser side; *grid.Session implements it
type Grid interface {
	WaitGridReady(ctx context.Context, timeout time.Duration) error
	WaitGone(ctx context.Context, max time.Duration, tag string) bool
	FirstRowIndex(ctx context.Context) (int, error)
	RowCount(ctx context.Context) (int, error)
	IsClickable(ctx context.Context, name string, row int, timeout time.Duration) bool
	Perform(ctx context.Context, name string, row int, timeout time.Duration) error
	WaitEditView(ctx context.Context, timeout time.Duration) error
	ExtractCurrentRecord(ctx context.Context) (entities.Record, error)
	AdvancePage(ctx context.Context, current int) (bool, int, error)
}

const (
	rowTarget  = "linha"
	editTarget = "editar"

	gridReadyTimeout = 20 * time.Second
	startOverlayWait = 4 * time.Second
	rowActionTimeout = 12 * time.Second
	editViewTimeout  = 20 * time.Second
	retryOverlayWait = 8 * time.Second
	retryEditTimeout = 15 * time.Second
	afterExtractWait = 10 * time.Second
)

// Result is what a loop run collected
type Result struct {
	Records    []entities.Record
	Pages      int
	FirstIndex int
	LastIndex  int
}

// Loop visits grid rows in global index order, one edit form at a time
type Loop struct {
	grid     Grid
	maxPages int
	logger   *logrus.Logger
}

// NewLoop returns a loop that never visits more than maxPages pages; 0 means no ceiling
func NewLoop(g Grid, maxPages int, logger *logrus.Logger) *Loop {
	return &Loop{grid: g, maxPages: maxPages, logger: logger}
}

// Budget returns how many pages a run may visit for sel, 0 meaning unbounded
func (l *Loop) Budget(sel entities.PageSelection) int {
	budget := sel.Pages
	if sel.All {
		budget = 0
	} else if budget < 1 {
		budget = 1
	}
	if l.maxPages > 0 && (budget == 0 || budget > l.maxPages) {
		budget = l.maxPages
	}
	return budget
}

// Run extracts rows starting at the first row on screen until the page
// budget is spent or the pager reports no next page. On a row failure the
// records read so far are returned together with a *entities.RowError.
func (l *Loop) Run(ctx context.Context, sel entities.PageSelection) (Result, error) {
	var res Result
	if err := l.grid.WaitGridReady(ctx, gridReadyTimeout); err != nil {
		return res, fmt.Errorf("product grid not ready: %w", err)
	}
	l.grid.WaitGone(ctx, startOverlayWait, "start")

	g, err := l.grid.FirstRowIndex(ctx)
	if err != nil {
		l.logger.Warnf("could not read first row index, starting at 0: %v", err)
		g = 0
	}
	page := paging.ToPage(g)
	budget := l.Budget(sel)
	res.FirstIndex, res.LastIndex, res.Pages = g, g-1, 1

	l.logger.WithFields(logrus.Fields{"g": g, "page": page, "budget": budget}).Info("starting extraction")

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		offset := paging.ToOffset(g, page)
		log := l.logger.WithFields(logrus.Fields{"g": g, "page": page, "offset": offset})

		if offset > 0 && l.pastLastRow(ctx, offset) {
			log.Info("no more rows on the last page")
			break
		}

		log.Infof("page %d item %d/%d", page, offset, paging.PageSize-1)
		rec, err := l.visit(ctx, g)
		if err != nil {
			return res, &entities.RowError{Index: g, Page: page, Offset: offset, Err: err}
		}
		res.Records = append(res.Records, rec)
		res.LastIndex = g
		log.WithField("codigo", rec.Code).Debug("record extracted")

		l.grid.WaitGone(ctx, afterExtractWait, "after extract")

		if paging.IsLastOffset(offset) {
			if budget > 0 && res.Pages >= budget {
				log.Infof("page budget of %d reached", budget)
				break
			}
			advanced, next, err := l.grid.AdvancePage(ctx, page)
			if err != nil {
				return res, &entities.RowError{Index: g, Page: page, Offset: offset, Err: err}
			}
			if !advanced {
				log.Info("no next page, extraction finished")
				break
			}
			page = next
			res.Pages++
		}
		g++
	}
	return res, nil
}

// visit opens the edit form of row g and reads it
func (l *Loop) visit(ctx context.Context, g int) (entities.Record, error) {
	if !l.grid.IsClickable(ctx, rowTarget, g, rowActionTimeout) {
		l.logger.WithField("g", g).Debug("could not focus row, trying anyway")
	}
	if err := l.grid.Perform(ctx, rowTarget, g, rowActionTimeout); err != nil {
		return entities.Record{}, err
	}
	if err := l.grid.Perform(ctx, editTarget, g, rowActionTimeout); err != nil {
		return entities.Record{}, err
	}

	if err := l.grid.WaitEditView(ctx, editViewTimeout); err != nil {
		if !errors.Is(err, entities.ErrTimeout) {
			return entities.Record{}, err
		}
		l.logger.WithField("g", g).Warnf("edit form did not open, retrying once: %v", err)
		if err := l.grid.Perform(ctx, editTarget, grid.NoRow, retryOverlayWait); err != nil {
			return entities.Record{}, err
		}
		l.grid.WaitGone(ctx, retryOverlayWait, "retry edit")
		if err := l.grid.WaitEditView(ctx, retryEditTimeout); err != nil {
			return entities.Record{}, err
		}
	}

	return l.grid.ExtractCurrentRecord(ctx)
}

// pastLastRow reports whether offset is beyond the rows rendered on a short page
func (l *Loop) pastLastRow(ctx context.Context, offset int) bool {
	n, err := l.grid.RowCount(ctx)
	return err == nil && n > 0 && offset >= n
}

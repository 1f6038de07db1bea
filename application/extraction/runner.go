package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

// RunOptions configures one extraction run
type RunOptions struct {
	// Selection skips the page-count prompt when set
	Selection  *entities.PageSelection
	OutputPath string
}

// Runner ties the loop to the exporter so that whatever was collected is
// saved, whether the loop ended normally or not
type Runner struct {
	loop     *Loop
	exporter *Exporter
	prompter interfaces.Prompter
	journal  interfaces.RunJournal
	logger   *logrus.Logger
	now      func() time.Time
}

func NewRunner(loop *Loop, exporter *Exporter, prompter interfaces.Prompter, journal interfaces.RunJournal, logger *logrus.Logger) *Runner {
	return &Runner{
		loop:     loop,
		exporter: exporter,
		prompter: prompter,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
	}
}

// Run asks for the page count when needed, runs the loop and exports the
// records. The loop error, if any, is returned after the partial export.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (entities.RunSummary, error) {
	summary := entities.RunSummary{Status: entities.RunStatusInProgress, StartedAt: r.now()}

	sel, err := r.selection(ctx, opts)
	if err != nil {
		if errors.Is(err, entities.ErrCancelled) {
			r.logger.Info("extraction cancelled before start")
			summary.Status = entities.RunStatusCancelled
			return r.finish(summary), nil
		}
		summary.Status = entities.RunStatusFailed
		summary.Error = err.Error()
		return r.finish(summary), err
	}

	res, loopErr := r.loop.Run(ctx, sel)
	summary.Records = len(res.Records)
	summary.Pages = res.Pages
	summary.FirstIndex = res.FirstIndex
	summary.LastIndex = res.LastIndex

	// the browser may be unusable and ctx cancelled; saving must still run
	saveCtx := context.WithoutCancel(ctx)
	var exportErr error
	if len(res.Records) > 0 {
		out, err := r.exporter.Export(saveCtx, opts.OutputPath, res.Records)
		if err != nil {
			r.logger.Errorf("failed to save collected records: %v", err)
			exportErr = err
		}
		summary.OutputPath = out.Path
		summary.JSONPath = out.JSONPath
		if out.Cancelled {
			summary.Status = entities.RunStatusCancelled
		}
	} else if loopErr != nil {
		r.logger.Warn("error before any row was collected, nothing was saved")
	}

	switch {
	case loopErr != nil:
		summary.Status = entities.RunStatusFailed
		summary.Error = loopErr.Error()
	case exportErr != nil:
		summary.Status = entities.RunStatusFailed
		summary.Error = exportErr.Error()
	case summary.Status != entities.RunStatusCancelled:
		summary.Status = entities.RunStatusCompleted
		r.prompter.Notify(saveCtx, fmt.Sprintf("Extração concluída: %d registros", summary.Records), 4*time.Second)
	}

	summary = r.finish(summary)
	if loopErr != nil {
		return summary, loopErr
	}
	return summary, exportErr
}

func (r *Runner) selection(ctx context.Context, opts RunOptions) (entities.PageSelection, error) {
	if opts.Selection != nil {
		return *opts.Selection, nil
	}
	return r.prompter.AskPages(ctx)
}

func (r *Runner) finish(summary entities.RunSummary) entities.RunSummary {
	summary.Duration = r.now().Sub(summary.StartedAt)
	if r.journal != nil {
		if err := r.journal.SaveRun(summary); err != nil {
			r.logger.Warnf("failed to save run journal: %v", err)
		}
	}
	return summary
}

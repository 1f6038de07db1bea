package extraction

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/storage"
)

type memJournal struct {
	runs []entities.RunSummary
}

func (j *memJournal) SaveRun(s entities.RunSummary) error {
	j.runs = append(j.runs, s)
	return nil
}

func (j *memJournal) LastRun() (*entities.RunSummary, error) {
	if len(j.runs) == 0 {
		return nil, nil
	}
	return &j.runs[len(j.runs)-1], nil
}

func newRunner(f *fakeGrid, p *fakePrompter, j *memJournal) *Runner {
	logger, _ := newLogger()
	return NewRunner(NewLoop(f, 140, logger), newExporter(p, false), p, j, logger)
}

func TestRunnerSavesPartialRecordsOnRowFailure(t *testing.T) {
	for _, k := range []int{1, 2, 7, 11} {
		path := filepath.Join(t.TempDir(), "aliquotas.csv")
		f := newFakeGrid(2)
		f.failOnVisit = k
		j := &memJournal{}

		summary, err := newRunner(f, &fakePrompter{}, j).Run(context.Background(), RunOptions{
			Selection:  &entities.PageSelection{All: true},
			OutputPath: path,
		})
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, entities.RunStatusFailed, summary.Status)
		require.Equal(t, k-1, summary.Records)

		if k == 1 {
			require.NoFileExists(t, path)
		} else {
			recs, err := storage.NewCSVStore().ReadRecords(path)
			require.NoError(t, err)
			require.Len(t, recs, k-1)
			require.Equal(t, recordFor(k-2), recs[k-2])
		}
		require.Len(t, j.runs, 1)
		require.Contains(t, j.runs[0].Error, "boom")
	}
}

func TestRunnerCompletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliquotas.csv")
	p := &fakePrompter{selection: entities.PageSelection{Pages: 2}}
	j := &memJournal{}

	summary, err := newRunner(newFakeGrid(5), p, j).Run(context.Background(), RunOptions{OutputPath: path})
	require.NoError(t, err)
	require.Equal(t, 1, p.asked)
	require.Equal(t, entities.RunStatusCompleted, summary.Status)
	require.Equal(t, 20, summary.Records)
	require.Equal(t, 2, summary.Pages)
	require.Equal(t, 19, summary.LastIndex)
	require.NotEmpty(t, summary.OutputPath)
	require.Len(t, p.notified, 1)
	require.Equal(t, summary, j.runs[0])
}

func TestRunnerCancelledAtPagePrompt(t *testing.T) {
	f := newFakeGrid(1)
	p := &fakePrompter{askErr: entities.ErrCancelled}

	summary, err := newRunner(f, p, &memJournal{}).Run(context.Background(), RunOptions{
		OutputPath: filepath.Join(t.TempDir(), "a.csv"),
	})
	require.NoError(t, err)
	require.Equal(t, entities.RunStatusCancelled, summary.Status)
	require.Empty(t, f.visited)
}

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"totvs_automation/domain/entities"
)

const historySize = 20

// Journal keeps the summaries of past runs as JSON files
type Journal struct {
	lastPath    string
	historyPath string
}

// NewRunJournal keeps run summaries under dir, or ~/.totvs_automation when dir is empty
func NewRunJournal(dir string) (*Journal, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".totvs_automation")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Journal{
		lastPath:    filepath.Join(dir, "last_run.json"),
		historyPath: filepath.Join(dir, "history.json"),
	}, nil
}

// SaveRun - stores summary as the last run and appends it to the history
func (j *Journal) SaveRun(summary entities.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(j.lastPath, data, 0o644); err != nil {
		return err
	}

	history, err := j.History()
	if err != nil {
		history = nil
	}
	history = append(history, summary)
	if len(history) > historySize {
		history = history[len(history)-historySize:]
	}
	data, err = json.Marshal(history)
	if err != nil {
		return err
	}
	return os.WriteFile(j.historyPath, data, 0o644)
}

// LastRun - loads the last saved summary, nil when there is none
func (j *Journal) LastRun() (*entities.RunSummary, error) {
	data, err := os.ReadFile(j.lastPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var summary entities.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// History - loads up to the last 20 run summaries, oldest first
func (j *Journal) History() ([]entities.RunSummary, error) {
	data, err := os.ReadFile(j.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunSummary{}, nil
		}
		return nil, err
	}

	var history []entities.RunSummary
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

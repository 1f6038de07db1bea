package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/entities"
	"totvs_automation/domain/interfaces"
)

const invalidNameChars = `\/:*?"<>|`

// SanitizeFileName replaces characters that are not allowed in file names
// with "_" and makes sure the name ends in .csv
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidNameChars, r) {
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name
}

// ExportResult tells where records were written
type ExportResult struct {
	Path      string
	JSONPath  string
	Written   int
	Cancelled bool
}

// Exporter writes records to the CSV file, asking the operator what to do
// when the default file already exists. A JSON copy is written when a JSON
// store is set.
type Exporter struct {
	csv      interfaces.RecordStore
	json     interfaces.RecordStore
	prompter interfaces.Prompter
	logger   *logrus.Logger
	now      func() time.Time
}

func NewExporter(csv interfaces.RecordStore, json interfaces.RecordStore, prompter interfaces.Prompter, logger *logrus.Logger) *Exporter {
	return &Exporter{csv: csv, json: json, prompter: prompter, logger: logger, now: time.Now}
}

// Export writes records next to defaultPath. It does nothing when the
// operator cancels the prompt.
func (e *Exporter) Export(ctx context.Context, defaultPath string, records []entities.Record) (ExportResult, error) {
	path, mode, err := e.destination(ctx, defaultPath)
	if errors.Is(err, entities.ErrCancelled) {
		e.logger.Warn("export cancelled by the operator, nothing was saved")
		return ExportResult{Cancelled: true}, nil
	}
	if err != nil {
		return ExportResult{}, err
	}

	if err := e.csv.WriteRecords(path, records, mode); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	res := ExportResult{Path: path, Written: len(records)}
	if abs, err := filepath.Abs(path); err == nil {
		res.Path = abs
	}
	e.logger.Infof("saved %d rows to %s", len(records), res.Path)

	if e.json != nil {
		jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + e.json.Extension()
		if err := e.json.WriteRecords(jsonPath, records, mode); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", jsonPath, err)
		}
		res.JSONPath = jsonPath
		e.logger.Infof("saved %d records to %s", len(records), jsonPath)
	}
	return res, nil
}

// destination picks the output file and whether it is truncated or appended
func (e *Exporter) destination(ctx context.Context, defaultPath string) (string, entities.WriteMode, error) {
	if !exists(defaultPath) {
		return defaultPath, entities.WriteCreate, nil
	}

	choice, err := e.prompter.ChooseOutput(ctx, defaultPath)
	if err != nil {
		if errors.Is(err, entities.ErrCancelled) {
			return "", 0, err
		}
		fallback := e.fallbackPath(defaultPath)
		e.logger.Warnf("output prompt failed (%v), saving to %s instead", err, fallback)
		return fallback, entities.WriteCreate, nil
	}

	switch choice.Action {
	case entities.OutputCancel:
		return "", 0, entities.ErrCancelled
	case entities.OutputOverwrite:
		return defaultPath, entities.WriteCreate, nil
	case entities.OutputRename:
		path := filepath.Join(filepath.Dir(defaultPath), SanitizeFileName(choice.Name))
		if exists(path) {
			return path, entities.WriteAppend, nil
		}
		return path, entities.WriteCreate, nil
	default:
		return defaultPath, entities.WriteAppend, nil
	}
}

// fallbackPath is a fresh sibling of path used when the operator cannot be asked
func (e *Exporter) fallbackPath(path string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(path, ext), e.now().Format("20060102_150405"), ext)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

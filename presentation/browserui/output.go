package browserui

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"

	"totvs_automation/application/waits"
	"totvs_automation/domain/entities"
)

const (
	resultPrefix    = "RES:"
	resultOverwrite = "RES:OVERWRITE"
	resultCancel    = "RES:CANCEL"
	resultRename    = "RES:RENAME:"
)

//go:embed output.html
var outputPage string

var outputTemplate = template.Must(template.New("output").Parse(outputPage))

// ChooseOutput opens a tab asking whether to overwrite, rename or cancel.
// The page answers by setting its title to a RES: sentinel; the tab is closed
// and the original window restored whatever the outcome.
func (d *Dialogs) ChooseOutput(ctx context.Context, path string) (entities.OutputChoice, error) {
	doc, err := renderOutputPage(filepath.Base(path))
	if err != nil {
		return entities.OutputChoice{}, err
	}

	original, err := d.driver.CurrentWindow(ctx)
	if err != nil {
		return entities.OutputChoice{}, fmt.Errorf("failed to read current window: %w", err)
	}
	tab, err := d.driver.NewTab(ctx)
	if err != nil {
		return entities.OutputChoice{}, fmt.Errorf("failed to open prompt tab: %w", err)
	}
	defer func() {
		if err := d.driver.CloseWindow(ctx, tab); err != nil {
			d.logger.WithError(err).Warn("failed to close prompt tab")
		}
		if err := d.driver.SwitchWindow(ctx, original); err != nil {
			d.logger.WithError(err).Warn("failed to return to the ERP window")
		}
	}()

	if err := d.driver.Get(ctx, "data:text/html;charset=utf-8,"+url.PathEscape(doc)); err != nil {
		return entities.OutputChoice{}, fmt.Errorf("failed to load prompt page: %w", err)
	}

	d.logger.WithField("file", path).Info("Waiting for the operator to choose the output file")
	title, err := waits.ForTitlePrefix(ctx, d.driver, resultPrefix, d.outputTimeout)
	if err != nil {
		return entities.OutputChoice{}, fmt.Errorf("output prompt: %w", err)
	}
	return parseResult(title)
}

func renderOutputPage(name string) (string, error) {
	var buf bytes.Buffer
	if err := outputTemplate.Execute(&buf, struct{ Name string }{name}); err != nil {
		return "", fmt.Errorf("failed to render output prompt: %w", err)
	}
	return buf.String(), nil
}

// parseResult decodes a RES: title sentinel
func parseResult(title string) (entities.OutputChoice, error) {
	switch {
	case title == resultOverwrite:
		return entities.OutputChoice{Action: entities.OutputOverwrite}, nil
	case title == resultCancel:
		return entities.OutputChoice{Action: entities.OutputCancel}, nil
	case strings.HasPrefix(title, resultRename):
		name, err := url.PathUnescape(strings.TrimPrefix(title, resultRename))
		if err != nil {
			return entities.OutputChoice{}, fmt.Errorf("bad rename answer %q: %w", title, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return entities.OutputChoice{}, fmt.Errorf("rename answer without a file name")
		}
		return entities.OutputChoice{Action: entities.OutputRename, Name: name}, nil
	default:
		return entities.OutputChoice{}, fmt.Errorf("unknown output answer %q", title)
	}
}

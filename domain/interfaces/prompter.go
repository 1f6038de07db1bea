package interfaces

import (
	"context"
	"time"

	"totvs_automation/domain/entities"
)

// Prompter asks the operator questions through the browser
type Prompter interface {
	// AskPages asks how many grid pages to extract; entities.ErrCancelled on cancel
	AskPages(ctx context.Context) (entities.PageSelection, error)

	// ChooseOutput asks what to do when path already exists
	ChooseOutput(ctx context.Context, path string) (entities.OutputChoice, error)

	// Notify shows a transient message; failures are ignored
	Notify(ctx context.Context, message string, d time.Duration)
}

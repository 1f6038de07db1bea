package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"totvs_automation/domain/interfaces"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Artifacts saves diagnostic files of failed steps
type Artifacts struct {
	dir string
	now func() time.Time
}

func NewArtifacts(dir string) *Artifacts {
	return &Artifacts{dir: dir, now: time.Now}
}

// Screenshot saves the current viewport as <dir>/<step>_<timestamp>.png
func (a *Artifacts) Screenshot(ctx context.Context, driver interfaces.Driver, step string) (string, error) {
	png, err := driver.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.png", unsafeName.ReplaceAllString(step, "_"), a.now().Format("20060102_150405"))
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

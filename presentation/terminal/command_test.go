package terminal

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/config"
)

func TestOptionsApplyOnlyOverridesSetFlags(t *testing.T) {
	cfg := &config.Config{
		Headless:   true,
		Engine:     config.EngineSelenium,
		LogLevel:   "info",
		OutputPath: "aliquotas.csv",
		Domain:     "MATRIZ",
	}
	opts := &Options{Engine: "Playwright", Out: "saida/produtos.csv"}

	require.NoError(t, opts.apply(cfg, func(string) bool { return false }))
	require.True(t, cfg.Headless)
	require.Equal(t, config.EnginePlaywright, cfg.Engine)
	require.Equal(t, "saida/produtos.csv", cfg.OutputPath)
	require.Equal(t, "MATRIZ", cfg.Domain)
	require.Equal(t, "info", cfg.LogLevel)

	require.NoError(t, opts.apply(cfg, func(name string) bool { return name == "headless" }))
	require.False(t, cfg.Headless)
}

func TestOptionsApplyRejectsUnknownEngine(t *testing.T) {
	cfg := &config.Config{Engine: config.EngineSelenium}
	err := (&Options{Engine: "lynx"}).apply(cfg, func(string) bool { return false })
	require.ErrorContains(t, err, "unknown browser engine")
}

func TestOptionsSelection(t *testing.T) {
	require.Nil(t, (&Options{}).selection())
	require.Equal(t, &entities.PageSelection{All: true}, (&Options{All: true}).selection())
	require.Equal(t, &entities.PageSelection{Pages: 4}, (&Options{Pages: 4}).selection())
}

func TestCommandFlags(t *testing.T) {
	cmd := NewCommand()
	for _, name := range []string{"headless", "log", "engine", "pages", "all", "out", "json", "locators", "domain", "keep-open"} {
		require.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestCommandRejectsPagesWithAll(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"--pages", "2", "--all"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "none of the others")
}

func TestCommandRejectsNegativePages(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"--pages", "-1"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.ErrorContains(t, cmd.Execute(), "--pages must be positive")
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = newLogger("chatty")
	require.Error(t, err)
}

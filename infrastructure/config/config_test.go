package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TOTVS_URL", "TOTVS_USER", "TOTVS_PASS", "TOTVS_DOMAIN", "HEADLESS",
		"BROWSER_ENGINE", "MAX_PAGES", "OUTPUT_PATH", "ARTIFACTS_DIR", "LOCATORS_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, EngineSelenium, cfg.Engine)
	require.Equal(t, DefaultMaxPages, cfg.MaxPages)
	require.Equal(t, DefaultOutputPath, cfg.OutputPath)
	require.False(t, cfg.Headless)
	require.ElementsMatch(t, []string{"TOTVS_URL", "TOTVS_USER", "TOTVS_PASS"}, cfg.MissingCredentials())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOTVS_URL", "https://erp.example.com")
	t.Setenv("TOTVS_USER", "ana")
	t.Setenv("TOTVS_PASS", "secret")
	t.Setenv("HEADLESS", "true")
	t.Setenv("BROWSER_ENGINE", "Playwright")
	t.Setenv("MAX_PAGES", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Empty(t, cfg.MissingCredentials())
	require.True(t, cfg.Headless)
	require.Equal(t, EnginePlaywright, cfg.Engine)
	require.Equal(t, 0, cfg.MaxPages)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_PAGES", "many")
	_, err := Load("")
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("BROWSER_ENGINE", "lynx")
	_, err = Load("")
	require.Error(t, err)
}

func TestSaveCredentialsRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	cfg := &Config{URL: "https://erp.example.com", User: "ana", Password: "p@ss word", Domain: "Matriz"}
	require.NoError(t, SaveCredentials(path, cfg))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	require.Equal(t, "p@ss word", env["TOTVS_PASS"])
	require.Equal(t, "Matriz", env["TOTVS_DOMAIN"])
	require.Equal(t, "false", env["HEADLESS"])

	_, err = os.Stat(path)
	require.NoError(t, err)
}

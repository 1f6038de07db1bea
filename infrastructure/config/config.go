package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EngineSelenium   = "selenium"
	EnginePlaywright = "playwright"

	DefaultMaxPages   = 140
	DefaultOutputPath = "aliquotas.csv"
	DefaultArtifacts  = "artifacts"
)

// Config holds the runtime settings read from the environment and .env
type Config struct {
	URL      string
	User     string
	Password string
	Domain   string

	Headless     bool
	Engine       string
	UserDataDir  string
	DriverPath   string
	ChromeBinary string

	LogLevel     string
	MaxPages     int
	LocatorsFile string
	OutputPath   string
	ArtifactsDir string

	PageLoadTimeout time.Duration
	ExplicitTimeout time.Duration
}

// Load reads envFile when it exists and builds a Config from the environment.
// A missing .env is not an error; variables already set in the process win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	maxPages, err := intEnv("MAX_PAGES", DefaultMaxPages)
	if err != nil {
		return nil, err
	}
	if maxPages < 0 {
		return nil, fmt.Errorf("MAX_PAGES must not be negative, got %d", maxPages)
	}

	cfg := &Config{
		URL:             os.Getenv("TOTVS_URL"),
		User:            os.Getenv("TOTVS_USER"),
		Password:        os.Getenv("TOTVS_PASS"),
		Domain:          os.Getenv("TOTVS_DOMAIN"),
		Headless:        boolEnv("HEADLESS"),
		Engine:          strings.ToLower(envOrDefault("BROWSER_ENGINE", EngineSelenium)),
		UserDataDir:     os.Getenv("CHROME_USER_DATA_DIR"),
		DriverPath:      os.Getenv("BROWSER_DRIVER_PATH"),
		ChromeBinary:    os.Getenv("CHROME_BINARY_PATH"),
		LogLevel:        envOrDefault("APP_LOG_LEVEL", "info"),
		MaxPages:        maxPages,
		LocatorsFile:    os.Getenv("LOCATORS_FILE"),
		OutputPath:      envOrDefault("OUTPUT_PATH", DefaultOutputPath),
		ArtifactsDir:    envOrDefault("ARTIFACTS_DIR", DefaultArtifacts),
		PageLoadTimeout: 60 * time.Second,
		ExplicitTimeout: 25 * time.Second,
	}

	if err := cfg.validateEngine(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MissingCredentials lists the credential variables that are still empty
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "TOTVS_URL")
	}
	if c.User == "" {
		missing = append(missing, "TOTVS_USER")
	}
	if c.Password == "" {
		missing = append(missing, "TOTVS_PASS")
	}
	return missing
}

// SetEngine overrides the browser engine after validating it
func (c *Config) SetEngine(engine string) error {
	c.Engine = strings.ToLower(strings.TrimSpace(engine))
	return c.validateEngine()
}

func (c *Config) validateEngine() error {
	switch c.Engine {
	case EngineSelenium, EnginePlaywright:
		return nil
	default:
		return fmt.Errorf("unknown browser engine %q (want %s or %s)", c.Engine, EngineSelenium, EnginePlaywright)
	}
}

// SaveCredentials writes the connection settings to envFile
func SaveCredentials(envFile string, c *Config) error {
	env := map[string]string{
		"TOTVS_URL":            c.URL,
		"TOTVS_USER":           c.User,
		"TOTVS_PASS":           c.Password,
		"HEADLESS":             strconv.FormatBool(c.Headless),
		"CHROME_USER_DATA_DIR": c.UserDataDir,
	}
	if c.Domain != "" {
		env["TOTVS_DOMAIN"] = c.Domain
	}
	if err := godotenv.Write(env, envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

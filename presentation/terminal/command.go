package terminal

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"totvs_automation/domain/entities"
	"totvs_automation/infrastructure/config"
)

// Options are the command-line overrides of one run
type Options struct {
	EnvFile      string
	Headless     bool
	LogLevel     string
	Engine       string
	Pages        int
	All          bool
	Out          string
	JSON         bool
	LocatorsFile string
	Domain       string
	KeepOpen     bool
}

// NewCommand builds the root command
func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "totvs-aliquotas",
		Short: "Extracts code, name, tax rate and menu visibility of every product in the TOTVS ERP grid.",
		Long: "Logs into the ERP, opens the product screen and walks the product grid page by page,\n" +
			"reading each record's edit form without saving anything. Records are written to a\n" +
			"'|'-delimited CSV (and optionally JSON) even when the run stops early.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Pages < 0 {
				return fmt.Errorf("--pages must be positive, got %d", opts.Pages)
			}
			ti, err := NewTerminalInterface(cmd, opts)
			if err != nil {
				return err
			}
			defer ti.Close()
			return ti.Run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.EnvFile, "env", ".env", "dotenv file with the connection settings")
	f.BoolVar(&opts.Headless, "headless", false, "run the browser without a window")
	f.StringVar(&opts.LogLevel, "log", "", "log level (debug, info, warn, error)")
	f.StringVar(&opts.Engine, "engine", "", "browser engine: selenium or playwright")
	f.IntVar(&opts.Pages, "pages", 0, "number of grid pages to extract (skips the in-browser prompt)")
	f.BoolVar(&opts.All, "all", false, "extract every page (skips the in-browser prompt)")
	f.StringVar(&opts.Out, "out", "", "CSV output path")
	f.BoolVar(&opts.JSON, "json", false, "also write a JSON file next to the CSV")
	f.StringVar(&opts.LocatorsFile, "locators", "", "YAML file overriding the embedded locators")
	f.StringVar(&opts.Domain, "domain", "", "preferred tenant on the domain screen")
	f.BoolVar(&opts.KeepOpen, "keep-open", false, "wait for Enter before closing the browser")
	cmd.MarkFlagsMutuallyExclusive("pages", "all")
	return cmd
}

// apply copies the flags the user set on top of cfg
func (o *Options) apply(cfg *config.Config, changed func(name string) bool) error {
	if changed("headless") {
		cfg.Headless = o.Headless
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Engine != "" {
		if err := cfg.SetEngine(o.Engine); err != nil {
			return err
		}
	}
	if o.Out != "" {
		cfg.OutputPath = o.Out
	}
	if o.LocatorsFile != "" {
		cfg.LocatorsFile = o.LocatorsFile
	}
	if o.Domain != "" {
		cfg.Domain = o.Domain
	}
	return nil
}

// selection returns nil when the operator should be asked in the browser
func (o *Options) selection() *entities.PageSelection {
	switch {
	case o.All:
		return &entities.PageSelection{All: true}
	case o.Pages > 0:
		return &entities.PageSelection{Pages: o.Pages}
	default:
		return nil
	}
}

func newLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

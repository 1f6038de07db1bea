// Package terminal is the command-line entry point: it reads settings, wires
// the browser session to the extraction and prints the outcome.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"totvs_automation/application/extraction"
	"totvs_automation/application/grid"
	"totvs_automation/application/navigation"
	"totvs_automation/domain/interfaces"
	"totvs_automation/infrastructure/browser"
	"totvs_automation/infrastructure/config"
	"totvs_automation/infrastructure/security"
	"totvs_automation/infrastructure/storage"
	"totvs_automation/presentation/browserui"
)

type TerminalInterface struct {
	cfg       *config.Config
	locs      *config.Locators
	opts      *Options
	driver    interfaces.Driver
	artifacts *storage.Artifacts
	logger    *logrus.Logger
	reader    *bufio.Reader
	out       io.Writer
}

func NewTerminalInterface(cmd *cobra.Command, opts *Options) (*TerminalInterface, error) {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := opts.apply(cfg, cmd.Flags().Changed); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	asked, err := askCredentials(reader, out, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if asked && confirm(reader, out, fmt.Sprintf("Salvar credenciais em %s?", opts.EnvFile)) {
		if err := config.SaveCredentials(opts.EnvFile, cfg); err != nil {
			logger.Warnf("Could not save credentials: %v", err)
		} else {
			logger.Infof("Credentials saved to %s", opts.EnvFile)
		}
	}

	// locator problems must surface before a browser is started
	locs, err := config.LoadLocators(cfg.LocatorsFile)
	if err != nil {
		return nil, err
	}

	driver, err := browser.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	return &TerminalInterface{
		cfg:       cfg,
		locs:      locs,
		opts:      opts,
		driver:    driver,
		artifacts: storage.NewArtifacts(cfg.ArtifactsDir),
		logger:    logger,
		reader:    reader,
		out:       out,
	}, nil
}

// Run logs in, opens the product screen and extracts the grid
func (t *TerminalInterface) Run(ctx context.Context) error {
	if t.opts.KeepOpen {
		defer func() {
			fmt.Fprint(t.out, "Pressione Enter para fechar o navegador...")
			t.reader.ReadString('\n')
		}()
	}

	nav := navigation.NewNavigator(t.driver, t.locs, t.artifacts, t.cfg.ExplicitTimeout, t.logger)
	if err := nav.Login(ctx, t.cfg.URL, t.cfg.User, t.cfg.Password); err != nil {
		return err
	}
	if err := nav.SelectDomain(ctx, t.cfg.Domain); err != nil {
		return err
	}
	if err := nav.GoToProductScreen(ctx); err != nil {
		return err
	}

	session := grid.NewSession(t.driver, t.locs.Products, security.NewSecurityLayer(t.logger), t.logger)
	session.LogHeaders(ctx)
	dialogs := browserui.NewDialogs(t.driver, t.logger)

	var jsonStore interfaces.RecordStore
	if t.opts.JSON {
		jsonStore = storage.NewJSONStore()
	}
	exporter := extraction.NewExporter(storage.NewCSVStore(), jsonStore, dialogs, t.logger)

	var journal interfaces.RunJournal
	if j, err := storage.NewRunJournal(""); err != nil {
		t.logger.Warnf("Run journal disabled: %v", err)
	} else {
		journal = j
		if last, err := j.LastRun(); err == nil && last != nil {
			t.logger.WithFields(logrus.Fields{
				"status":  last.Status,
				"records": last.Records,
				"at":      last.StartedAt.Format("2006-01-02 15:04"),
			}).Info("Previous run")
		}
	}

	runner := extraction.NewRunner(extraction.NewLoop(session, t.cfg.MaxPages, t.logger), exporter, dialogs, journal, t.logger)
	summary, err := runner.Run(ctx, extraction.RunOptions{
		Selection:  t.opts.selection(),
		OutputPath: t.cfg.OutputPath,
	})
	renderSummary(t.out, summary)

	if err != nil {
		if path, shotErr := t.artifacts.Screenshot(context.WithoutCancel(ctx), t.driver, "falha_extracao"); shotErr == nil {
			t.logger.Errorf("Extraction failed, screenshot saved to %s", path)
		}
		return err
	}
	return nil
}

func (t *TerminalInterface) Close() error {
	return t.driver.Close()
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
	"scrape-checker/internal/scraper"
)

// reportedError marks a failure the command already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type rootOptions struct {
	quiet      bool
	debug      bool
	noColor    bool
	configPath string

	// opener overrides the page engine factory; nil uses scraper.OpenPage.
	opener scraper.PageOpener
}

func newRootCmd(opener scraper.PageOpener) *cobra.Command {
	opts := &rootOptions{opener: opener}

	cmd := &cobra.Command{
		Use:   "scrape-checker",
		Short: "Probe pages for scrapable title content",
		Long: `scrape-checker renders a page in a headless browser and reports which
title selectors hit the most elements, with sample texts from the best ones.

It can also dump the rendered page (--raw) or parse the X.com trend list
(--trends).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only print results, warnings and errors")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&opts.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")
	pf.StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &models.InvalidArgumentError{Reason: err.Error()}
	})

	cmd.AddCommand(newScrapeCheckCmd(opts))
	return cmd
}

// setup loads configuration and builds the logger shared by a command run.
func (o *rootOptions) setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.App.LogLevel
	if o.debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{
		Level:      level,
		Production: cfg.IsProduction(),
		File:       cfg.App.LogFile,
	})
	if err != nil {
		return nil, nil, &models.ConfigError{Field: "logger", Err: err}
	}
	return cfg, log.With(logger.String("app", cfg.App.Name)), nil
}

package main

import (
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scrape-checker/internal/config"
	"scrape-checker/internal/cookies"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
	"scrape-checker/internal/output"
	"scrape-checker/internal/scraper"
)

type scrapeCheckOptions struct {
	urls        []string
	timeoutMs   int
	waitUntil   string
	waitMs      int
	raw         bool
	rawFormat   string
	cookiesFile string
	trends      bool
	top         int
	catalog     string
	engine      string
	output      string
	concurrency int
}

func newScrapeCheckCmd(root *rootOptions) *cobra.Command {
	o := &scrapeCheckOptions{}

	cmd := &cobra.Command{
		Use:   "scrape-check",
		Short: "Check if a URL can be scraped with a headless browser",
		Example: `  scrape-checker scrape-check -u https://example.com/news --top 5
  scrape-checker scrape-check -u https://x.com/explore/tabs/trending -c cookies.json --trends -w 3000
  scrape-checker scrape-check -u https://example.com --raw --raw-format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, root)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&o.urls, "url", "u", []string{scraper.DefaultURL}, "URL to scrape (repeatable)")
	f.IntVarP(&o.timeoutMs, "timeout", "t", int(scraper.DefaultTimeout.Milliseconds()), "navigation timeout in milliseconds")
	f.StringVar(&o.waitUntil, "wait-until", scraper.DefaultWaitUntil, "wait condition: load, domcontentloaded, networkidle")
	f.IntVarP(&o.waitMs, "wait", "w", 0, "additional wait time after page load in milliseconds")
	f.BoolVarP(&o.raw, "raw", "r", false, "output the rendered page instead of ranking selectors")
	f.StringVar(&o.rawFormat, "raw-format", scraper.RawFormatHTML, "raw output format: html, markdown")
	f.StringVarP(&o.cookiesFile, "cookies", "c", "", "JSON file with cookies to use")
	f.BoolVar(&o.trends, "trends", false, "parse X.com trends")
	f.IntVar(&o.top, "top", scraper.DefaultTopN, "number of selector hits to display")
	f.StringVar(&o.catalog, "catalog", "full", "selector catalog: full, quick")
	f.StringVar(&o.engine, "engine", "", "page engine: chromedp, rod, static (default from config)")
	f.StringVarP(&o.output, "output", "o", output.FormatText, "output format: text, json, yaml")
	f.IntVar(&o.concurrency, "concurrency", 1, "number of URLs checked in parallel")

	return cmd
}

// checkOptions validates flag values and turns them into check options.
func (o *scrapeCheckOptions) checkOptions(cfg *config.Config) (scraper.CheckOptions, error) {
	for _, u := range o.urls {
		if err := validateURL(u); err != nil {
			return scraper.CheckOptions{}, err
		}
	}
	if o.timeoutMs <= 0 {
		return scraper.CheckOptions{}, invalid("timeout", strconv.Itoa(o.timeoutMs), "must be > 0")
	}
	if o.waitMs < 0 {
		return scraper.CheckOptions{}, invalid("wait", strconv.Itoa(o.waitMs), "must be >= 0")
	}
	if o.top < 0 {
		return scraper.CheckOptions{}, invalid("top", strconv.Itoa(o.top), "must be >= 0")
	}
	if o.concurrency < 1 {
		return scraper.CheckOptions{}, invalid("concurrency", strconv.Itoa(o.concurrency), "must be at least 1")
	}
	if o.rawFormat != scraper.RawFormatHTML && o.rawFormat != scraper.RawFormatMarkdown {
		return scraper.CheckOptions{}, invalid("raw-format", o.rawFormat, "must be html or markdown")
	}
	if err := output.ValidateFormat(o.output); err != nil {
		return scraper.CheckOptions{}, err
	}

	wait, err := models.ParseWaitCondition(o.waitUntil)
	if err != nil {
		return scraper.CheckOptions{}, err
	}
	catalog, ok := scraper.CatalogByName(o.catalog)
	if !ok {
		return scraper.CheckOptions{}, invalid("catalog", o.catalog, "must be full or quick")
	}
	engine := o.engine
	if engine == "" {
		engine = cfg.Scrape.Engine
	}
	if err := config.ValidateEngine(engine); err != nil {
		return scraper.CheckOptions{}, invalid("engine", engine, err.Error())
	}

	return scraper.CheckOptions{
		Timeout:   time.Duration(o.timeoutMs) * time.Millisecond,
		WaitUntil: wait,
		Wait:      time.Duration(o.waitMs) * time.Millisecond,
		Raw:       o.raw,
		RawFormat: o.rawFormat,
		Trends:    o.trends,
		Top:       o.top,
		Catalog:   catalog,
		Engine:    engine,
	}, nil
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return invalid("url", raw, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("url", raw, "scheme must be http or https")
	}
	if u.Host == "" {
		return invalid("url", raw, "host is required")
	}
	return nil
}

func invalid(flag, value, reason string) error {
	return &models.InvalidArgumentError{Flag: flag, Value: value, Reason: reason}
}

func (o *scrapeCheckOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg, log, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log = log.With(logger.String("command", "scrape-check"))

	checkOpts, err := o.checkOptions(cfg)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), root.quiet, !root.noColor)

	if o.cookiesFile != "" {
		checkOpts.Cookies, err = cookies.Load(o.cookiesFile)
		if err != nil {
			printer.Error("Scrape failed: %s", err)
			log.Error("Failed to load cookies", logger.String("path", o.cookiesFile), logger.Error(err))
			return &reportedError{err: err}
		}
	}

	var checkerOpts []scraper.CheckerOption
	if root.opener != nil {
		checkerOpts = append(checkerOpts, scraper.WithPageOpener(root.opener))
	}
	checker := scraper.NewChecker(cfg.Scrape, log, checkerOpts...)

	outcomes := checker.CheckAll(cmd.Context(), o.urls, checkOpts, o.concurrency)

	results := make([]models.CommandResult, len(outcomes))
	var firstErr error
	for i, oc := range outcomes {
		if oc.Err != nil {
			results[i] = models.Failed(oc.Err)
			log.Error("Scrape check failed", logger.String("url", oc.URL), logger.Error(oc.Err))
			if firstErr == nil {
				firstErr = oc.Err
			}
		} else {
			results[i] = resultFor(oc.Report)
		}

		if o.output != output.FormatText {
			continue
		}
		if oc.Err != nil {
			printer.Error("Scrape failed: %s", oc.Err)
			continue
		}
		printer.Report(oc.Report)
		if oc.Report.Mode == models.ModeRank {
			printer.Success("Scrape check completed successfully")
		}
	}

	if o.output != output.FormatText {
		var v any = results
		if len(results) == 1 {
			v = results[0]
		}
		if err := printer.Encode(v, o.output); err != nil {
			return err
		}
	}

	if firstErr != nil {
		return &reportedError{err: firstErr}
	}
	return nil
}

func resultFor(r models.Report) models.CommandResult {
	switch r.Mode {
	case models.ModeRaw:
		return models.Succeeded(r, "Raw HTML output for %s", r.URL)
	case models.ModeTrends:
		return models.Succeeded(r, "Parsed %d trends from %s", len(r.Trends), r.URL)
	}
	return models.Succeeded(r, "Successfully scraped %s", r.URL)
}

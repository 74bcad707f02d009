// Package scraper checks how well a page lends itself to heuristic title
// scraping. It ranks a catalog of title selectors by how many elements each
// matches, samples candidate texts from the best ones and, for the X.com
// explore layout, parses trend records. Pages come from a headless browser
// (chromedp or go-rod) or from a plain HTTP fetch.
package scraper

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
)

// PageOpener starts a document provider for one check.
type PageOpener func(ctx context.Context, engine string, cfg config.ScrapeConfig, log logger.Logger) (Page, error)

// CheckOptions describes a single check. Zero values fall back to defaults.
type CheckOptions struct {
	URL       string
	Timeout   time.Duration
	WaitUntil models.WaitCondition
	// Wait is extra settle time after navigation completes.
	Wait      time.Duration
	Raw       bool
	RawFormat string
	Trends    bool
	Top       int
	Catalog   Catalog
	Engine    string
	// Cookies are injected before navigation.
	Cookies []models.CanonicalCookie
}

// CheckOutcome pairs a URL with its report or failure.
type CheckOutcome struct {
	URL    string
	Report models.Report
	Err    error
}

// Checker orchestrates checks: open a page, inject cookies, navigate, then
// run exactly one of raw dump, trend parsing or selector ranking.
type Checker struct {
	cfg        config.ScrapeConfig
	log        logger.Logger
	open       PageOpener
	ranker     *Ranker
	extractor  *CandidateExtractor
	summarizer *Summarizer
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithPageOpener replaces the engine factory, mainly for tests.
func WithPageOpener(open PageOpener) CheckerOption {
	return func(c *Checker) { c.open = open }
}

func NewChecker(cfg config.ScrapeConfig, log logger.Logger, opts ...CheckerOption) *Checker {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Checker{
		cfg:        cfg,
		log:        log,
		open:       OpenPage,
		ranker:     NewRanker(log),
		extractor:  NewCandidateExtractor(log),
		summarizer: NewSummarizer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) withDefaults(opts CheckOptions) CheckOptions {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = c.cfg.GetTimeout()
		if opts.Timeout <= 0 {
			opts.Timeout = DefaultTimeout
		}
	}
	if opts.WaitUntil == "" {
		opts.WaitUntil = models.WaitDOMContentLoaded
	}
	if opts.RawFormat == "" {
		opts.RawFormat = RawFormatHTML
	}
	if opts.Top <= 0 {
		opts.Top = DefaultTopN
	}
	if opts.Catalog.Len() == 0 {
		opts.Catalog = FullCatalog()
	}
	if opts.Engine == "" {
		opts.Engine = c.cfg.Engine
	}
	return opts
}

// Check runs one check against opts.URL. Navigation failures abort the check
// with a *models.NavigationError; selector failures never do.
func (c *Checker) Check(ctx context.Context, opts CheckOptions) (models.Report, error) {
	opts = c.withDefaults(opts)
	start := time.Now()

	report := models.Report{
		URL:           opts.URL,
		Engine:        opts.Engine,
		CookiesLoaded: len(opts.Cookies),
	}
	if opts.RawFormat != RawFormatHTML && opts.RawFormat != RawFormatMarkdown {
		return report, &models.InvalidArgumentError{Flag: "raw-format", Value: opts.RawFormat, Reason: "must be html or markdown"}
	}

	log := c.log.With(logger.String("url", opts.URL), logger.String("engine", opts.Engine))
	log.Info("Starting scrape check", logger.Duration("timeout", opts.Timeout))

	page, err := c.open(ctx, opts.Engine, c.cfg, log)
	if err != nil {
		return report, fmt.Errorf("failed to open %s page: %w", opts.Engine, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Debug("Failed to close page", logger.Error(cerr))
		}
	}()

	if len(opts.Cookies) > 0 {
		if err := page.SetCookies(ctx, opts.Cookies); err != nil {
			return report, err
		}
		log.Info("Loaded cookies", logger.Int("count", len(opts.Cookies)))
	}

	if err := page.Navigate(ctx, opts.URL, opts.Timeout, opts.WaitUntil); err != nil {
		if IsCloudflareBlock(err) {
			log.Warn("Navigation looks blocked by Cloudflare", logger.Error(err))
		}
		return report, err
	}

	if opts.Wait > 0 {
		select {
		case <-time.After(opts.Wait):
		case <-ctx.Done():
			return report, ctx.Err()
		}
	}

	switch {
	case opts.Raw:
		err = c.dumpRaw(ctx, page, opts, &report)
	case opts.Trends:
		err = c.parseTrends(ctx, page, &report, log)
	default:
		c.rank(ctx, page, opts, &report, log)
	}
	if err != nil {
		return report, err
	}
	// Per-selector failures are soft, an interrupted check is not.
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Metadata = models.Metadata{
		ScrapedAt:  start.UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	log.Info("Scrape check completed", logger.String("mode", report.Mode), logger.Int64("duration_ms", report.Metadata.DurationMs))
	return report, nil
}

func (c *Checker) dumpRaw(ctx context.Context, page Page, opts CheckOptions, report *models.Report) error {
	report.Mode = models.ModeRaw
	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	if opts.RawFormat == RawFormatMarkdown {
		if html, err = ToMarkdown(html, opts.URL); err != nil {
			return err
		}
	}
	report.Raw = html
	return nil
}

func (c *Checker) parseTrends(ctx context.Context, page Page, report *models.Report, log logger.Logger) error {
	report.Mode = models.ModeTrends
	trends, err := ParseTrends(ctx, page)
	if err != nil {
		return err
	}
	log.Info("Parsed trends", logger.Int("count", len(trends)))
	report.Trends = trends
	return nil
}

// rank fills the page summary, the ranking and the candidates. Summary
// queries are best effort.
func (c *Checker) rank(ctx context.Context, page Page, opts CheckOptions, report *models.Report, log logger.Logger) {
	report.Mode = models.ModeRank
	report.Top = opts.Top

	title, err := page.Title(ctx)
	if err != nil {
		log.Debug("Title query failed", logger.Error(err))
	}
	html, err := page.HTML(ctx)
	if err != nil {
		log.Debug("HTML snapshot failed", logger.Error(err))
	}
	linkCount, err := page.CountMatches(ctx, LinkSelector)
	if err != nil {
		log.Debug("Link count failed", logger.Error(err))
		linkCount = 0
	}

	base := opts.URL
	if loc, err := page.Location(ctx); err != nil {
		log.Debug("Location query failed", logger.Error(err))
	} else if loc != "" {
		base = loc
	}

	summary := c.summarizer.Summarize(html, base, title, linkCount)
	if summary.Blocked {
		log.Warn("Page looks like a Cloudflare challenge")
	}
	report.Summary = &summary

	report.Ranking = c.ranker.Rank(ctx, page, opts.Catalog)
	report.Candidates = c.extractor.Extract(ctx, page, report.Ranking, opts.Top)
}

// CheckAll checks every URL with at most concurrency checks in flight. Each
// check owns its own page; one failure does not cancel the others. Outcomes
// keep the order of urls.
func (c *Checker) CheckAll(ctx context.Context, urls []string, opts CheckOptions, concurrency int) []CheckOutcome {
	outcomes := make([]CheckOutcome, len(urls))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for i, u := range urls {
		g.Go(func() error {
			o := opts
			o.URL = u
			report, err := c.Check(ctx, o)
			outcomes[i] = CheckOutcome{URL: u, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

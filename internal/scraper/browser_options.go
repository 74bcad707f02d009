// Package scraper provides browser configuration options for Chrome automation.
package scraper

import (
	"github.com/chromedp/chromedp"

	"scrape-checker/internal/config"
)

// BrowserOptions contains configuration shared by the browser engines
type BrowserOptions struct {
	ExecPath     string
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

// DefaultBrowserOptions returns standard browser options
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:     true,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// BrowserOptionsFrom maps scrape configuration onto browser options,
// keeping defaults for unset dimensions.
func BrowserOptionsFrom(cfg config.ScrapeConfig) BrowserOptions {
	opts := DefaultBrowserOptions()
	opts.ExecPath = cfg.ChromePath
	opts.Headless = cfg.Headless
	opts.UserAgent = cfg.UserAgent
	if cfg.WindowWidth > 0 {
		opts.WindowWidth = cfg.WindowWidth
	}
	if cfg.WindowHeight > 0 {
		opts.WindowHeight = cfg.WindowHeight
	}
	return opts
}

// BuildChromeOptions creates Chrome options based on BrowserOptions
func BuildChromeOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	chromeOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-features", "VizDisplayCompositor"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	for _, name := range launcherFlags() {
		chromeOpts = append(chromeOpts, chromedp.Flag(name, true))
	}

	if opts.ExecPath != "" {
		chromeOpts = append(chromeOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	return chromeOpts
}

// launcherFlags returns the command line switches both engines pass to Chrome
// beyond headless mode and window size.
func launcherFlags() []string {
	return []string{"no-sandbox", "disable-dev-shm-usage", "disable-gpu"}
}

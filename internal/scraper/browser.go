package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
)

// BrowserPage is a Page driven through the Chrome DevTools Protocol by chromedp.
type BrowserPage struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	log         logger.Logger
}

// NewBrowserPage launches Chrome and opens one tab. The browser lives until
// Close is called or ctx is cancelled.
func NewBrowserPage(ctx context.Context, cfg config.ScrapeConfig, log logger.Logger) (*BrowserPage, error) {
	if log == nil {
		log = logger.NewNop()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, BuildChromeOptions(BrowserOptionsFrom(cfg))...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...), logger.String("engine", config.EngineChromedp))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...), logger.String("engine", config.EngineChromedp))
		}),
	)

	// The first Run allocates the browser and must happen on the tab context.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &BrowserPage{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		log:         log,
	}, nil
}

// bind derives a context that carries the tab and ends when ctx does.
func (b *BrowserPage) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(b.tabCtx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (b *BrowserPage) Navigate(ctx context.Context, url string, timeout time.Duration, wait models.WaitCondition) error {
	runCtx, cancel := b.bind(ctx)
	defer cancel()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, timeout)
	defer cancelTimeout()

	var err error
	switch wait {
	case models.WaitNetworkIdle:
		err = b.navigateNetworkIdle(runCtx, url)
	case models.WaitDOMContentLoaded:
		err = b.navigateDOMContentLoaded(runCtx, url)
	default:
		// chromedp.Navigate returns on the frame's load event.
		err = chromedp.Run(runCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
		)
	}
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timeout after %s: %w", timeout, err)
		}
		return &models.NavigationError{URL: url, Err: err}
	}
	return nil
}

// navigateDOMContentLoaded issues a raw Page.navigate, which does not wait for
// load, and returns on the first DOMContentLoaded event that follows.
func (b *BrowserPage) navigateDOMContentLoaded(ctx context.Context, url string) error {
	ready := make(chan struct{})
	var once sync.Once
	chromedp.ListenTarget(ctx, func(ev any) {
		if isDOMContentLoaded(ev) {
			once.Do(func() { close(ready) })
		}
	})

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("page load error %s", errText)
		}
		return nil
	}))
	if err != nil {
		return err
	}

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for DOMContentLoaded: %w", ctx.Err())
	}
}

func isDOMContentLoaded(ev any) bool {
	_, ok := ev.(*page.EventDomContentEventFired)
	return ok
}

func isNetworkIdle(ev any) bool {
	e, ok := ev.(*page.EventLifecycleEvent)
	return ok && e.Name == "networkIdle"
}

func (b *BrowserPage) navigateNetworkIdle(ctx context.Context, url string) error {
	idle := make(chan struct{})
	var once sync.Once
	chromedp.ListenTarget(ctx, func(ev any) {
		if isNetworkIdle(ev) {
			once.Do(func() { close(idle) })
		}
	})

	err := chromedp.Run(ctx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
	)
	if err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for network idle: %w", ctx.Err())
	}
}

func (b *BrowserPage) SetCookies(ctx context.Context, cookies []models.CanonicalCookie) error {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		if c.Domain == "" {
			b.log.Debug("Skipping cookie without domain", logger.String("cookie", c.Name))
			continue
		}
		params = append(params, toCookieParam(c))
	}
	if len(params) == 0 {
		return nil
	}

	runCtx, cancel := b.bind(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, network.SetCookies(params)); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

func toCookieParam(c models.CanonicalCookie) *network.CookieParam {
	p := &network.CookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
	}
	if exp, ok := c.ExpiresAt(); ok {
		t := cdp.TimeSinceEpoch(exp)
		p.Expires = &t
	}
	switch c.SameSite {
	case models.SameSiteNone:
		p.SameSite = network.CookieSameSiteNone
	case models.SameSiteLax:
		p.SameSite = network.CookieSameSiteLax
	default:
		p.SameSite = network.CookieSameSiteStrict
	}
	return p
}

func (b *BrowserPage) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := b.bind(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (b *BrowserPage) Title(ctx context.Context) (string, error) {
	runCtx, cancel := b.bind(ctx)
	defer cancel()

	var title string
	if err := chromedp.Run(runCtx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// Location reports the document URL after any redirects.
func (b *BrowserPage) Location(ctx context.Context) (string, error) {
	runCtx, cancel := b.bind(ctx)
	defer cancel()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read page location: %w", err)
	}
	return loc, nil
}

// evaluate calls an in-page query function and decodes its result into res.
func (b *BrowserPage) evaluate(ctx context.Context, res any, fn string, args ...any) error {
	expr, err := invokeJS(fn, args...)
	if err != nil {
		return err
	}
	runCtx, cancel := b.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Evaluate(expr, res))
}

func (b *BrowserPage) CountMatches(ctx context.Context, selector string) (int, error) {
	var n int
	if err := b.evaluate(ctx, &n, countMatchesJS, selector); err != nil {
		return 0, &models.SelectorError{Selector: selector, Err: err}
	}
	return n, nil
}

func (b *BrowserPage) Attribute(ctx context.Context, selector string, index int, name string) (string, bool, error) {
	var v *string
	if err := b.evaluate(ctx, &v, attributeJS, selector, index, name); err != nil {
		return "", false, &models.SelectorError{Selector: selector, Err: err}
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (b *BrowserPage) TextContent(ctx context.Context, selector string, index int) (string, bool, error) {
	var v *string
	if err := b.evaluate(ctx, &v, textContentJS, selector, index); err != nil {
		return "", false, &models.SelectorError{Selector: selector, Err: err}
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (b *BrowserPage) TextGroups(ctx context.Context, container, token string) ([][]string, error) {
	var groups [][]string
	if err := b.evaluate(ctx, &groups, textGroupsJS, container, token); err != nil {
		return nil, fmt.Errorf("querying %s: %w", container, err)
	}
	return groups, nil
}

// Close shuts the tab and then the browser process.
func (b *BrowserPage) Close() error {
	b.cancelTab()
	b.cancelAlloc()
	return nil
}

package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
)

// RodPage is a Page driven by go-rod. It launches its own Chrome process.
type RodPage struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      logger.Logger
}

// NewRodPage launches Chrome with the configured options and opens a blank tab.
func NewRodPage(ctx context.Context, cfg config.ScrapeConfig, log logger.Logger) (*RodPage, error) {
	if log == nil {
		log = logger.NewNop()
	}
	opts := BrowserOptionsFrom(cfg)

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight))
	for _, name := range launcherFlags() {
		l = l.Set(flags.Flag(name))
	}
	if opts.ExecPath != "" {
		l = l.Bin(opts.ExecPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	log.Debug("Browser launched", logger.String("engine", config.EngineRod), logger.String("control_url", controlURL))

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r := &RodPage{launcher: l, browser: browser, log: log}
	if r.page, err = browser.Page(proto.TargetCreateTarget{}); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	if opts.UserAgent != "" {
		if err := r.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}
	err = r.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.WindowWidth,
		Height:            opts.WindowHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	return r, nil
}

func lifecycleEvent(wait models.WaitCondition) proto.PageLifecycleEventName {
	switch wait {
	case models.WaitLoad:
		return proto.PageLifecycleEventNameLoad
	case models.WaitNetworkIdle:
		return proto.PageLifecycleEventNameNetworkIdle
	}
	return proto.PageLifecycleEventNameDOMContentLoaded
}

func (r *RodPage) Navigate(ctx context.Context, url string, timeout time.Duration, wait models.WaitCondition) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := r.page.Context(tctx)
	waitFor := p.WaitNavigation(lifecycleEvent(wait))
	if err := p.Navigate(url); err != nil {
		return &models.NavigationError{URL: url, Err: err}
	}
	waitFor()

	if err := tctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timeout after %s waiting for %s: %w", timeout, wait, err)
		}
		return &models.NavigationError{URL: url, Err: err}
	}
	return nil
}

func (r *RodPage) SetCookies(ctx context.Context, cookies []models.CanonicalCookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		if c.Domain == "" {
			r.log.Debug("Skipping cookie without domain", logger.String("cookie", c.Name))
			continue
		}
		params = append(params, toRodCookie(c))
	}
	if len(params) == 0 {
		return nil
	}
	if err := r.page.Context(ctx).SetCookies(params); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

func toRodCookie(c models.CanonicalCookie) *proto.NetworkCookieParam {
	p := &proto.NetworkCookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
	}
	if c.Expires != nil {
		p.Expires = proto.TimeSinceEpoch(*c.Expires)
	}
	switch c.SameSite {
	case models.SameSiteNone:
		p.SameSite = proto.NetworkCookieSameSiteNone
	case models.SameSiteLax:
		p.SameSite = proto.NetworkCookieSameSiteLax
	default:
		p.SameSite = proto.NetworkCookieSameSiteStrict
	}
	return p
}

func (r *RodPage) HTML(ctx context.Context) (string, error) {
	html, err := r.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (r *RodPage) Title(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return info.Title, nil
}

func (r *RodPage) Location(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page location: %w", err)
	}
	return info.URL, nil
}

func (r *RodPage) CountMatches(ctx context.Context, selector string) (int, error) {
	res, err := r.page.Context(ctx).Eval(countMatchesJS, selector)
	if err != nil {
		return 0, &models.SelectorError{Selector: selector, Err: err}
	}
	return res.Value.Int(), nil
}

func (r *RodPage) Attribute(ctx context.Context, selector string, index int, name string) (string, bool, error) {
	res, err := r.page.Context(ctx).Eval(attributeJS, selector, index, name)
	if err != nil {
		return "", false, &models.SelectorError{Selector: selector, Err: err}
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

func (r *RodPage) TextContent(ctx context.Context, selector string, index int) (string, bool, error) {
	res, err := r.page.Context(ctx).Eval(textContentJS, selector, index)
	if err != nil {
		return "", false, &models.SelectorError{Selector: selector, Err: err}
	}
	if res.Value.Nil() {
		return "", false, nil
	}
	return res.Value.Str(), true, nil
}

func (r *RodPage) TextGroups(ctx context.Context, container, token string) ([][]string, error) {
	res, err := r.page.Context(ctx).Eval(textGroupsJS, container, token)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", container, err)
	}
	var groups [][]string
	if err := res.Value.Unmarshal(&groups); err != nil {
		return nil, fmt.Errorf("decoding %s groups: %w", container, err)
	}
	return groups, nil
}

// Close disconnects and kills the browser process, removing its user data dir.
func (r *RodPage) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	r.launcher.Cleanup()
	return err
}

package scraper

import (
	"context"
	"errors"
	"time"

	"scrape-checker/internal/config"
	"scrape-checker/internal/models"
)

var errNotNavigated = errors.New("page has not been navigated")

// StaticPage is a Page backed by a plain HTTP fetch and a parsed snapshot.
// Scripts never run, so it only sees server-rendered markup.
type StaticPage struct {
	client   *HTTPClient
	html     string
	location string
	doc      *HTMLDocument
}

func NewStaticPage(cfg config.ScrapeConfig) *StaticPage {
	return &StaticPage{client: NewHTTPClient(cfg)}
}

// Navigate fetches url. The wait condition has no meaning without a renderer
// and is ignored.
func (p *StaticPage) Navigate(ctx context.Context, url string, timeout time.Duration, _ models.WaitCondition) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, finalURL, err := p.client.FetchHTML(ctx, url, 0)
	if err != nil {
		return &models.NavigationError{URL: url, Err: err}
	}
	if html == "" {
		return &models.NavigationError{URL: url, Err: models.ErrEmptyResponse}
	}
	doc, err := NewHTMLDocument(html)
	if err != nil {
		return &models.NavigationError{URL: url, Err: err}
	}
	p.html, p.location, p.doc = html, finalURL, doc
	return nil
}

func (p *StaticPage) SetCookies(_ context.Context, cookies []models.CanonicalCookie) error {
	p.client.SetCookies(cookies)
	return nil
}

func (p *StaticPage) HTML(_ context.Context) (string, error) {
	if p.doc == nil {
		return "", errNotNavigated
	}
	return p.html, nil
}

func (p *StaticPage) Title(_ context.Context) (string, error) {
	if p.doc == nil {
		return "", errNotNavigated
	}
	return p.doc.Title(), nil
}

func (p *StaticPage) Location(_ context.Context) (string, error) {
	if p.doc == nil {
		return "", errNotNavigated
	}
	return p.location, nil
}

func (p *StaticPage) CountMatches(ctx context.Context, selector string) (int, error) {
	if p.doc == nil {
		return 0, errNotNavigated
	}
	return p.doc.CountMatches(ctx, selector)
}

func (p *StaticPage) Attribute(ctx context.Context, selector string, index int, name string) (string, bool, error) {
	if p.doc == nil {
		return "", false, errNotNavigated
	}
	return p.doc.Attribute(ctx, selector, index, name)
}

func (p *StaticPage) TextContent(ctx context.Context, selector string, index int) (string, bool, error) {
	if p.doc == nil {
		return "", false, errNotNavigated
	}
	return p.doc.TextContent(ctx, selector, index)
}

func (p *StaticPage) TextGroups(ctx context.Context, container, token string) ([][]string, error) {
	if p.doc == nil {
		return nil, errNotNavigated
	}
	return p.doc.TextGroups(ctx, container, token)
}

func (p *StaticPage) Close() error {
	p.client.client.CloseIdleConnections()
	return nil
}

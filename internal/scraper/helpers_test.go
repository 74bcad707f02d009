package scraper_test

import (
	"context"
	"errors"
	"time"

	"scrape-checker/internal/models"
)

type fakeElement struct {
	text  string
	attrs map[string]string
}

func el(text string) fakeElement { return fakeElement{text: text} }

func titled(title, text string) fakeElement {
	return fakeElement{text: text, attrs: map[string]string{"title": title}}
}

// fakeDocument answers queries from a fixed selector → elements table.
type fakeDocument struct {
	elements map[string][]fakeElement
	errs     map[string]error
	panics   map[string]bool
	groups   [][]string
	queries  []string
}

func newFakeDocument(elements map[string][]fakeElement) *fakeDocument {
	return &fakeDocument{
		elements: elements,
		errs:     map[string]error{},
		panics:   map[string]bool{},
	}
}

func (d *fakeDocument) query(selector string) ([]fakeElement, error) {
	d.queries = append(d.queries, selector)
	if d.panics[selector] {
		panic("query exploded: " + selector)
	}
	if err := d.errs[selector]; err != nil {
		return nil, err
	}
	return d.elements[selector], nil
}

func (d *fakeDocument) CountMatches(_ context.Context, selector string) (int, error) {
	els, err := d.query(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

func (d *fakeDocument) Attribute(_ context.Context, selector string, index int, name string) (string, bool, error) {
	els, err := d.query(selector)
	if err != nil {
		return "", false, err
	}
	if index >= len(els) {
		return "", false, nil
	}
	v, ok := els[index].attrs[name]
	return v, ok, nil
}

func (d *fakeDocument) TextContent(_ context.Context, selector string, index int) (string, bool, error) {
	els, err := d.query(selector)
	if err != nil {
		return "", false, err
	}
	if index >= len(els) {
		return "", false, nil
	}
	return els[index].text, true, nil
}

func (d *fakeDocument) TextGroups(_ context.Context, _, _ string) ([][]string, error) {
	if err := d.errs["groups"]; err != nil {
		return nil, err
	}
	return d.groups, nil
}

// fakePage is a Page over a fakeDocument that records lifecycle calls.
type fakePage struct {
	*fakeDocument
	html        string
	title       string
	navErr      error
	onNavigate  func()
	navigated   []string
	waits       []models.WaitCondition
	cookies     []models.CanonicalCookie
	closed      bool
	navigatedAt time.Time
}

func (p *fakePage) Navigate(_ context.Context, url string, _ time.Duration, wait models.WaitCondition) error {
	p.navigated = append(p.navigated, url)
	p.waits = append(p.waits, wait)
	p.navigatedAt = time.Now()
	if p.onNavigate != nil {
		p.onNavigate()
	}
	if p.navErr != nil {
		return &models.NavigationError{URL: url, Err: p.navErr}
	}
	return nil
}

func (p *fakePage) SetCookies(_ context.Context, cookies []models.CanonicalCookie) error {
	if len(p.navigated) > 0 {
		return errors.New("cookies set after navigation")
	}
	p.cookies = append(p.cookies, cookies...)
	return nil
}

func (p *fakePage) HTML(context.Context) (string, error)  { return p.html, nil }
func (p *fakePage) Title(context.Context) (string, error) { return p.title, nil }

func (p *fakePage) Location(context.Context) (string, error) {
	if len(p.navigated) == 0 {
		return "", errors.New("not navigated")
	}
	return p.navigated[len(p.navigated)-1], nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

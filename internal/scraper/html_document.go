package scraper

import (
	"context"
	"fmt"
	"strings"

	"scrape-checker/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// HTMLDocument is a Document over a parsed HTML snapshot. It sees the markup as
// served, without script execution.
type HTMLDocument struct {
	doc *goquery.Document
}

// NewHTMLDocument parses html into a queryable document.
func NewHTMLDocument(html string) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// find compiles selector explicitly; goquery alone would silently match
// nothing for a malformed selector.
func (d *HTMLDocument) find(selector string) (*goquery.Selection, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, &models.SelectorError{Selector: selector, Err: err}
	}
	return d.doc.FindMatcher(matcher), nil
}

func (d *HTMLDocument) CountMatches(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sel, err := d.find(selector)
	if err != nil {
		return 0, err
	}
	return sel.Length(), nil
}

func (d *HTMLDocument) Attribute(ctx context.Context, selector string, index int, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	sel, err := d.find(selector)
	if err != nil {
		return "", false, err
	}
	if index < 0 || index >= sel.Length() {
		return "", false, nil
	}
	val, ok := sel.Eq(index).Attr(name)
	return val, ok, nil
}

func (d *HTMLDocument) TextContent(ctx context.Context, selector string, index int) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	sel, err := d.find(selector)
	if err != nil {
		return "", false, err
	}
	if index < 0 || index >= sel.Length() {
		return "", false, nil
	}
	return sel.Eq(index).Text(), true, nil
}

func (d *HTMLDocument) TextGroups(ctx context.Context, container, token string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	containers, err := d.find(container)
	if err != nil {
		return nil, err
	}
	tokenMatcher, err := cascadia.Compile(token)
	if err != nil {
		return nil, &models.SelectorError{Selector: token, Err: err}
	}

	groups := make([][]string, 0, containers.Length())
	containers.Each(func(_ int, c *goquery.Selection) {
		var texts []string
		c.FindMatcher(tokenMatcher).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, s.Text())
		})
		groups = append(groups, texts)
	})
	return groups, nil
}

// Title returns the document title element text.
func (d *HTMLDocument) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}


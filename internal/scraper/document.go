package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scrape-checker/internal/models"
)

// Document is a live, queryable page. Every method is a suspension point and
// may fail; callers decide whether a failure is fatal.
type Document interface {
	// CountMatches returns the number of elements matching selector.
	CountMatches(ctx context.Context, selector string) (int, error)
	// Attribute returns the named attribute of the index-th match and whether
	// the element exists and carries the attribute.
	Attribute(ctx context.Context, selector string, index int, name string) (string, bool, error)
	// TextContent returns the rendered text of the index-th match and whether
	// the element exists.
	TextContent(ctx context.Context, selector string, index int) (string, bool, error)
}

// TrendSource exposes grouped text tokens for container-shaped layouts.
type TrendSource interface {
	// TextGroups returns, per element matching container, the text of each
	// descendant matching token, both in document order.
	TextGroups(ctx context.Context, container, token string) ([][]string, error)
}

// Page is a document provider bound to one browser tab or fetched document.
// A Page is owned by a single check and is not safe for concurrent use.
type Page interface {
	Document
	TrendSource
	Navigate(ctx context.Context, url string, timeout time.Duration, wait models.WaitCondition) error
	SetCookies(ctx context.Context, cookies []models.CanonicalCookie) error
	HTML(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	// Location is the URL of the loaded document, after redirects.
	Location(ctx context.Context) (string, error)
	Close() error
}

// In-page query functions shared by the browser engines. Each is a function
// expression so it can be invoked with JSON-encoded arguments.
const (
	countMatchesJS = `(sel) => document.querySelectorAll(sel).length`

	attributeJS = `(sel, idx, name) => {
	const el = document.querySelectorAll(sel)[idx];
	if (!el || !el.hasAttribute(name)) return null;
	return el.getAttribute(name);
}`

	textContentJS = `(sel, idx) => {
	const el = document.querySelectorAll(sel)[idx];
	return el ? (el.textContent || "") : null;
}`

	textGroupsJS = `(container, token) => Array.from(document.querySelectorAll(container)).map(
	(el) => Array.from(el.querySelectorAll(token)).map((s) => s.textContent || ""))`
)

// invokeJS renders a call of fn with args encoded as JavaScript literals.
func invokeJS(fn string, args ...any) (string, error) {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("encoding script argument %d: %w", i, err)
		}
		encoded[i] = string(b)
	}
	return fmt.Sprintf("(%s)(%s)", fn, strings.Join(encoded, ", ")), nil
}

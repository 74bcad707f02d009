package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Raw output formats
const (
	RawFormatHTML     = "html"
	RawFormatMarkdown = "markdown"
)

// markdownRemoveTags never carry readable content.
var markdownRemoveTags = []string{"script", "style", "noscript", "iframe"}

var multiBlankLines = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts a rendered page to markdown, resolving relative links
// against pageURL.
func ToMarkdown(html, pageURL string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range markdownRemoveTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}

	md, err := conv.ConvertString(html, converter.WithDomain(domainOf(pageURL)))
	if err != nil {
		return "", fmt.Errorf("html-to-markdown conversion: %w", err)
	}
	md = multiBlankLines.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md) + "\n", nil
}

func domainOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Package scraper provides helper functions for page summary extraction.
package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"scrape-checker/internal/config"
	"scrape-checker/internal/models"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Summarizer derives page-level facts from a rendered HTML snapshot.
type Summarizer struct {
	regexes map[string]*regexp.Regexp
}

func NewSummarizer() *Summarizer {
	return &Summarizer{regexes: config.CompileRegexes()}
}

// Summarize fills a PageSummary from the snapshot. title and linkCount come
// from the live page; an empty title falls back to the snapshot's <title>.
func (s *Summarizer) Summarize(html, pageURL, title string, linkCount int) models.PageSummary {
	summary := models.PageSummary{
		Title:     strings.TrimSpace(title),
		LinkCount: linkCount,
		Blocked:   s.LooksLikeCFBlock(html),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return summary
	}
	if summary.Title == "" {
		summary.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	summary.MetaDescription = FindMetaTag(doc, "", "description")
	summary.ReadabilityTitle = readabilityTitle(html, pageURL)
	return summary
}

// LooksLikeCFBlock checks if HTML content indicates Cloudflare blocking
func (s *Summarizer) LooksLikeCFBlock(html string) bool {
	return s.regexes["cfBlock"].MatchString(strings.ToLower(html))
}

func readabilityTitle(html, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return ""
	}
	return CleanWhitespace(article.Title)
}

// FindMetaTag searches for a meta tag with the given property or name
func FindMetaTag(doc *goquery.Document, property, name string) string {
	var value string

	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if property != "" {
			if prop, exists := s.Attr("property"); exists && prop == property {
				if content, exists := s.Attr("content"); exists {
					value = strings.TrimSpace(content)
					return false
				}
			}
		}
		if name != "" {
			if n, exists := s.Attr("name"); exists && n == name {
				if content, exists := s.Attr("content"); exists {
					value = strings.TrimSpace(content)
					return false
				}
			}
		}
		return true
	})

	return value
}

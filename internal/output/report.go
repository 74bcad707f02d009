package output

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"scrape-checker/internal/models"
	"scrape-checker/internal/scraper"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat checks an --output value
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return &models.InvalidArgumentError{Flag: "output", Value: format, Reason: "must be text, json or yaml"}
}

// Report prints a human-readable rendition of one check.
func (p *Printer) Report(r models.Report) {
	p.Info("Scraping: %s", r.URL)
	if r.CookiesLoaded > 0 {
		p.Info("Loaded %d cookies", r.CookiesLoaded)
	}

	switch r.Mode {
	case models.ModeRaw:
		p.Data(r.Raw)
	case models.ModeTrends:
		p.trends(r.Trends)
	default:
		p.ranking(r)
	}
}

func (p *Printer) trends(trends []models.TrendEntry) {
	if len(trends) == 0 {
		p.Warn("No trends found")
		return
	}

	p.Success("Found %d trends:", len(trends))
	for i, t := range trends {
		name := "Unknown"
		if t.TrendName != nil {
			name = *t.TrendName
		}
		p.Info("  %d. %s", i+1, p.Clean(name))
		if t.Category != nil {
			p.Dim("     Category: %s", p.Clean(*t.Category))
		}
		if t.PostCount != nil {
			p.Dim("     Posts: %s", p.Clean(*t.PostCount))
		}
	}

	data, err := json.MarshalIndent(trends, "", "  ")
	if err != nil {
		p.Error("Failed to encode trends: %v", err)
		return
	}
	p.Data(string(data))
}

func (p *Printer) ranking(r models.Report) {
	s := r.Summary
	if s != nil {
		title := p.Clean(s.Title)
		if title == "" {
			title = "(empty)"
		}
		p.Info("Title: %s", title)
		if s.MetaDescription != "" {
			p.Info("Meta Description: %s...", scraper.Truncate(p.Clean(s.MetaDescription), scraper.DisplayLimit))
		}
		if s.ReadabilityTitle != "" && s.ReadabilityTitle != s.Title {
			p.Info("Readability title: %s", scraper.Truncate(p.Clean(s.ReadabilityTitle), scraper.DisplayLimit))
		}
		if s.Blocked {
			p.Warn("Page looks like a Cloudflare challenge")
		}
	}

	p.Info("Selector hits (top %d):", r.Top)
	p.hitTable(r.Ranking.Top(r.Top))

	for _, sc := range r.Candidates {
		p.Success("Title candidates (%s):", sc.Selector)
		for i, c := range sc.Candidates {
			p.Info("  %d. %s", i+1, scraper.Truncate(p.Clean(c.Text), scraper.DisplayLimit))
		}
	}

	if s != nil {
		p.Info("Total links: %d", s.LinkCount)
	}
}

func (p *Printer) hitTable(hits models.Ranking) {
	if p.quiet || len(hits) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Selector", "Hits"})
	for i, h := range hits {
		t.AppendRow(table.Row{i + 1, h.Selector, strconv.Itoa(h.Count)})
	}
	p.status(t.Render())
}

// Encode writes v to out as JSON or YAML.
func (p *Printer) Encode(v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	return ValidateFormat(format)
}

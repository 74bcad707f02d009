package scraper

import (
	"context"
	"fmt"
	"strings"

	"scrape-checker/internal/models"
)

// tokenPredicate recognises one trend field by locale marker.
type tokenPredicate struct {
	field   string
	markers []string
}

func (p tokenPredicate) match(token string) bool {
	for _, m := range p.markers {
		if strings.Contains(token, m) {
			return true
		}
	}
	return false
}

// trendPredicates run in order; the first token matching a predicate wins its field.
var trendPredicates = []tokenPredicate{
	{field: "category", markers: TrendCategoryMarkers},
	{field: "postCount", markers: TrendPostCountMarkers},
}

// ParseTrends reads every trend container on the page, in document order.
// Containers with fewer than two non-empty tokens are skipped.
func ParseTrends(ctx context.Context, src TrendSource) ([]models.TrendEntry, error) {
	groups, err := src.TextGroups(ctx, TrendContainerSelector, TrendTokenSelector)
	if err != nil {
		return nil, fmt.Errorf("reading trend containers: %w", err)
	}

	trends := make([]models.TrendEntry, 0, len(groups))
	for _, tokens := range groups {
		if entry, ok := ParseTrendTokens(tokens); ok {
			trends = append(trends, entry)
		}
	}
	return trends, nil
}

// ParseTrendTokens disambiguates one container's tokens into a trend entry.
// Layouts are either [category, name, posts] or [name, posts]; any field may
// stay unset.
func ParseTrendTokens(raw []string) (models.TrendEntry, bool) {
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) < MinTrendTokens {
		return models.TrendEntry{}, false
	}

	matched := make(map[string]*string, len(trendPredicates))
	for _, p := range trendPredicates {
		for _, t := range tokens {
			if p.match(t) {
				matched[p.field] = &t
				break
			}
		}
	}

	entry := models.TrendEntry{
		Category:  matched["category"],
		PostCount: matched["postCount"],
	}
	for _, t := range tokens {
		if isToken(entry.Category, t) || isToken(entry.PostCount, t) {
			continue
		}
		entry.TrendName = &t
		break
	}
	return entry, true
}

func isToken(field *string, token string) bool {
	return field != nil && *field == token
}

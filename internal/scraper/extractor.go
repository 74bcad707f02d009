package scraper

import (
	"context"
	"strings"

	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
)

// CandidateExtractor samples title candidates from the top-ranked selectors.
type CandidateExtractor struct {
	log logger.Logger
}

func NewCandidateExtractor(log logger.Logger) *CandidateExtractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &CandidateExtractor{log: log}
}

// Extract samples up to MaxCandidatesPerSelector elements for each of the
// first topN ranking entries with a non-zero count. Selectors whose samples
// produce no text are left out.
func (e *CandidateExtractor) Extract(ctx context.Context, doc Document, ranking models.Ranking, topN int) []models.SelectorCandidates {
	var out []models.SelectorCandidates
	for _, hit := range ranking.Top(topN) {
		if hit.Count <= 0 {
			continue
		}
		candidates := e.sample(ctx, doc, hit)
		if len(candidates) == 0 {
			continue
		}
		out = append(out, models.SelectorCandidates{
			Selector:   hit.Selector,
			Count:      hit.Count,
			Candidates: candidates,
		})
	}
	return out
}

func (e *CandidateExtractor) sample(ctx context.Context, doc Document, hit models.HitResult) []models.TitleCandidate {
	limit := min(hit.Count, MaxCandidatesPerSelector)

	var candidates []models.TitleCandidate
	for i := 0; i < limit; i++ {
		text, ok := e.elementText(ctx, doc, hit.Selector, i)
		if !ok || text == "" {
			continue
		}
		candidates = append(candidates, models.TitleCandidate{
			SourceSelector: hit.Selector,
			Text:           text,
		})
	}
	return candidates
}

// elementText prefers the title attribute when the element has one, even an
// empty one, and falls back to the element's text content otherwise.
func (e *CandidateExtractor) elementText(ctx context.Context, doc Document, selector string, index int) (string, bool) {
	attr, present, err := doc.Attribute(ctx, selector, index, TitleAttribute)
	if err != nil {
		e.log.Debug("Attribute query failed",
			logger.String("selector", selector),
			logger.Int("index", index),
			logger.Error(err))
		return "", false
	}
	if present {
		return strings.TrimSpace(attr), true
	}

	text, exists, err := doc.TextContent(ctx, selector, index)
	if err != nil {
		e.log.Debug("Text query failed",
			logger.String("selector", selector),
			logger.Int("index", index),
			logger.Error(err))
		return "", false
	}
	if !exists {
		return "", false
	}
	return strings.TrimSpace(text), true
}

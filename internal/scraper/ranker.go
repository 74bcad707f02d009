package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
)

// Ranker counts how many elements each catalog selector hits in a document.
type Ranker struct {
	log logger.Logger
}

func NewRanker(log logger.Logger) *Ranker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Ranker{log: log}
}

// Rank queries doc once per catalog entry, in catalog order, and returns the
// hits sorted by count descending. Ties keep catalog order. A selector that
// fails to evaluate counts as zero. Once ctx is done the pass stops and the
// partial ranking is returned; callers check ctx.Err().
func (r *Ranker) Rank(ctx context.Context, doc Document, catalog Catalog) models.Ranking {
	ranking := make(models.Ranking, 0, catalog.Len())
	for _, sel := range catalog.Selectors() {
		if ctx.Err() != nil {
			r.log.Debug("Ranking interrupted", logger.Int("ranked", len(ranking)), logger.Error(ctx.Err()))
			break
		}
		ranking = append(ranking, models.HitResult{
			Selector: sel,
			Count:    r.count(ctx, doc, sel),
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	return ranking
}

// count is the per-selector guard; nothing a single selector does can abort the pass.
func (r *Ranker) count(ctx context.Context, doc Document, selector string) (n int) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug("Selector evaluation panicked",
				logger.String("selector", selector),
				logger.String("panic", fmt.Sprint(p)))
			n = 0
		}
	}()

	n, err := doc.CountMatches(ctx, selector)
	if err != nil {
		var selErr *models.SelectorError
		if !errors.As(err, &selErr) {
			err = &models.SelectorError{Selector: selector, Err: err}
		}
		r.log.Debug("Selector evaluation failed, counting as zero",
			logger.String("selector", selector),
			logger.Error(err))
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

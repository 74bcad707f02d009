package scraper

import (
	"context"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
)

// OpenPage starts the named document provider. The caller owns the returned
// Page and must Close it.
func OpenPage(ctx context.Context, engine string, cfg config.ScrapeConfig, log logger.Logger) (Page, error) {
	if err := config.ValidateEngine(engine); err != nil {
		return nil, err
	}
	switch engine {
	case config.EngineRod:
		return NewRodPage(ctx, cfg, log)
	case config.EngineStatic:
		return NewStaticPage(cfg), nil
	default:
		return NewBrowserPage(ctx, cfg, log)
	}
}

// Package scraper provides constants used throughout the scraping functionality.
package scraper

import "time"

// Defaults for a check
const (
	DefaultURL       = "https://apify.com/theo/ap-news-scraper"
	DefaultTimeout   = 30 * time.Second
	DefaultTopN      = 3
	DefaultWaitUntil = "domcontentloaded"
)

// Sampling limits
const (
	// MaxCandidatesPerSelector bounds how many matched elements are sampled per selector.
	MaxCandidatesPerSelector = 5
	// TitleAttribute is preferred over text content when an element carries it.
	TitleAttribute = "title"
	// DisplayLimit is the rune length candidates and descriptions are cut to for display.
	DisplayLimit = 100
)

// LinkSelector counts the page's links in the summary.
const LinkSelector = "a"

// Trend layout markers. The container and token markers are fixed for the
// X.com explore layout and are not part of the ranked catalog.
const (
	TrendContainerSelector = `div[data-testid="trend"]`
	TrendTokenSelector     = "span.css-1jxf684"
	MinTrendTokens         = 2
)

// Locale markers for trend tokens (English and Japanese)
var (
	TrendCategoryMarkers  = []string{"トレンド", "Trending"}
	TrendPostCountMarkers = []string{"件のポスト", "posts"}
)

// Browser configuration
const (
	DefaultWindowWidth  = 1920
	DefaultWindowHeight = 1080
	MaxRedirects        = 5
)

// Cloudflare detection patterns
var CloudflarePatterns = []string{
	"CF_BLOCKED",
	"cloudflare",
	"HTTP 403",
	"attention required",
	"cloudflare ray id",
	"what can i do to resolve this?",
	"why have i been blocked?",
	"performance & security by cloudflare",
}

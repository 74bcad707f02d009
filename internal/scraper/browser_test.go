package scraper_test

import (
	"testing"

	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"

	"scrape-checker/internal/scraper"
)

func TestBrowserWaitEvents(t *testing.T) {
	t.Parallel()

	assert.True(t, scraper.IsDOMContentLoaded(&page.EventDomContentEventFired{}))
	assert.False(t, scraper.IsDOMContentLoaded(&page.EventLoadEventFired{}))
	assert.False(t, scraper.IsDOMContentLoaded(&page.EventLifecycleEvent{Name: "DOMContentLoaded"}))

	assert.True(t, scraper.IsNetworkIdle(&page.EventLifecycleEvent{Name: "networkIdle"}))
	assert.False(t, scraper.IsNetworkIdle(&page.EventLifecycleEvent{Name: "load"}))
	assert.False(t, scraper.IsNetworkIdle(&page.EventDomContentEventFired{}))
}

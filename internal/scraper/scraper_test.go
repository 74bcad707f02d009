package scraper_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-checker/internal/config"
	"scrape-checker/internal/logger"
	"scrape-checker/internal/models"
	"scrape-checker/internal/scraper"
)

func openerFor(p scraper.Page) scraper.PageOpener {
	return func(context.Context, string, config.ScrapeConfig, logger.Logger) (scraper.Page, error) {
		return p, nil
	}
}

func TestCheck_RankMode(t *testing.T) {
	t.Parallel()

	page := &fakePage{
		fakeDocument: newFakeDocument(map[string][]fakeElement{
			"h1":           {el("One"), el("Two"), el("Three")},
			".entry-title": {el("Entry")},
			"a":            {el("x"), el("y")},
		}),
		title: "Fake page",
		html:  `<html><head><meta name="description" content="Desc"></head><body></body></html>`,
	}
	cookies := []models.CanonicalCookie{{Name: "sid", Value: "1", Domain: "example.com", SameSite: models.SameSiteLax}}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(context.Background(), scraper.CheckOptions{
		URL:     "https://example.com",
		Top:     2,
		Catalog: scraper.NewCatalog("h1", ".entry-title", "[title]"),
		Cookies: cookies,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ModeRank, report.Mode)
	assert.Equal(t, 2, report.Top)
	assert.Equal(t, 1, report.CookiesLoaded)
	assert.Equal(t, cookies, page.cookies)
	assert.Equal(t, []models.WaitCondition{models.WaitDOMContentLoaded}, page.waits)
	assert.Equal(t, models.Ranking{{Selector: "h1", Count: 3}, {Selector: ".entry-title", Count: 1}}, report.Ranking.Top(2))

	require.Len(t, report.Candidates, 2)
	assert.Equal(t, "h1", report.Candidates[0].Selector)
	assert.Equal(t, ".entry-title", report.Candidates[1].Selector)

	require.NotNil(t, report.Summary)
	assert.Equal(t, "Fake page", report.Summary.Title)
	assert.Equal(t, "Desc", report.Summary.MetaDescription)
	assert.Equal(t, 2, report.Summary.LinkCount)
	assert.True(t, page.closed)
}

func TestCheck_TrendsMode(t *testing.T) {
	t.Parallel()

	doc := newFakeDocument(nil)
	doc.groups = [][]string{{"Trending", "Example Topic", "12.3K posts"}, {"solo"}}
	page := &fakePage{fakeDocument: doc}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(context.Background(), scraper.CheckOptions{URL: "https://x.com/explore", Trends: true})

	require.NoError(t, err)
	assert.Equal(t, models.ModeTrends, report.Mode)
	require.Len(t, report.Trends, 1)
	assert.Equal(t, "Example Topic", *report.Trends[0].TrendName)
	assert.Nil(t, report.Summary)
	assert.Empty(t, doc.queries)
}

func TestCheck_RawModeWinsOverTrends(t *testing.T) {
	t.Parallel()

	page := &fakePage{fakeDocument: newFakeDocument(nil), html: "<html><body><h1>Raw</h1></body></html>"}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(context.Background(), scraper.CheckOptions{URL: "https://example.com", Raw: true, Trends: true})

	require.NoError(t, err)
	assert.Equal(t, models.ModeRaw, report.Mode)
	assert.Equal(t, page.html, report.Raw)
	assert.Empty(t, report.Trends)
}

func TestCheck_RawMarkdown(t *testing.T) {
	t.Parallel()

	page := &fakePage{fakeDocument: newFakeDocument(nil), html: "<html><body><h1>Raw</h1></body></html>"}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(context.Background(), scraper.CheckOptions{
		URL:       "https://example.com",
		Raw:       true,
		RawFormat: scraper.RawFormatMarkdown,
	})

	require.NoError(t, err)
	assert.Contains(t, report.Raw, "# Raw")
}

func TestCheck_NavigationErrorIsFatal(t *testing.T) {
	t.Parallel()

	doc := newFakeDocument(map[string][]fakeElement{"h1": {el("x")}})
	page := &fakePage{fakeDocument: doc, navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(context.Background(), scraper.CheckOptions{URL: "https://nowhere.invalid"})

	var navErr *models.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, "https://nowhere.invalid", navErr.URL)
	assert.Empty(t, report.Ranking)
	assert.Empty(t, doc.queries)
	assert.True(t, page.closed)
}

func TestCheck_CancelledAfterNavigationFails(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	doc := newFakeDocument(map[string][]fakeElement{"h1": {el("A"), el("B")}})
	page := &fakePage{fakeDocument: doc, onNavigate: cancel}

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))
	report, err := checker.Check(ctx, scraper.CheckOptions{URL: "https://example.com", Catalog: scraper.NewCatalog("h1", "h2")})

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Ranking)
	assert.Empty(t, report.Candidates)
	assert.NotContains(t, doc.queries, "h1")
	assert.True(t, page.closed)
}

func TestCheck_OpenerError(t *testing.T) {
	t.Parallel()

	opener := func(context.Context, string, config.ScrapeConfig, logger.Logger) (scraper.Page, error) {
		return nil, errors.New("chrome not found")
	}
	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(opener))

	_, err := checker.Check(context.Background(), scraper.CheckOptions{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
}

func TestCheck_WaitIsHonoured(t *testing.T) {
	t.Parallel()

	page := &fakePage{fakeDocument: newFakeDocument(nil)}
	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(page)))

	start := time.Now()
	_, err := checker.Check(context.Background(), scraper.CheckOptions{URL: "https://example.com", Wait: 50 * time.Millisecond})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestCheck_InvalidRawFormat(t *testing.T) {
	t.Parallel()

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(openerFor(&fakePage{fakeDocument: newFakeDocument(nil)})))

	_, err := checker.Check(context.Background(), scraper.CheckOptions{Raw: true, RawFormat: "pdf"})
	var argErr *models.InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "raw-format", argErr.Flag)
}

func TestCheckAll_KeepsOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	opened := 0
	opener := func(context.Context, string, config.ScrapeConfig, logger.Logger) (scraper.Page, error) {
		mu.Lock()
		defer mu.Unlock()
		opened++
		return &fakePage{fakeDocument: newFakeDocument(map[string][]fakeElement{"h1": {el("x")}})}, nil
	}
	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(opener))

	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	outcomes := checker.CheckAll(context.Background(), urls, scraper.CheckOptions{
		Catalog: scraper.NewCatalog("h1"),
	}, 2)

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		assert.Equal(t, urls[i], o.URL)
		assert.Equal(t, urls[i], o.Report.URL)
	}
	assert.Equal(t, 3, opened)
}

func TestCheckAll_FailureDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	calls := 0
	opener := func(context.Context, string, config.ScrapeConfig, logger.Logger) (scraper.Page, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("launch failed")
		}
		return &fakePage{fakeDocument: newFakeDocument(nil)}, nil
	}
	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil, scraper.WithPageOpener(opener))

	outcomes := checker.CheckAll(context.Background(), []string{"https://a.example", "https://b.example", "https://c.example"}, scraper.CheckOptions{}, 1)

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.NoError(t, outcomes[2].Err)
}

func TestCheck_StaticEngineEndToEnd(t *testing.T) {
	t.Parallel()

	var (
		mu        sync.Mutex
		gotCookie string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			mu.Lock()
			gotCookie = c.Value
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Static</title></head><body>
			<h1>First</h1><h1>Second</h1><h1>Third</h1>
			<div class="entry-title">Entry</div>
			<a href="/x">link</a>
		</body></html>`)
	}))
	defer srv.Close()

	cfg := config.DefaultScrapeConfig()
	cfg.Engine = config.EngineStatic
	checker := scraper.NewChecker(cfg, nil)

	report, err := checker.Check(context.Background(), scraper.CheckOptions{
		URL:     srv.URL,
		Top:     2,
		Catalog: scraper.NewCatalog("h1", ".entry-title", "[title]"),
		Cookies: []models.CanonicalCookie{{Name: "session", Value: "abc", Domain: "127.0.0.1", Path: "/"}},
	})

	require.NoError(t, err)
	assert.Equal(t, config.EngineStatic, report.Engine)
	mu.Lock()
	assert.Equal(t, "abc", gotCookie)
	mu.Unlock()
	assert.Equal(t, models.Ranking{{Selector: "h1", Count: 3}, {Selector: ".entry-title", Count: 1}}, report.Ranking.Top(2))
	require.Len(t, report.Candidates, 2)
	assert.Equal(t, []string{"First", "Second", "Third"}, report.Candidates[0].Texts())
	assert.Equal(t, "Static", report.Summary.Title)
	assert.Equal(t, 1, report.Summary.LinkCount)
}

func TestCheck_StaticEngineHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	checker := scraper.NewChecker(config.DefaultScrapeConfig(), nil)
	_, err := checker.Check(context.Background(), scraper.CheckOptions{URL: srv.URL, Engine: config.EngineStatic})

	var navErr *models.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Contains(t, err.Error(), "HTTP 404")
}

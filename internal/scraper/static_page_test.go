package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-checker/internal/config"
	"scrape-checker/internal/models"
	"scrape-checker/internal/scraper"
)

func TestStaticPage_LocationFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Moved</title></head><body><h1>Here</h1></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	page := scraper.NewStaticPage(config.DefaultScrapeConfig())
	defer page.Close()

	_, err := page.Location(context.Background())
	require.Error(t, err)

	require.NoError(t, page.Navigate(context.Background(), srv.URL+"/old", 5*time.Second, models.WaitLoad))

	loc, err := page.Location(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/new", loc)

	title, err := page.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Moved", title)
}

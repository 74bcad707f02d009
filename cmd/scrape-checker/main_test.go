package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-checker/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Fixture</title></head><body>
			<h1>Alpha</h1><h1>Beta</h1>
			<div data-testid="trend"><span class="css-1jxf684">Trending</span><span class="css-1jxf684">Topic</span></div>
		</body></html>`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(nil)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestScrapeCheck_TextOutput(t *testing.T) {
	srv := newTestServer(t)

	out, _, err := execute(t, "scrape-check", "--engine", "static", "-u", srv.URL, "--catalog", "quick", "--top", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Title: Fixture")
	assert.Contains(t, out, "Selector hits (top 2):")
	assert.Contains(t, out, "Title candidates (h1):")
	assert.Contains(t, out, "1. Alpha")
	assert.Contains(t, out, "Scrape check completed successfully")
}

func TestScrapeCheck_JSONTrends(t *testing.T) {
	srv := newTestServer(t)

	out, _, err := execute(t, "scrape-check", "--engine", "static", "-u", srv.URL, "--trends", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Success bool          `json:"success"`
		Message string        `json:"message"`
		Data    models.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, fmt.Sprintf("Parsed 1 trends from %s", srv.URL), result.Message)
	require.Len(t, result.Data.Trends, 1)
	assert.Equal(t, "Topic", *result.Data.Trends[0].TrendName)
}

func TestScrapeCheck_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad wait condition", []string{"--wait-until", "idle"}},
		{"negative top", []string{"--top", "-1"}},
		{"non-numeric timeout", []string{"--timeout", "soon"}},
		{"unknown catalog", []string{"--catalog", "huge"}},
		{"unknown engine", []string{"--engine", "lynx"}},
		{"bad url", []string{"-u", "ftp://example.com"}},
		{"bad output", []string{"-o", "xml"}},
		{"bad raw format", []string{"--raw", "--raw-format", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"scrape-check"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, models.ExitInvalidArgument, models.ExitCode(err))
		})
	}
}

func TestScrapeCheck_MalformedCookiesFailBeforeNavigation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"not-an-array"}`), 0o600))

	_, errOut, err := execute(t, "scrape-check", "--engine", "static", "-u", srv.URL, "-c", path)

	var malformed *models.MalformedCookieError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, models.ExitFailure, models.ExitCode(err))
	assert.Contains(t, errOut, "Scrape failed")
	assert.Zero(t, hits.Load())
}

func TestScrapeCheck_NavigationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, errOut, err := execute(t, "scrape-check", "--engine", "static", "-u", srv.URL)

	var navErr *models.NavigationError
	require.ErrorAs(t, err, &navErr)
	var reported *reportedError
	assert.ErrorAs(t, err, &reported)
	assert.Contains(t, errOut, "Scrape failed")
}

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"scrape-checker/internal/config"
	"scrape-checker/internal/models"
)

type HTTPClient struct {
	client *http.Client
	config config.ScrapeConfig
}

func NewHTTPClient(cfg config.ScrapeConfig) *HTTPClient {
	jar, _ := cookiejar.New(nil)

	// Configure HTTP client with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPClient{
		client: client,
		config: cfg,
	}
}

// setRequestHeaders sets browser-like headers on the request
func (h *HTTPClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// SetCookies stores canonical cookies in the client's jar so they are sent to
// matching hosts. Cookies without a domain cannot be scoped and are skipped.
func (h *HTTPClient) SetCookies(cookies []models.CanonicalCookie) {
	for _, c := range cookies {
		host := strings.TrimPrefix(c.Domain, ".")
		if host == "" {
			continue
		}
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		u := &url.URL{Scheme: scheme, Host: host, Path: "/"}
		h.client.Jar.SetCookies(u, []*http.Cookie{toHTTPCookie(c)})
	}
}

func toHTTPCookie(c models.CanonicalCookie) *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	if exp, ok := c.ExpiresAt(); ok {
		hc.Expires = exp
	}
	switch c.SameSite {
	case models.SameSiteNone:
		hc.SameSite = http.SameSiteNoneMode
	case models.SameSiteLax:
		hc.SameSite = http.SameSiteLaxMode
	default:
		hc.SameSite = http.SameSiteStrictMode
	}
	return hc
}

// retryWithBackoff implements exponential backoff for retries
func (h *HTTPClient) retryWithBackoff(ctx context.Context, targetURL string, retryCount int) (string, string, error) {
	if retryCount >= h.config.MaxRetries {
		return "", "", fmt.Errorf("max retries exceeded")
	}

	delay := time.Duration(1000*(1<<retryCount)) * time.Millisecond
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
	return h.FetchHTML(ctx, targetURL, retryCount+1)
}

// FetchHTML fetches HTML content from a URL with retry logic. It returns the
// body and the final URL after redirects.
func (h *HTTPClient) FetchHTML(ctx context.Context, targetURL string, retryCount int) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic a real browser
	h.setRequestHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle 5xx server errors with retry logic
	if resp.StatusCode >= 500 {
		return h.retryWithBackoff(ctx, targetURL, retryCount)
	}

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// Check content type
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", "", fmt.Errorf("non-HTML content-type: %s", contentType)
	}

	// Read response body with size limit
	reader := io.LimitReader(resp.Body, int64(h.config.SizeLimitBytes))
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), resp.Request.URL.String(), nil
}

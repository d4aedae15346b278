package research

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/amandeepsp/khojkar/logging"
	"golang.org/x/sync/semaphore"
)

// Browser-like headers reduce the odds of content servers rejecting the
// request outright.
var scrapeHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// ScraperOptions configures a Scraper.
type ScraperOptions struct {
	// Concurrency bounds parallel fetches in ScrapeURLs. Default 4.
	Concurrency int
	// HTTPClient issues the requests. Defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Logger records per-URL diagnostics.
	Logger logging.Logger
}

// Scraper fetches web pages and extracts their readable text. Failures
// return an empty string rather than an error: a dead link should cost the
// agent one useless tool result, not the run.
type Scraper struct {
	concurrency int64
	client      *http.Client
	logger      logging.Logger
}

// NewScraper builds a Scraper.
func NewScraper(optFns ...func(o *ScraperOptions)) *Scraper {
	opts := ScraperOptions{
		Concurrency: 4,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Logger:      logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Scraper{
		concurrency: int64(opts.Concurrency),
		client:      opts.HTTPClient,
		logger:      opts.Logger,
	}
}

// ScrapeURL fetches one page and returns its extracted text, or "" when the
// fetch fails or the content type is unsupported.
func (s *Scraper) ScrapeURL(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		s.logger.Warn("scrape.bad_url", "url", rawURL, "error", err.Error())
		return ""
	}
	for k, v := range scrapeHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("scrape.fetch_failed", "url", rawURL, "error", err.Error())
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("scrape.bad_status", "url", rawURL, "status", resp.StatusCode)
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		s.logger.Warn("scrape.unsupported_content_type", "url", rawURL, "content_type", contentType)
		return ""
	}

	content, err := extractText(resp)
	if err != nil {
		s.logger.Warn("scrape.parse_failed", "url", rawURL, "error", err.Error())
		return ""
	}

	s.logger.Info("scrape.done", "url", rawURL, "chars", len(content))

	return content
}

// ScrapeURLs fetches pages in parallel under the configured concurrency
// bound. The result slice is index-aligned with urls; failed fetches hold
// empty strings.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string) []string {
	sem := semaphore.NewWeighted(s.concurrency)
	results := make([]string, len(urls))

	for i, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func(i int, u string) {
			defer sem.Release(1)
			results[i] = s.ScrapeURL(ctx, u)
		}(i, u)
	}

	// Draining the full weight waits for every in-flight fetch.
	if err := sem.Acquire(ctx, s.concurrency); err == nil {
		sem.Release(s.concurrency)
	}

	return results
}

// extractText pulls the readable text out of an HTML document, skipping
// script, style and navigation chrome.
func extractText(resp *http.Response) (string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	root := doc.Find("main, article")
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var lines []string
	for _, raw := range strings.Split(root.Text(), "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}

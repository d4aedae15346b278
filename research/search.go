// Package research assembles the deep-research workflows on top of the
// agent engine: web and academic search engines, a page scraper, the
// prompt set, and the single- and multi-agent researchers that wire them
// together with cached tools.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/amandeepsp/khojkar/logging"
)

// SearchResult is one hit returned by a search engine.
type SearchResult struct {
	Title       string
	URL         string
	Description string
	// FullContent holds scraped page content when the engine provides it.
	FullContent string
}

// SearchEngine is the retrieval contract the research tools are built on.
type SearchEngine interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// maxTokensPerResult bounds each stitched result at roughly 4000 tokens
// (~4 chars per token for English text).
const maxTokensPerResult = 4000

// StitchContext formats search results into one string suitable for a tool
// result: numbered sources with visual separators, content truncated per
// result so a single page cannot crowd out the rest.
func StitchContext(results []SearchResult) string {
	sepLong := strings.Repeat("=", 80)
	sepShort := strings.Repeat("-", 80)

	parts := make([]string, 0, len(results))
	for i, r := range results {
		content := r.FullContent
		if maxChars := maxTokensPerResult * 4; len(content) > maxChars {
			content = content[:maxChars] + "... [Content truncated due to length]"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s\nSource %d: %s\n%s\nURL: %s\nMost relevant content from source: %s",
			sepLong, i+1, r.Title, sepShort, r.URL, r.Description)
		if content != "" {
			fmt.Fprintf(&b, "\n%s\nContent:\n%s", sepLong, content)
		}
		b.WriteString("\n" + sepLong)

		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// SearchAndStitch runs a query and renders the hits with StitchContext.
func SearchAndStitch(ctx context.Context, engine SearchEngine, query string) (string, error) {
	results, err := engine.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return StitchContext(results), nil
}

// HTTPStatusError is returned by engines when the upstream API answers with
// a non-2xx status. Fallback routing inspects the code.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

const googleSearchURL = "https://www.googleapis.com/customsearch/v1"

// GoogleSearchEngineOptions configures a GoogleSearchEngine.
type GoogleSearchEngineOptions struct {
	// APIKey authenticates against the Custom Search JSON API. Defaults to
	// the GOOGLE_API_KEY environment variable.
	APIKey string
	// EngineID selects the programmable search engine. Defaults to the
	// SEARCH_ENGINE_ID environment variable.
	EngineID string
	// NumResults caps hits per query (max 10 per API page). Default 10.
	NumResults int
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
	// HTTPClient issues the requests. Defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Logger records query diagnostics.
	Logger logging.Logger
}

// GoogleSearchEngine queries the Google Custom Search JSON API.
type GoogleSearchEngine struct {
	apiKey     string
	engineID   string
	numResults int
	baseURL    string
	client     *http.Client
	logger     logging.Logger
}

// NewGoogleSearchEngine builds an engine for the Custom Search JSON API.
func NewGoogleSearchEngine(optFns ...func(o *GoogleSearchEngineOptions)) *GoogleSearchEngine {
	opts := GoogleSearchEngineOptions{
		APIKey:     os.Getenv("GOOGLE_API_KEY"),
		EngineID:   os.Getenv("SEARCH_ENGINE_ID"),
		NumResults: 10,
		BaseURL:    googleSearchURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &GoogleSearchEngine{
		apiKey:     opts.APIKey,
		engineID:   opts.EngineID,
		numResults: opts.NumResults,
		baseURL:    opts.BaseURL,
		client:     opts.HTTPClient,
		logger:     opts.Logger,
	}
}

type googleSearchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search implements SearchEngine.
func (e *GoogleSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("key", e.apiKey)
	params.Set("cx", e.engineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", e.numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	e.logger.Debug("search.google.query", "query", query)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]SearchResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		results = append(results, SearchResult{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	e.logger.Info("search.google.done", "query", query, "results", len(results))

	return results, nil
}

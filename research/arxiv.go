package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amandeepsp/khojkar/logging"
)

const arxivQueryURL = "http://export.arxiv.org/api/query"

// ArxivSearchEngineOptions configures an ArxivSearchEngine.
type ArxivSearchEngineOptions struct {
	// NumResults caps hits per query. Default 10.
	NumResults int
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
	// HTTPClient issues the requests. Defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// Logger records query diagnostics.
	Logger logging.Logger
}

// ArxivSearchEngine queries the arXiv Atom API, sorted by relevance.
type ArxivSearchEngine struct {
	numResults int
	baseURL    string
	client     *http.Client
	logger     logging.Logger
}

// NewArxivSearchEngine builds an engine for the arXiv query API.
func NewArxivSearchEngine(optFns ...func(o *ArxivSearchEngineOptions)) *ArxivSearchEngine {
	opts := ArxivSearchEngineOptions{
		NumResults: 10,
		BaseURL:    arxivQueryURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ArxivSearchEngine{
		numResults: opts.NumResults,
		baseURL:    opts.BaseURL,
		client:     opts.HTTPClient,
		logger:     opts.Logger,
	}
}

type arxivFeed struct {
	Entries []struct {
		ID      string `xml:"id"`
		Title   string `xml:"title"`
		Summary string `xml:"summary"`
	} `xml:"entry"`
}

// Search implements SearchEngine.
func (e *ArxivSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("max_results", fmt.Sprintf("%d", e.numResults))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build arxiv request: %w", err)
	}

	e.logger.Debug("search.arxiv.query", "query", query)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	results, err := parseArxivFeed(resp.Body)
	if err != nil {
		return nil, err
	}

	e.logger.Info("search.arxiv.done", "query", query, "results", len(results))

	return results, nil
}

func parseArxivFeed(r io.Reader) ([]SearchResult, error) {
	var feed arxivFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}

	results := make([]SearchResult, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		results = append(results, SearchResult{
			Title: strings.TrimSpace(entry.Title),
			// Entry ids are /abs/ links; the /html/ rendition carries the
			// full paper text for scraping.
			URL:         strings.Replace(strings.TrimSpace(entry.ID), "/abs/", "/html/", 1),
			Description: strings.TrimSpace(entry.Summary),
		})
	}

	return results, nil
}

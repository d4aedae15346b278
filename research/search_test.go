package research

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amandeepsp/khojkar/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	results []SearchResult
	err     error
	queries []string
}

func (e *stubEngine) Search(_ context.Context, query string) ([]SearchResult, error) {
	e.queries = append(e.queries, query)
	if e.err != nil {
		return nil, e.err
	}
	return e.results, nil
}

func TestStitchContext(t *testing.T) {
	out := StitchContext([]SearchResult{
		{Title: "First", URL: "https://a.example", Description: "summary a"},
		{Title: "Second", URL: "https://b.example", Description: "summary b", FullContent: "body text"},
	})

	assert.Contains(t, out, "Source 1: First")
	assert.Contains(t, out, "URL: https://a.example")
	assert.Contains(t, out, "Most relevant content from source: summary a")
	assert.Contains(t, out, "Source 2: Second")
	assert.Contains(t, out, "Content:\nbody text")
}

func TestStitchContextTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", maxTokensPerResult*4+100)
	out := StitchContext([]SearchResult{
		{Title: "Big", URL: "https://a.example", Description: "d", FullContent: long},
	})

	assert.Contains(t, out, "... [Content truncated due to length]")
	assert.Less(t, len(out), len(long))
}

func TestGoogleSearchEngine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go concurrency", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{"title": "Go blog", "link": "https://go.dev/blog", "snippet": "Concurrency patterns"},
			{"title": "Effective Go", "link": "https://go.dev/doc", "snippet": "Share memory by communicating"}
		]}`))
	}))
	defer server.Close()

	engine := NewGoogleSearchEngine(func(o *GoogleSearchEngineOptions) {
		o.APIKey = "test-key"
		o.EngineID = "test-cx"
		o.BaseURL = server.URL
		o.Logger = logging.NoOpLogger{}
	})

	results, err := engine.Search(context.Background(), "go concurrency")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go blog", results[0].Title)
	assert.Equal(t, "https://go.dev/blog", results[0].URL)
	assert.Equal(t, "Concurrency patterns", results[0].Description)
}

func TestGoogleSearchEngineStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	engine := NewGoogleSearchEngine(func(o *GoogleSearchEngineOptions) {
		o.BaseURL = server.URL
		o.Logger = logging.NoOpLogger{}
	})

	_, err := engine.Search(context.Background(), "anything")
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

const sampleAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title>Scaling Laws for
  Language Models</title>
    <summary>We study scaling behavior.</summary>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v2</id>
    <title>Retrieval-Augmented Generation</title>
    <summary>A survey of RAG systems.</summary>
  </entry>
</feed>`

func TestParseArxivFeed(t *testing.T) {
	results, err := parseArxivFeed(strings.NewReader(sampleAtomFeed))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Scaling Laws for\n  Language Models", results[0].Title)
	assert.Equal(t, "http://arxiv.org/html/2401.00001v1", results[0].URL)
	assert.Equal(t, "We study scaling behavior.", results[0].Description)
}

func TestArxivSearchEngine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all:transformers", r.URL.Query().Get("search_query"))
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(sampleAtomFeed))
	}))
	defer server.Close()

	engine := NewArxivSearchEngine(func(o *ArxivSearchEngineOptions) {
		o.BaseURL = server.URL
		o.Logger = logging.NoOpLogger{}
	})

	results, err := engine.Search(context.Background(), "transformers")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFallbackSearchEngineReroutes(t *testing.T) {
	primary := &stubEngine{err: &HTTPStatusError{StatusCode: 429, Body: "slow down"}}
	fallback := &stubEngine{results: []SearchResult{{Title: "saved"}}}

	engine := NewFallbackSearchEngine(primary, fallback,
		func(o *FallbackSearchEngineOptions) { o.Logger = logging.NoOpLogger{} })

	results, err := engine.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "saved", results[0].Title)
	assert.Equal(t, []string{"q"}, fallback.queries)
}

func TestFallbackSearchEnginePropagatesUnrecognized(t *testing.T) {
	primary := &stubEngine{err: errors.New("malformed response")}
	fallback := &stubEngine{results: []SearchResult{{Title: "saved"}}}

	engine := NewFallbackSearchEngine(primary, fallback,
		func(o *FallbackSearchEngineOptions) { o.Logger = logging.NoOpLogger{} })

	_, err := engine.Search(context.Background(), "q")
	assert.Error(t, err)
	assert.Empty(t, fallback.queries)
}

func TestFallbackSearchEnginePrimarySuccess(t *testing.T) {
	primary := &stubEngine{results: []SearchResult{{Title: "direct"}}}
	fallback := &stubEngine{}

	engine := NewFallbackSearchEngine(primary, fallback,
		func(o *FallbackSearchEngineOptions) { o.Logger = logging.NoOpLogger{} })

	results, err := engine.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "direct", results[0].Title)
	assert.Empty(t, fallback.queries)
}

func TestDefaultFallbackCondition(t *testing.T) {
	assert.True(t, DefaultFallbackCondition(&HTTPStatusError{StatusCode: 429}))
	assert.True(t, DefaultFallbackCondition(&HTTPStatusError{StatusCode: 403}))
	assert.False(t, DefaultFallbackCondition(&HTTPStatusError{StatusCode: 500}))
	assert.True(t, DefaultFallbackCondition(errors.New("Too Many Requests from upstream")))
	assert.True(t, DefaultFallbackCondition(errors.New("daily quota exceeded")))
	assert.False(t, DefaultFallbackCondition(errors.New("connection refused")))
}

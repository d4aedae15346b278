package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amandeepsp/khojkar/logging"
	"github.com/stretchr/testify/assert"
)

func newTestScraper() *Scraper {
	return NewScraper(func(o *ScraperOptions) { o.Logger = logging.NoOpLogger{} })
}

func TestScrapeURLExtractsArticleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html>
			<head><title>Page</title><style>body { color: red }</style></head>
			<body>
				<nav>Home | About</nav>
				<article>
					<h1>Solid State Batteries</h1>
					<p>Energy density is the key metric.</p>
					<script>trackPageView()</script>
				</article>
				<footer>Copyright</footer>
			</body>
		</html>`))
	}))
	defer server.Close()

	content := newTestScraper().ScrapeURL(context.Background(), server.URL)

	assert.Contains(t, content, "Solid State Batteries")
	assert.Contains(t, content, "Energy density is the key metric.")
	assert.NotContains(t, content, "trackPageView")
	assert.NotContains(t, content, "Home | About")
	assert.NotContains(t, content, "Copyright")
}

func TestScrapeURLFallsBackToBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div>plain page content</div></body></html>`))
	}))
	defer server.Close()

	content := newTestScraper().ScrapeURL(context.Background(), server.URL)
	assert.Equal(t, "plain page content", content)
}

func TestScrapeURLBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	assert.Empty(t, newTestScraper().ScrapeURL(context.Background(), server.URL))
}

func TestScrapeURLUnsupportedContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer server.Close()

	assert.Empty(t, newTestScraper().ScrapeURL(context.Background(), server.URL))
}

func TestScrapeURLUnreachableHost(t *testing.T) {
	assert.Empty(t, newTestScraper().ScrapeURL(context.Background(), "http://127.0.0.1:1/nothing"))
}

func TestScrapeURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>page " + r.URL.Path + "</body></html>"))
	}))
	defer server.Close()

	urls := []string{server.URL + "/a", server.URL + "/b", server.URL + "/c"}
	results := newTestScraper().ScrapeURLs(context.Background(), urls)

	assert.Equal(t, []string{"page /a", "page /b", "page /c"}, results)
}

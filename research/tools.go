package research

import (
	"context"
	"fmt"

	"github.com/amandeepsp/khojkar/cache"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/tool"
)

// newResearchRegistry builds the retrieval tool set shared by research
// agents: google_search, arxiv_search and scrape_url, each wrapped in a
// CachedTool so repeated queries across agents and steps hit the cache
// instead of the network.
func newResearchRegistry(
	webSearch SearchEngine,
	academicSearch SearchEngine,
	scraper *Scraper,
	store cache.Store,
	logger logging.Logger,
) *tool.Registry {
	queryParam := []tool.Parameter{{
		Name:        "query",
		Type:        "string",
		Description: "The search query",
		Required:    true,
	}}

	googleSearch := tool.MustFunctionTool(
		"google_search",
		"Use this tool to search the web for general information. Useful for getting a broad overview of a topic.",
		queryParam,
		func(ctx context.Context, args map[string]any) (string, error) {
			query, ok := args["query"].(string)
			if !ok {
				return "", fmt.Errorf("query must be a string, got %T", args["query"])
			}
			return SearchAndStitch(ctx, webSearch, query)
		},
		func(o *tool.FunctionToolOptions) { o.Logger = logger },
	)

	arxivSearch := tool.MustFunctionTool(
		"arxiv_search",
		"Use this tool to search Arxiv for academic papers, research papers, and other scholarly articles. Useful for more technical and academic topics.",
		queryParam,
		func(ctx context.Context, args map[string]any) (string, error) {
			query, ok := args["query"].(string)
			if !ok {
				return "", fmt.Errorf("query must be a string, got %T", args["query"])
			}
			return SearchAndStitch(ctx, academicSearch, query)
		},
		func(o *tool.FunctionToolOptions) { o.Logger = logger },
	)

	scrapeURL := tool.MustFunctionTool(
		"scrape_url",
		"Use this tool to scrape a specific URL for information. Useful for getting detailed information from a specific website.",
		[]tool.Parameter{{
			Name:        "url",
			Type:        "string",
			Description: "The URL to scrape",
			Required:    true,
		}},
		func(ctx context.Context, args map[string]any) (string, error) {
			rawURL, ok := args["url"].(string)
			if !ok {
				return "", fmt.Errorf("url must be a string, got %T", args["url"])
			}
			return scraper.ScrapeURL(ctx, rawURL), nil
		},
		func(o *tool.FunctionToolOptions) { o.Logger = logger },
	)

	cachedOpts := func(o *tool.CachedToolOptions) { o.Logger = logger }

	return tool.NewRegistry(
		tool.NewCachedTool(googleSearch, store, cachedOpts),
		tool.NewCachedTool(arxivSearch, store, cachedOpts),
		tool.NewCachedTool(scrapeURL, store, cachedOpts),
	)
}

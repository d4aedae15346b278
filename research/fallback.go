package research

import (
	"context"
	"errors"
	"strings"

	"github.com/amandeepsp/khojkar/logging"
)

// FallbackCondition decides whether an error from the primary engine
// warrants trying the fallback engine.
type FallbackCondition func(err error) bool

// DefaultFallbackCondition matches rate-limit and quota failures: HTTP 429
// and 403 responses plus error text mentioning throttling.
func DefaultFallbackCondition(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 429 || statusErr.StatusCode == 403
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"too many requests", "quota", "limit"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// FallbackSearchEngineOptions configures a FallbackSearchEngine.
type FallbackSearchEngineOptions struct {
	// Condition decides when to reroute. Defaults to
	// DefaultFallbackCondition.
	Condition FallbackCondition
	// Logger records reroute decisions.
	Logger logging.Logger
}

// FallbackSearchEngine tries a primary engine and reroutes recognized
// failures to a secondary engine. Unrecognized failures propagate
// unchanged so genuine bugs are not papered over.
type FallbackSearchEngine struct {
	primary   SearchEngine
	fallback  SearchEngine
	condition FallbackCondition
	logger    logging.Logger
}

// NewFallbackSearchEngine composes primary and fallback engines.
func NewFallbackSearchEngine(primary, fallback SearchEngine, optFns ...func(o *FallbackSearchEngineOptions)) *FallbackSearchEngine {
	opts := FallbackSearchEngineOptions{
		Condition: DefaultFallbackCondition,
		Logger:    logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FallbackSearchEngine{
		primary:   primary,
		fallback:  fallback,
		condition: opts.Condition,
		logger:    opts.Logger,
	}
}

// Search implements SearchEngine.
func (e *FallbackSearchEngine) Search(ctx context.Context, query string) ([]SearchResult, error) {
	results, err := e.primary.Search(ctx, query)
	if err == nil {
		return results, nil
	}

	if !e.condition(err) {
		e.logger.Error("search.fallback.unrecognized", "query", query, "error", err.Error())
		return nil, err
	}

	e.logger.Warn("search.fallback.reroute", "query", query, "error", err.Error())

	return e.fallback.Search(ctx, query)
}

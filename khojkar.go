// Package khojkar provides a high-level façade over the research workflows
// and agent engine. Most applications interact with this package by:
//  1. Creating a completion adapter (model/openai or model/anthropic)
//  2. Calling Research() with a topic, optionally selecting the
//     multi-agent workflow or overriding the cache, limiter or logger
//
// The façade delegates to research.SingleAgentResearcher or
// research.MultiAgentResearcher; applications that need finer control
// (custom tools, their own agents, different engines) use the agent, tool
// and research packages directly.
package khojkar

import (
	"context"

	"github.com/amandeepsp/khojkar/cache"
	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/model"
	"github.com/amandeepsp/khojkar/research"
)

// Options configures a Research call.
type Options struct {
	// MultiAgent selects the supervisor-coordinated workflow instead of
	// the single deep-research agent.
	MultiAgent bool
	// RequestsPerMinute budgets completion calls. 0 disables limiting.
	RequestsPerMinute int
	// Cache backs the retrieval tools. Defaults to in-memory.
	Cache cache.Store
	// MaxSteps bounds each agent's reasoning loop.
	MaxSteps int
	// Logger defaults to slog.
	Logger logging.Logger
}

// Research produces a markdown research report for topic using llm.
func Research(ctx context.Context, llm model.Model, topic string, optFns ...func(o *Options)) (string, error) {
	opts := Options{RequestsPerMinute: 60, MaxSteps: 30}
	for _, fn := range optFns {
		fn(&opts)
	}

	researchOpts := func(o *research.Options) {
		o.Limiter = core.NewRateLimiter(opts.RequestsPerMinute)
		o.Cache = opts.Cache
		o.MaxSteps = opts.MaxSteps
		o.Logger = opts.Logger
	}

	var researcher research.Researcher
	if opts.MultiAgent {
		researcher = research.NewMultiAgentResearcher(llm, researchOpts)
	} else {
		researcher = research.NewSingleAgentResearcher(llm, researchOpts)
	}

	return researcher.Research(ctx, topic)
}

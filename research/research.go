package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amandeepsp/khojkar/agent"
	"github.com/amandeepsp/khojkar/cache"
	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/memory"
	"github.com/amandeepsp/khojkar/model"
	"github.com/amandeepsp/khojkar/tool"
)

// Researcher produces a markdown research report for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string) (string, error)
}

// Options configures a researcher. Engine and scraper fields exist so tests
// can substitute doubles; production callers normally leave them nil and
// get the Google/arXiv/goquery defaults.
type Options struct {
	// Limiter gates every completion call. Defaults to disabled.
	Limiter *core.RateLimiter
	// Cache backs the retrieval tools. Defaults to an in-memory store; the
	// CLI passes the SQLite store for cross-run persistence.
	Cache cache.Store
	// WebSearch overrides the web search engine.
	WebSearch SearchEngine
	// AcademicSearch overrides the academic search engine.
	AcademicSearch SearchEngine
	// Scraper overrides the page scraper.
	Scraper *Scraper
	// MaxSteps bounds each agent's loop. Defaults to 10 for the single
	// researcher and 30/50 (specialists/supervisor) for the multi-agent one.
	MaxSteps int
	// ReportFormat names the citation style in the report prompt.
	// Default "APA". Single-agent researcher only.
	ReportFormat string
	// Logger is threaded through every component.
	Logger logging.Logger
}

func (o *Options) applyDefaults() {
	if o.Limiter == nil {
		o.Limiter = core.NewRateLimiter(0)
	}
	if o.Cache == nil {
		o.Cache = cache.NewMemoryStore()
	}
	if o.Logger == nil {
		o.Logger = logging.NewDefaultSlogLogger()
	}
	if o.WebSearch == nil {
		google := NewGoogleSearchEngine(func(g *GoogleSearchEngineOptions) { g.Logger = o.Logger })
		arxiv := NewArxivSearchEngine(func(a *ArxivSearchEngineOptions) { a.Logger = o.Logger })
		// When the web API is throttled or over quota, academic search
		// still returns usable sources.
		o.WebSearch = NewFallbackSearchEngine(google, arxiv,
			func(f *FallbackSearchEngineOptions) { f.Logger = o.Logger })
	}
	if o.AcademicSearch == nil {
		o.AcademicSearch = NewArxivSearchEngine(func(a *ArxivSearchEngineOptions) { a.Logger = o.Logger })
	}
	if o.Scraper == nil {
		o.Scraper = NewScraper(func(s *ScraperOptions) { s.Logger = o.Logger })
	}
}

// SingleAgentResearcher runs one deep-research agent with the full tool
// set, then issues a final temperature-zero completion asking for the
// report itself.
type SingleAgentResearcher struct {
	llm  model.Model
	opts Options
}

// NewSingleAgentResearcher builds the single-agent workflow.
func NewSingleAgentResearcher(llm model.Model, optFns ...func(o *Options)) *SingleAgentResearcher {
	opts := Options{MaxSteps: 10, ReportFormat: "APA"}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.applyDefaults()

	return &SingleAgentResearcher{llm: llm, opts: opts}
}

// Research implements Researcher.
func (r *SingleAgentResearcher) Research(ctx context.Context, topic string) (string, error) {
	registry := newResearchRegistry(
		r.opts.WebSearch, r.opts.AcademicSearch, r.opts.Scraper, r.opts.Cache, r.opts.Logger,
	)

	researcher := agent.NewReactAgent(
		"deep_research",
		r.llm,
		DeepResearchPrompt(topic, r.opts.ReportFormat, time.Now()),
		registry,
		func(o *agent.ReactAgentOptions) {
			o.Description = "A research agent that uses the web to find information about a topic"
			o.MaxSteps = r.opts.MaxSteps
			o.Limiter = r.opts.Limiter
			o.Logger = r.opts.Logger
		},
	)

	result, err := researcher.Run(ctx)
	if err != nil {
		return "", err
	}
	if result.Content == "" {
		return "", errors.New("research run produced no content")
	}

	r.opts.Logger.Info("research.report.generate", "topic", topic)

	// The run gathered the material; one more completion at temperature
	// zero turns the transcript into the report itself.
	researcher.Memory().Add(core.UserMessage(
		"Please create the report, only return the report content, nothing else",
	))

	if err := r.opts.Limiter.Acquire(ctx); err != nil {
		return "", err
	}

	resp, err := r.llm.Complete(ctx, model.Request{
		Messages:    researcher.Memory().All(),
		Tools:       registryDefinitions(registry),
		ToolChoice:  "auto",
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("report completion failed: %w", err)
	}

	return resp.Message.Content, nil
}

func registryDefinitions(registry *tool.Registry) []model.ToolDefinition {
	defs := registry.Definitions()
	out := make([]model.ToolDefinition, len(defs))
	for i, d := range defs {
		out[i] = model.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Schema(),
		}
	}
	return out
}

// MultiAgentResearcher runs the storm workflow: a supervisor coordinating
// planner, retriever, reflection and synthesis specialists over a shared
// scratchpad, with cached retrieval tools.
type MultiAgentResearcher struct {
	llm  model.Model
	opts Options
}

// NewMultiAgentResearcher builds the multi-agent workflow.
func NewMultiAgentResearcher(llm model.Model, optFns ...func(o *Options)) *MultiAgentResearcher {
	opts := Options{MaxSteps: 30}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.applyDefaults()

	return &MultiAgentResearcher{llm: llm, opts: opts}
}

// Research implements Researcher.
func (r *MultiAgentResearcher) Research(ctx context.Context, topic string) (string, error) {
	registry := newResearchRegistry(
		r.opts.WebSearch, r.opts.AcademicSearch, r.opts.Scraper, r.opts.Cache, r.opts.Logger,
	)

	pad := memory.NewScratchpad()
	padTools := tool.NewRegistry(pad.Tools()...)
	addTodo, _ := padTools.Get("add_todo")
	markDone, _ := padTools.Get("mark_todo_as_done")
	addNote, _ := padTools.Get("add_note")
	getNotes, _ := padTools.Get("get_notes")

	common := func(maxSteps int, schema map[string]any) func(o *agent.ReactAgentOptions) {
		return func(o *agent.ReactAgentOptions) {
			o.MaxSteps = maxSteps
			o.OutputSchema = schema
			o.Limiter = r.opts.Limiter
			o.Logger = r.opts.Logger
		}
	}

	planner := agent.NewReactAgent("planner", r.llm, plannerPrompt, registry,
		common(r.opts.MaxSteps, PlanSchema()),
		func(o *agent.ReactAgentOptions) {
			o.Description = "Agent that uses search tools to understand the topic and identify key subtopics for research."
		},
	)

	retriever := agent.NewReactAgent("retriever", r.llm, retrieverPrompt,
		registry.WithTools(addNote),
		common(r.opts.MaxSteps, RetrievalsSchema()),
		func(o *agent.ReactAgentOptions) {
			o.Description = "Agent that generates search queries for a subtopic, retrieves information, and processes the findings."
		},
	)

	reflection := agent.NewReactAgent("reflection", r.llm, reflectorPrompt, registry,
		common(r.opts.MaxSteps, ReflectionSchema()),
		func(o *agent.ReactAgentOptions) {
			o.Description = "Agent that reflects on the information gathered across all subtopics, identifies gaps, and suggests refinements."
		},
	)

	synthesis := agent.NewReactAgent("synthesis", r.llm, SynthesisPrompt(topic),
		registry.WithTools(getNotes),
		common(r.opts.MaxSteps, SynthesisSchema()),
		func(o *agent.ReactAgentOptions) {
			o.Description = "Agent that synthesizes the information gathered across all subtopics into a final report."
		},
	)

	supervisor := agent.NewSupervisor(
		"storm",
		r.llm,
		SupervisorPrompt(topic),
		[]agent.Agent{planner, retriever, reflection, synthesis},
		func(o *agent.SupervisorOptions) {
			o.Description = "Supervisor agent for the research workflow"
			o.MaxSteps = 50
			o.Registry = tool.NewRegistry(addTodo, markDone, addNote)
			o.Limiter = r.opts.Limiter
			o.Logger = r.opts.Logger
		},
	)

	result, err := supervisor.Run(ctx)
	if err != nil {
		return "", err
	}

	return result.Content, nil
}

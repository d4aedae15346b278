package research

import (
	"context"
	"testing"
	"time"

	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubResearchOpts(o *Options) {
	o.WebSearch = &stubEngine{results: []SearchResult{{Title: "hit", URL: "https://a.example", Description: "d"}}}
	o.AcademicSearch = &stubEngine{}
	o.Scraper = newTestScraper()
	o.Logger = logging.NoOpLogger{}
}

func TestSingleAgentResearcher(t *testing.T) {
	llm := model.NewScriptedModel("stub",
		model.ReplyWithToolCalls("", model.NewToolCall("google_search", `{"query": "solid state batteries"}`)),
		model.Reply("I have gathered enough material."),
		model.Reply("# Solid State Batteries\n\nThe report."),
	)

	r := NewSingleAgentResearcher(llm, stubResearchOpts)

	report, err := r.Research(context.Background(), "solid state batteries")
	require.NoError(t, err)
	assert.Equal(t, "# Solid State Batteries\n\nThe report.", report)
	assert.Equal(t, 3, llm.Calls())

	// The closing completion runs at temperature zero with the report
	// confirmation appended and tools still on offer.
	final := llm.Requests()[2]
	assert.Zero(t, final.Temperature)
	assert.NotEmpty(t, final.Tools)
	last := final.Messages[len(final.Messages)-1]
	assert.Equal(t, core.RoleUser, last.Role)
	assert.Equal(t, "Please create the report, only return the report content, nothing else", last.Content)
}

func TestSingleAgentResearcherOffersRetrievalTools(t *testing.T) {
	llm := model.NewScriptedModel("stub",
		model.Reply("done"),
		model.Reply("# Report"),
	)

	r := NewSingleAgentResearcher(llm, stubResearchOpts)

	_, err := r.Research(context.Background(), "topic")
	require.NoError(t, err)

	var names []string
	for _, def := range llm.Requests()[0].Tools {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"google_search", "arxiv_search", "scrape_url"}, names)
}

func TestMultiAgentResearcher(t *testing.T) {
	llm := model.NewScriptedModel("stub",
		// Supervisor delegates planning.
		model.ReplyWithToolCalls("", model.NewToolCall("handoff_to_agent", `{"agent_name": "planner"}`)),
		// Planner answers, then restates as JSON per its output schema.
		model.Reply("Identified the subtopics."),
		model.Reply("```json\n{\"subtopics\": [{\"title\": \"Electrolytes\", \"description\": \"Solid electrolytes\"}]}\n```"),
		// Supervisor delegates synthesis.
		model.ReplyWithToolCalls("", model.NewToolCall("handoff_to_agent", `{"agent_name": "synthesis"}`)),
		model.Reply("Drafted the report."),
		model.Reply("```json\n{\"report\": \"# Report body\"}\n```"),
		// Supervisor emits the final answer.
		model.Reply("# Final Report"),
	)

	r := NewMultiAgentResearcher(llm, stubResearchOpts)

	report, err := r.Research(context.Background(), "solid state batteries")
	require.NoError(t, err)
	assert.Equal(t, "# Final Report", report)
	assert.Equal(t, 7, llm.Calls())

	// The planner's structured answer flows back to the supervisor as a
	// tool result.
	var toolContents []string
	for _, msg := range llm.Requests()[3].Messages {
		if msg.Role == core.RoleTool {
			toolContents = append(toolContents, msg.Content)
		}
	}
	require.Len(t, toolContents, 1)
	assert.JSONEq(t,
		`{"subtopics": [{"title": "Electrolytes", "description": "Solid electrolytes"}]}`,
		toolContents[0])
}

func TestMultiAgentResearcherSupervisorPrompt(t *testing.T) {
	llm := model.NewScriptedModel("stub", model.Reply("done"))

	r := NewMultiAgentResearcher(llm, stubResearchOpts)

	_, err := r.Research(context.Background(), "quantum error correction")
	require.NoError(t, err)

	system := llm.Requests()[0].Messages[0].Content
	assert.Contains(t, system, `"quantum error correction"`)
	assert.Contains(t, system, "AVAILABLE AGENTS:")
	for _, name := range []string{"planner", "retriever", "reflection", "synthesis"} {
		assert.Contains(t, system, `"name":"`+name+`"`)
	}

	// Scratchpad management tools ride alongside the handoff tool.
	var names []string
	for _, def := range llm.Requests()[0].Tools {
		names = append(names, def.Name)
	}
	assert.ElementsMatch(t, names, []string{"add_todo", "mark_todo_as_done", "add_note", "handoff_to_agent"})
}

func TestDeepResearchPrompt(t *testing.T) {
	prompt := DeepResearchPrompt("fusion energy", "APA", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, `answering the query: "fusion energy"`)
	assert.Contains(t, prompt, "Follow APA format")
	assert.Contains(t, prompt, "Assume the current date is 2026-08-24.")
	assert.NotContains(t, prompt, "{question}")
	assert.NotContains(t, prompt, "{report_format}")
}

func TestResearcherSharesRateLimiter(t *testing.T) {
	// A limiter with one request of burst and an instant clock would stall
	// a multi-call run; a disabled limiter must not.
	llm := model.NewScriptedModel("stub",
		model.Reply("done"),
		model.Reply("# Report"),
	)

	r := NewSingleAgentResearcher(llm, func(o *Options) {
		stubResearchOpts(o)
		o.Limiter = core.NewRateLimiter(0)
	})

	_, err := r.Research(context.Background(), "topic")
	require.NoError(t, err)
}

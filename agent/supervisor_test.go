package agent

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handoffLog records the order in which children were invoked across a run.
type handoffLog struct {
	mu    sync.Mutex
	order []string
}

func (l *handoffLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, name)
}

func (l *handoffLog) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// stubChild is a canned Agent recording every Run invocation.
type stubChild struct {
	name        string
	description string
	reply       string
	log         *handoffLog

	mu      sync.Mutex
	runs    int
	prompts []string
}

func (c *stubChild) Name() string        { return c.name }
func (c *stubChild) Description() string { return c.description }

func (c *stubChild) Run(_ context.Context, opts ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c.mu.Lock()
	c.runs++
	if cfg.hasExtraPrompt {
		c.prompts = append(c.prompts, cfg.extraPrompt)
	}
	c.mu.Unlock()

	if c.log != nil {
		c.log.record(c.name)
	}

	return &Result{Content: c.reply, Steps: 1}, nil
}

func quietSupervisorOpts(fn func(o *SupervisorOptions)) func(o *SupervisorOptions) {
	return func(o *SupervisorOptions) {
		o.Logger = logging.NoOpLogger{}
		if fn != nil {
			fn(o)
		}
	}
}

func handoffCall(agentName string) core.ToolCall {
	return model.NewToolCall(HandoffToolName, `{"agent_name": "`+agentName+`"}`)
}

func TestSupervisorDelegatesInOrder(t *testing.T) {
	log := &handoffLog{}
	planner := &stubChild{name: "planner", description: "Breaks a topic into sections", reply: "the plan", log: log}
	writer := &stubChild{name: "writer", description: "Writes the report", reply: "the report", log: log}

	llm := model.NewScriptedModel("stub",
		model.ReplyWithToolCalls("", handoffCall("planner")),
		model.ReplyWithToolCalls("", handoffCall("writer")),
		model.Reply("workflow complete"),
	)

	s := NewSupervisor("research", llm, "Coordinate the research workflow.",
		[]Agent{planner, writer}, quietSupervisorOpts(nil))

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "workflow complete", result.Content)

	assert.Equal(t, []string{"planner", "writer"}, log.entries())
	assert.Equal(t, 1, planner.runs)
	assert.Equal(t, 1, writer.runs)

	// Each child's answer must come back as a tool-result message.
	var toolContents []string
	for _, msg := range llm.Requests()[2].Messages {
		if msg.Role == core.RoleTool {
			toolContents = append(toolContents, msg.Content)
		}
	}
	assert.Contains(t, toolContents, "the plan")
	assert.Contains(t, toolContents, "the report")
}

func TestSupervisorPromptListsChildren(t *testing.T) {
	planner := &stubChild{name: "planner", description: "Breaks a topic into sections"}
	llm := model.NewScriptedModel("stub", model.Reply("done"))

	s := NewSupervisor("research", llm, "Coordinate the workflow.",
		[]Agent{planner}, quietSupervisorOpts(nil))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	system := llm.Requests()[0].Messages[0]
	require.Equal(t, core.RoleSystem, system.Role)
	assert.True(t, strings.HasPrefix(system.Content, "Coordinate the workflow."))
	assert.Contains(t, system.Content, "AVAILABLE AGENTS:")
	assert.Contains(t, system.Content, `"name":"planner"`)
	assert.Contains(t, system.Content, `"description":"Breaks a topic into sections"`)
}

func TestSupervisorExposesHandoffTool(t *testing.T) {
	llm := model.NewScriptedModel("stub", model.Reply("done"))
	s := NewSupervisor("research", llm, "prompt", nil, quietSupervisorOpts(nil))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	tools := llm.Requests()[0].Tools
	require.Len(t, tools, 1)
	assert.Equal(t, HandoffToolName, tools[0].Name)
}

func TestSupervisorForwardsHandoffArgs(t *testing.T) {
	child := &stubChild{name: "retriever", description: "Searches the web", reply: "findings"}

	llm := model.NewScriptedModel("stub",
		model.ReplyWithToolCalls("", model.NewToolCall(HandoffToolName,
			`{"agent_name": "retriever", "args": {"query": "solid state batteries"}}`)),
		model.Reply("done"),
	)

	s := NewSupervisor("research", llm, "prompt", []Agent{child}, quietSupervisorOpts(nil))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, child.prompts, 1)
	assert.JSONEq(t, `{"query": "solid state batteries"}`, child.prompts[0])
}

func TestSupervisorUnknownAgentIsIsolated(t *testing.T) {
	child := &stubChild{name: "planner", description: "Plans"}

	llm := model.NewScriptedModel("stub",
		model.ReplyWithToolCalls("", handoffCall("ghost")),
		model.Reply("recovered"),
	)

	s := NewSupervisor("research", llm, "prompt", []Agent{child}, quietSupervisorOpts(nil))

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", result.Content)
	assert.Zero(t, child.runs)

	var toolMsg core.Message
	for _, msg := range llm.Requests()[1].Messages {
		if msg.Role == core.RoleTool {
			toolMsg = msg
		}
	}
	assert.Equal(t, "Tool call handoff_to_agent failed, please try some other tool", toolMsg.Content)
}

func TestSupervisorName(t *testing.T) {
	llm := model.NewScriptedModel("stub", model.Reply("done"))
	s := NewSupervisor("research", llm, "prompt", nil, quietSupervisorOpts(nil))
	assert.Equal(t, "research_supervisor", s.Name())
}

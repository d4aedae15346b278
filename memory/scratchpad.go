package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/amandeepsp/khojkar/tool"
)

// Scratchpad is a shared working memory for multi-agent workflows: a todo
// list the supervisor tracks progress on plus free-form notes specialists
// leave for each other. Mutating methods return a JSON snapshot of the
// whole pad so the calling agent sees the updated state in its transcript.
type Scratchpad struct {
	mu    sync.Mutex
	todos map[string]bool // todo -> done
	order []string
	notes []string
}

// NewScratchpad creates an empty scratchpad.
func NewScratchpad() *Scratchpad {
	return &Scratchpad{todos: make(map[string]bool)}
}

func (s *Scratchpad) snapshot() string {
	todos := make(map[string]bool, len(s.todos))
	for k, v := range s.todos {
		todos[k] = v
	}

	notes := s.notes
	if notes == nil {
		notes = []string{}
	}

	out, _ := json.Marshal(map[string]any{
		"todos": todos,
		"notes": notes,
	})
	return string(out)
}

// AddTodos records new todo items as not done.
func (s *Scratchpad) AddTodos(todos []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, todo := range todos {
		if _, exists := s.todos[todo]; !exists {
			s.order = append(s.order, todo)
		}
		s.todos[todo] = false
	}
	return s.snapshot()
}

// MarkTodosDone flags existing todos as completed. Unknown todos are
// ignored; an empty pad is an error so agents notice workflow mistakes.
func (s *Scratchpad) MarkTodosDone(todos []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.todos) == 0 {
		return "", errors.New("no todos to mark as done")
	}
	for _, todo := range todos {
		if _, exists := s.todos[todo]; exists {
			s.todos[todo] = true
		}
	}
	return s.snapshot(), nil
}

// AddNotes appends notes to the pad.
func (s *Scratchpad) AddNotes(notes []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = append(s.notes, notes...)
	return s.snapshot()
}

// Notes returns the accumulated notes as a JSON array.
func (s *Scratchpad) Notes() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.notes
	if notes == nil {
		notes = []string{}
	}

	out, _ := json.Marshal(notes)
	return string(out)
}

// stringSlice coerces a decoded JSON array argument into []string.
func stringSlice(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array of strings, got %T", v)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string element, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Tools exposes the scratchpad operations as function tools:
// add_todo, mark_todo_as_done, add_note and get_notes.
func (s *Scratchpad) Tools() []tool.Tool {
	todosParam := []tool.Parameter{{
		Name:        "todos",
		Type:        "array",
		Description: "List of todo items",
		Required:    true,
	}}
	notesParam := []tool.Parameter{{
		Name:        "notes",
		Type:        "array",
		Description: "List of notes to record",
		Required:    true,
	}}

	addTodo := tool.MustFunctionTool(
		"add_todo",
		"Use this tool to add a list of todos to the scratchpad",
		todosParam,
		func(_ context.Context, args map[string]any) (string, error) {
			todos, err := stringSlice(args["todos"])
			if err != nil {
				return "", err
			}
			return s.AddTodos(todos), nil
		},
	)

	markDone := tool.MustFunctionTool(
		"mark_todo_as_done",
		"Use this tool to mark a list of todos as done in the scratchpad",
		todosParam,
		func(_ context.Context, args map[string]any) (string, error) {
			todos, err := stringSlice(args["todos"])
			if err != nil {
				return "", err
			}
			return s.MarkTodosDone(todos)
		},
	)

	addNote := tool.MustFunctionTool(
		"add_note",
		"Use this tool to add notes to the scratchpad",
		notesParam,
		func(_ context.Context, args map[string]any) (string, error) {
			notes, err := stringSlice(args["notes"])
			if err != nil {
				return "", err
			}
			return s.AddNotes(notes), nil
		},
	)

	getNotes := tool.MustFunctionTool(
		"get_notes",
		"Use this tool to get the notes from the scratchpad. Returns a list of notes.",
		nil,
		func(_ context.Context, _ map[string]any) (string, error) {
			return s.Notes(), nil
		},
	)

	return []tool.Tool{addTodo, markDone, addNote, getNotes}
}

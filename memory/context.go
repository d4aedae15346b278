// Package memory holds the conversational state owned by an agent: the
// bounded, FIFO-pruned context buffer sent to the completion service and a
// shared scratchpad agents mutate through tools.
package memory

import (
	"errors"
	"sync"

	"github.com/amandeepsp/khojkar/core"
)

// ErrQueryUnsupported is returned by ContextMemory.Query: this variant
// keeps an ordered transcript only and must fail loudly if callers expect
// semantic retrieval.
var ErrQueryUnsupported = errors.New("context memory does not support querying")

// tokenEstimateDivisor approximates tokens as content length / 4. Exact
// token counting is intentionally out of scope; the ceiling only needs to
// keep requests under the provider's context window with margin.
const tokenEstimateDivisor = 4

// ContextMemory is an ordered conversation buffer with bounded-size
// pruning. The system prompt is pinned at index 0 and never evicted; when
// the running token estimate exceeds the ceiling, the oldest non-system
// message is dropped until the estimate fits again (or only the system
// message remains).
//
// All methods are mutex-guarded: the engine's concurrent tool goroutines
// append results as they finish.
type ContextMemory struct {
	mu           sync.Mutex
	systemPrompt string
	maxTokens    int
	messages     []core.Message
	totalTokens  int
}

// NewContextMemory creates a buffer seeded with the system prompt and
// bounded by maxTokens (estimated).
func NewContextMemory(systemPrompt string, maxTokens int) *ContextMemory {
	m := &ContextMemory{
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
	}
	m.reset()
	return m
}

func (m *ContextMemory) reset() {
	m.messages = []core.Message{core.SystemMessage(m.systemPrompt)}
	m.totalTokens = estimateTokens(m.systemPrompt)
}

func estimateTokens(content string) int {
	return len(content) / tokenEstimateDivisor
}

// Add appends a message and prunes oldest-first until the size estimate is
// back under the ceiling. The message at index 0 is never evicted.
func (m *ContextMemory) Add(msg core.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, msg)
	m.totalTokens += estimateTokens(msg.Content)

	for m.totalTokens > m.maxTokens && len(m.messages) > 1 {
		removed := m.messages[1]
		m.messages = append(m.messages[:1], m.messages[2:]...)
		m.totalTokens -= estimateTokens(removed.Content)
	}
}

// All returns a snapshot of the ordered message list for transmission to
// the completion service.
func (m *ContextMemory) All() []core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]core.Message, len(m.messages))
	copy(snapshot, m.messages)
	return snapshot
}

// Clear resets the buffer to just the system message.
func (m *ContextMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Len returns the number of messages including the system prompt.
func (m *ContextMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// EstimatedTokens returns the running size estimate.
func (m *ContextMemory) EstimatedTokens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalTokens
}

// Query always fails: semantic retrieval belongs to a different memory
// variant and silently returning nothing would mask misuse.
func (m *ContextMemory) Query(string) ([]core.Message, error) {
	return nil, ErrQueryUnsupported
}

// Package history provides the append-only conversation log an agent
// conversation sends to its chat backend.
package history

import (
	"sync"

	ai "github.com/spetersoncode/convagent"
)

// History is an ordered, append-only sequence of messages.
// Entries are never reordered or replaced once appended.
type History struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New creates a History seeded with a system message.
// An empty prompt produces an empty history.
func New(systemPrompt string) *History {
	h := &History{messages: make([]ai.Message, 0, 8)}
	if systemPrompt != "" {
		h.messages = append(h.messages, ai.NewSystemMessage(systemPrompt))
	}
	return h
}

// Append adds messages to the end of the history.
func (h *History) Append(msgs ...ai.Message) {
	if len(msgs) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msgs...)
}

// Messages returns a copy of all messages.
func (h *History) Messages() []ai.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]ai.Message, len(h.messages))
	copy(result, h.messages)
	return result
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

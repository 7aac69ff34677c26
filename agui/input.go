package agui

import (
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// Message roles used by AG-UI.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// RunAgentInput is the AG-UI request body for running an agent.
// Only the thread, the run and the message list are used; frontend tools
// and shared state are accepted and ignored.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

var (
	// ErrNoMessages is returned when the input contains no messages.
	ErrNoMessages = errors.New("no messages provided")

	// ErrNoUserMessage is returned when no message carries user text.
	ErrNoUserMessage = errors.New("no user message provided")
)

// Query returns the text of the last non-empty user message, which becomes
// the conversation's question. Earlier messages are not replayed.
func (r *RunAgentInput) Query() (string, error) {
	if len(r.Messages) == 0 {
		return "", ErrNoMessages
	}
	for i := len(r.Messages) - 1; i >= 0; i-- {
		msg := r.Messages[i]
		if msg.Role != RoleUser || msg.Content == nil {
			continue
		}
		if q := strings.TrimSpace(*msg.Content); q != "" {
			return q, nil
		}
	}
	return "", ErrNoUserMessage
}

package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/convagent/agent"
)

// Mapper converts agent events to AG-UI events for a single run.
// It tracks the open text message so each turn's fragments share one
// message ID. A Mapper is not safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string

	messageID   string
	messageTurn int
}

// NewMapper creates a Mapper. Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{threadID: threadID, runID: runID}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// Map converts one agent event into zero or more AG-UI events.
func (m *Mapper) Map(ev agent.Event) []events.Event {
	switch ev.Type {
	case agent.EventContent:
		if ev.Delta == "" {
			return nil
		}
		var out []events.Event
		if m.messageID != "" && m.messageTurn != ev.Turn {
			out = append(out, m.closeMessage()...)
		}
		if m.messageID == "" {
			m.messageID = events.GenerateMessageID()
			m.messageTurn = ev.Turn
			out = append(out, events.NewTextMessageStartEvent(m.messageID, events.WithRole(RoleAssistant)))
		}
		return append(out, events.NewTextMessageContentEvent(m.messageID, ev.Delta))

	case agent.EventToolResult:
		exec := ev.Execution
		if exec == nil {
			return nil
		}
		args := exec.RawArgs
		if args == "" {
			args = "{}"
		}
		return append(m.closeMessage(),
			events.NewToolCallStartEvent(exec.CallID, exec.Name),
			events.NewToolCallArgsEvent(exec.CallID, args),
			events.NewToolCallEndEvent(exec.CallID),
			events.NewToolCallResultEvent(events.GenerateMessageID(), exec.CallID, exec.Result),
		)

	case agent.EventDone:
		return append(m.closeMessage(), events.NewRunFinishedEvent(m.threadID, m.runID))

	case agent.EventError:
		msg := "unknown error"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		return append(m.closeMessage(), events.NewRunErrorEvent(msg))

	default:
		return nil
	}
}

func (m *Mapper) closeMessage() []events.Event {
	if m.messageID == "" {
		return nil
	}
	end := events.NewTextMessageEndEvent(m.messageID)
	m.messageID = ""
	m.messageTurn = 0
	return []events.Event{end}
}

package agent

// EventType identifies the kind of event a conversation produces.
type EventType string

const (
	// EventContent carries a fragment of the model's text.
	EventContent EventType = "content"

	// EventToolResult fires after each tool call completes, successfully or not.
	EventToolResult EventType = "tool_result"

	// EventError is terminal: the turn could not complete.
	EventError EventType = "error"

	// EventDone is terminal: the model answered without requesting tools.
	EventDone EventType = "done"
)

// Event is one observable step of a conversation.
type Event struct {
	Type EventType

	// Turn is the 1-indexed backend call that produced the event.
	Turn int

	// Delta is set for EventContent.
	Delta string

	// Execution is set for EventToolResult.
	Execution *ToolExecution

	// Err is set for EventError.
	Err error
}

// ToolExecution records one completed tool call.
type ToolExecution struct {
	CallID string
	Name   string
	Args   map[string]any

	// RawArgs is the call's JSON argument object as the model sent it.
	RawArgs string

	// Result is the text appended to history. For failed calls it is the
	// "Error executing tool ..." message.
	Result string

	// Err is the handler or lookup failure, nil on success.
	Err error
}

// Failed reports whether the tool call did not succeed.
func (e *ToolExecution) Failed() bool {
	return e.Err != nil
}

// Result is the outcome of a blocking Run.
type Result struct {
	// Content is the concatenation of every content fragment.
	Content string

	// Executions lists the tool calls in execution order.
	Executions []ToolExecution

	// Turns is the number of backend calls made.
	Turns int
}

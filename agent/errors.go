package agent

import "errors"

// ErrIterationLimitExceeded is reported when a conversation spends its whole
// iteration budget without the model producing a tool-free answer.
var ErrIterationLimitExceeded = errors.New("agent: maximum iterations reached without a final response")

// ToolError is a failure reported by a tool handler. The message is handed
// back to the model; it never stops the loop.
type ToolError struct {
	Tool string
	Msg  string
}

func (e *ToolError) Error() string {
	return e.Msg
}

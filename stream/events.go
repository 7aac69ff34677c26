package stream

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Wire event types.
const (
	TypeStart         = "start"
	TypeStep          = "step"
	TypeContent       = "content"
	TypeToolExecution = "tool_execution"
	TypeError         = "error"
	TypeEnd           = "end"
)

// Step names.
const (
	StepAnalyzeQuery  = "analyze_query"
	StepToolSelection = "tool_selection"
	StepToolExecution = "tool_execution"
	StepComplete      = "complete"
	StepError         = "error"
)

// Step statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ErrorStepID is the fixed step id of error events.
const ErrorStepID = 999

// Args is a tool call's argument object, kept in the order the model sent it.
type Args = orderedmap.OrderedMap[string, any]

// StartEvent opens a session.
type StartEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// StepEvent reports progress through the request.
type StepEvent struct {
	Type        string `json:"type"`
	StepID      int    `json:"step_id"`
	StepName    string `json:"step_name"`
	Description string `json:"description"`
	ToolName    string `json:"tool_name,omitempty"`
	Args        *Args  `json:"args,omitempty"`
	Status      string `json:"status"`
}

// ContentEvent carries a fragment of the answer.
type ContentEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	StepID  int    `json:"step_id"`
}

// ToolExecutionEvent carries a tool's result.
type ToolExecutionEvent struct {
	Type            string `json:"type"`
	StepID          int    `json:"step_id"`
	ToolName        string `json:"tool_name"`
	Args            *Args  `json:"args"`
	Result          string `json:"result"`
	FormattedResult string `json:"formatted_result"`
	Status          string `json:"status"`
}

// ErrorEvent reports a fatal agent failure.
type ErrorEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	StepID    int    `json:"step_id"`
	StepName  string `json:"step_name"`
	Status    string `json:"status"`
}

// EndEvent closes a session. It is always the last event.
type EndEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// Package stream turns an agent conversation into the ordered wire events
// sent to one client: start, an analysis step, content and tool events,
// an optional error, the completion step and end.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/spetersoncode/convagent/agent"
)

// Session is the state of one streamed request.
type Session struct {
	ID    string
	Query string

	step int
	sent int
}

// Step returns the current step counter.
func (s *Session) Step() int {
	return s.step
}

// EventsSent returns how many wire events were written.
func (s *Session) EventsSent() int {
	return s.sent
}

// Option configures a Streamer.
type Option func(*Streamer)

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Streamer) {
		s.now = now
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Streamer) {
		s.log = l
	}
}

// Streamer runs one conversation per request and writes its events to a Sink.
type Streamer struct {
	agent *agent.Agent
	now   func() time.Time
	log   zerolog.Logger
}

// New creates a Streamer for the given agent.
func New(a *agent.Agent, opts ...Option) *Streamer {
	s := &Streamer{
		agent: a,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream answers query on sink under a new session. end is written even when
// the agent fails; the returned error is only a sink failure, after which
// nothing more is written and the conversation is cancelled.
func (s *Streamer) Stream(ctx context.Context, query string, sink Sink) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), Query: query, step: 1}
	return sess, s.stream(ctx, sess, sink)
}

func (s *Streamer) stream(ctx context.Context, sess *Session, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := s.log.With().Str("session_id", sess.ID).Logger()

	send := func(ev any) error {
		if err := sink.Send(ev); err != nil {
			return err
		}
		sess.sent++
		return nil
	}

	if err := send(StartEvent{
		Type:      TypeStart,
		SessionID: sess.ID,
		Query:     sess.Query,
		Timestamp: s.timestamp(),
	}); err != nil {
		return err
	}

	if err := send(StepEvent{
		Type:        TypeStep,
		StepID:      sess.step,
		StepName:    StepAnalyzeQuery,
		Description: "Analyzing your request...",
		Status:      StatusProcessing,
	}); err != nil {
		return err
	}
	sess.step++

	conv := s.agent.NewConversation(sess.ID)
	for ev := range conv.Ask(ctx, sess.Query) {
		var err error
		switch ev.Type {
		case agent.EventContent:
			err = send(ContentEvent{Type: TypeContent, Content: ev.Delta, StepID: sess.step})
		case agent.EventToolResult:
			err = s.sendTool(sess, send, ev.Execution)
		case agent.EventError:
			log.Warn().Err(ev.Err).Msg("agent failed")
			err = send(ErrorEvent{
				Type:      TypeError,
				SessionID: sess.ID,
				Message:   ev.Err.Error(),
				StepID:    ErrorStepID,
				StepName:  StepError,
				Status:    StatusError,
			})
		}
		if err != nil {
			return err
		}
	}

	if err := send(StepEvent{
		Type:        TypeStep,
		StepID:      sess.step,
		StepName:    StepComplete,
		Description: "Response completed",
		Status:      StatusCompleted,
	}); err != nil {
		return err
	}

	return send(EndEvent{Type: TypeEnd, SessionID: sess.ID, Timestamp: s.timestamp()})
}

func (s *Streamer) sendTool(sess *Session, send func(any) error, exec *agent.ToolExecution) error {
	args := OrderedArgs(exec)

	if err := send(StepEvent{
		Type:        TypeStep,
		StepID:      sess.step,
		StepName:    StepToolSelection,
		Description: "Selected tool: " + exec.Name,
		ToolName:    exec.Name,
		Args:        args,
		Status:      StatusCompleted,
	}); err != nil {
		return err
	}
	sess.step++

	if err := send(StepEvent{
		Type:        TypeStep,
		StepID:      sess.step,
		StepName:    StepToolExecution,
		Description: fmt.Sprintf("Executing %s...", exec.Name),
		ToolName:    exec.Name,
		Status:      StatusProcessing,
	}); err != nil {
		return err
	}
	sess.step++

	if err := send(ToolExecutionEvent{
		Type:            TypeToolExecution,
		StepID:          sess.step,
		ToolName:        exec.Name,
		Args:            args,
		Result:          exec.Result,
		FormattedResult: FormatResult(exec.Name, args, exec.Result),
		Status:          StatusCompleted,
	}); err != nil {
		return err
	}
	sess.step++
	return nil
}

func (s *Streamer) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// OrderedArgs returns the execution's arguments in the order the model sent
// them. Arguments that are not a JSON object fall back to the decoded map in
// key order.
func OrderedArgs(exec *agent.ToolExecution) *Args {
	args := orderedmap.New[string, any]()
	if exec.RawArgs != "" && json.Unmarshal([]byte(exec.RawArgs), args) == nil {
		return args
	}

	args = orderedmap.New[string, any]()
	keys := make([]string, 0, len(exec.Args))
	for k := range exec.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args.Set(k, exec.Args[k])
	}
	return args
}

// FormatResult renders "Tool: name(k=v, ...) -> result".
func FormatResult(name string, args *Args, result string) string {
	var parts []string
	if args != nil {
		for pair := args.Oldest(); pair != nil; pair = pair.Next() {
			parts = append(parts, pair.Key+"="+formatValue(pair.Value))
		}
	}
	return fmt.Sprintf("Tool: %s(%s) -> %s", name, strings.Join(parts, ", "), result)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return "null"
	case map[string]any, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

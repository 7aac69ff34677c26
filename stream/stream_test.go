package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/convagent"
	"github.com/spetersoncode/convagent/agent"
	"github.com/spetersoncode/convagent/tool"
)

// mockProvider replays one scripted response per ChatStream call.
type mockProvider struct {
	mu        sync.Mutex
	responses []ai.Response
	failAll   bool
	calls     int
}

func (m *mockProvider) next() ai.Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls >= len(m.responses) {
		return ai.Response{Content: "No more responses"}
	}
	r := m.responses[m.calls]
	m.calls++
	return r
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	if m.failAll {
		return nil, errors.New("backend unavailable")
	}
	resp := m.next()
	ch := make(chan ai.StreamEvent, 2)
	if resp.Content != "" {
		ch <- ai.StreamEvent{Delta: resp.Content}
	}
	ch <- ai.StreamEvent{Done: true, Response: &resp}
	close(ch)
	return ch, nil
}

func (m *mockProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if m.failAll {
		return nil, errors.New("backend still unavailable")
	}
	resp := m.next()
	return &resp, nil
}

type echoArgs struct {
	Text string `json:"text"`
	N    int    `json:"n"`
}

func newStreamer(p ai.ChatProvider, opts ...agent.Option) *Streamer {
	reg := tool.NewRegistry().Add(
		tool.Func("echo", "echo text", func(ctx context.Context, args echoArgs) (string, error) {
			return args.Text, nil
		}),
	)
	clock := func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return New(agent.New(p, reg, opts...), WithClock(clock))
}

// recordingSink decodes every event back into a generic map.
type recordingSink struct {
	events []map[string]any
	failAt int
}

func (r *recordingSink) Send(ev any) error {
	if r.failAt > 0 && len(r.events)+1 == r.failAt {
		return errors.New("client gone")
	}
	data, err := encode(ev)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.events = append(r.events, m)
	return nil
}

func (r *recordingSink) summary() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		s := ev["type"].(string)
		if name, ok := ev["step_name"].(string); ok && s == TypeStep {
			s += ":" + name
		}
		out[i] = s
	}
	return out
}

func TestStream_ToolRoundTrip(t *testing.T) {
	p := &mockProvider{responses: []ai.Response{
		{Content: "Checking.", ToolCalls: []ai.ToolCall{{ID: "c1", Name: "echo", Arguments: `{"text":"hi","n":2}`}}},
		{Content: "It says hi."},
	}}
	sink := &recordingSink{}

	sess, err := newStreamer(p).Stream(context.Background(), "say hi", sink)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start",
		"step:analyze_query",
		"content",
		"step:tool_selection",
		"step:tool_execution",
		"tool_execution",
		"content",
		"step:complete",
		"end",
	}, sink.summary())
	assert.Equal(t, 9, sess.EventsSent())

	ev := sink.events
	assert.Equal(t, map[string]any{
		"type":       "start",
		"session_id": sess.ID,
		"query":      "say hi",
		"timestamp":  "2024-05-01T08:00:00Z",
	}, ev[0])
	assert.Equal(t, float64(1), ev[1]["step_id"])
	assert.Equal(t, "Analyzing your request...", ev[1]["description"])
	assert.Equal(t, "processing", ev[1]["status"])

	assert.Equal(t, map[string]any{"type": "content", "content": "Checking.", "step_id": float64(2)}, ev[2])

	assert.Equal(t, float64(2), ev[3]["step_id"])
	assert.Equal(t, "Selected tool: echo", ev[3]["description"])
	assert.Equal(t, "echo", ev[3]["tool_name"])
	assert.Equal(t, map[string]any{"text": "hi", "n": float64(2)}, ev[3]["args"])
	assert.Equal(t, "completed", ev[3]["status"])

	assert.Equal(t, float64(3), ev[4]["step_id"])
	assert.Equal(t, "Executing echo...", ev[4]["description"])
	assert.NotContains(t, ev[4], "args")

	assert.Equal(t, float64(4), ev[5]["step_id"])
	assert.Equal(t, "hi", ev[5]["result"])
	assert.Equal(t, "Tool: echo(text=hi, n=2) -> hi", ev[5]["formatted_result"])
	assert.Equal(t, "completed", ev[5]["status"])

	assert.Equal(t, float64(5), ev[6]["step_id"])
	assert.Equal(t, float64(5), ev[7]["step_id"])
	assert.Equal(t, "Response completed", ev[7]["description"])
	assert.Equal(t, map[string]any{"type": "end", "session_id": sess.ID, "timestamp": "2024-05-01T08:00:00Z"}, ev[8])
}

func TestStream_StepIDsNeverDecrease(t *testing.T) {
	calls := []ai.ToolCall{
		{ID: "1", Name: "echo", Arguments: `{"text":"a"}`},
		{ID: "2", Name: "missing", Arguments: `{}`},
	}
	p := &mockProvider{responses: []ai.Response{{ToolCalls: calls}, {ToolCalls: calls[:1]}, {Content: "done"}}}
	sink := &recordingSink{}

	_, err := newStreamer(p).Stream(context.Background(), "q", sink)
	require.NoError(t, err)

	last := 0.0
	for _, ev := range sink.events {
		id, ok := ev["step_id"].(float64)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, id, last)
		last = id
	}
	// analysis + 3 tool executions * 3 steps
	assert.Equal(t, float64(11), last)
}

func TestStream_AgentFailure(t *testing.T) {
	sink := &recordingSink{}
	sess, err := newStreamer(&mockProvider{failAll: true}).Stream(context.Background(), "q", sink)
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "step:analyze_query", "error", "step:complete", "end"}, sink.summary())

	errEv := sink.events[2]
	assert.Equal(t, sess.ID, errEv["session_id"])
	assert.Equal(t, float64(ErrorStepID), errEv["step_id"])
	assert.Equal(t, "error", errEv["step_name"])
	assert.Equal(t, "error", errEv["status"])
	assert.Contains(t, errEv["message"], "backend still unavailable")
}

func TestStream_IterationLimit(t *testing.T) {
	loop := ai.Response{ToolCalls: []ai.ToolCall{{ID: "x", Name: "echo", Arguments: `{"text":"again"}`}}}
	p := &mockProvider{responses: []ai.Response{loop, loop}}
	sink := &recordingSink{}

	_, err := newStreamer(p, agent.WithMaxIterations(2)).Stream(context.Background(), "q", sink)
	require.NoError(t, err)

	summary := sink.summary()
	assert.Equal(t, "start", summary[0])
	assert.Equal(t, []string{"error", "step:complete", "end"}, summary[len(summary)-3:])
	assert.Contains(t, sink.events[len(summary)-3]["message"], "maximum iterations")
}

func TestStream_SinkFailureStops(t *testing.T) {
	p := &mockProvider{responses: []ai.Response{{Content: "hello"}}}
	sink := &recordingSink{failAt: 3}

	_, err := newStreamer(p).Stream(context.Background(), "q", sink)
	require.Error(t, err)
	assert.Len(t, sink.events, 2)
}

func TestFormatResult(t *testing.T) {
	exec := &agent.ToolExecution{
		Name:    "convert_distance",
		RawArgs: `{"value": 10, "from_unit": "km", "to_unit": "miles"}`,
	}
	assert.Equal(t, "Tool: convert_distance(value=10, from_unit=km, to_unit=miles) -> 6.21371",
		FormatResult(exec.Name, OrderedArgs(exec), "6.21371"))

	fallback := &agent.ToolExecution{
		Name:    "calc",
		RawArgs: `not json`,
		Args:    map[string]any{"b": 1.5, "a": true},
	}
	assert.Equal(t, "Tool: calc(a=true, b=1.5) -> 3", FormatResult(fallback.Name, OrderedArgs(fallback), "3"))

	assert.Equal(t, "Tool: get_supported_currencies() -> list",
		FormatResult("get_supported_currencies", OrderedArgs(&agent.ToolExecution{}), "list"))
}

func TestSSEWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.Send(ContentEvent{Type: TypeContent, Content: "a -> b", StepID: 2}))
	require.NoError(t, w.Send(EndEvent{Type: TypeEnd, SessionID: "s", Timestamp: "t"}))

	assert.Equal(t,
		"data: {\"type\":\"content\",\"content\":\"a -> b\",\"step_id\":2}\n\n"+
			"data: {\"type\":\"end\",\"session_id\":\"s\",\"timestamp\":\"t\"}\n\n",
		rec.Body.String())
	assert.True(t, rec.Flushed)
}

type plainWriter struct{ http.ResponseWriter }

func TestNewSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(plainWriter{httptest.NewRecorder()})
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestWSWriter(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		ws := NewWSWriter(conn)
		assert.NoError(t, ws.Send(StepEvent{Type: TypeStep, StepID: 1, StepName: StepAnalyzeQuery, Description: "d", Status: StatusProcessing}))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.JSONEq(t, `{"type":"step","step_id":1,"step_name":"analyze_query","description":"d","status":"processing"}`, string(data))
}

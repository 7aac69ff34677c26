package agui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/convagent/agent"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("agui: response writer does not support flushing")

// SSEWriter writes AG-UI events as named server-sent events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the event-stream headers on w.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Write sends one event as "event: TYPE\ndata: {json}\n\n" and flushes it.
func (s *SSEWriter) Write(ev events.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Run asks conv the query and sends every mapped event to send, starting
// with RUN_STARTED. It returns the number of events sent. A send failure
// cancels the conversation and is returned. Agent failures are reported
// in-band as RUN_ERROR.
func Run(ctx context.Context, conv *agent.Conversation, query string, m *Mapper, send func(events.Event) error) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sent := 0
	if err := send(m.RunStarted()); err != nil {
		return sent, err
	}
	sent++

	for ev := range conv.Ask(ctx, query) {
		for _, out := range m.Map(ev) {
			if err := send(out); err != nil {
				return sent, err
			}
			sent++
		}
	}
	return sent, nil
}

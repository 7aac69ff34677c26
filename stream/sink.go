package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Sink writes one wire event to a client and flushes it.
type Sink interface {
	Send(ev any) error
}

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("stream: response writer does not support flushing")

func encode(ev any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, fmt.Errorf("stream: serialize event: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SSEWriter frames events as server-sent events: "data: <json>\n\n".
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter wraps w. It fails if w cannot flush.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &SSEWriter{w: w, flusher: f}, nil
}

// Send implements Sink.
func (s *SSEWriter) Send(ev any) error {
	data, err := encode(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("stream: write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WSWriter sends each event as one WebSocket text frame.
type WSWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSWriter wraps an upgraded connection.
func NewWSWriter(conn *websocket.Conn) *WSWriter {
	return &WSWriter{conn: conn}
}

// Send implements Sink.
func (s *WSWriter) Send(ev any) error {
	data, err := encode(ev)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("stream: write frame: %w", err)
	}
	return nil
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httplog"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/spetersoncode/convagent/agui"
	"github.com/spetersoncode/convagent/internal/logging"
	"github.com/spetersoncode/convagent/stream"
)

const wsCloseTimeout = time.Second

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// healthHandler reports liveness.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": logging.ServiceName,
	})
}

func queryParam(r *http.Request) (string, bool) {
	q := r.URL.Query().Get("query")
	return q, q != ""
}

func missingQuery(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "query parameter is required"})
}

// handleConvert streams one conversation as server-sent events.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.RequestStarted(EndpointConvert)()
	start := time.Now()
	log := httplog.LogEntry(r.Context())

	query, ok := queryParam(r)
	if !ok {
		missingQuery(w)
		return
	}

	sink, err := stream.NewSSEWriter(w)
	if err != nil {
		log.Error().Err(err).Msg("streaming not supported")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "streaming not supported"})
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	sess, err := s.streamer.Stream(r.Context(), query, sink)
	logDone(log.With().Str("session_id", sess.ID).Logger(), start, sess.EventsSent(), err)
}

// handleWebSocket upgrades the connection and sends the same events as
// handleConvert, one per text frame, then closes normally.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.RequestStarted(EndpointWS)()
	start := time.Now()
	log := httplog.LogEntry(r.Context())

	query, ok := queryParam(r)
	if !ok {
		missingQuery(w)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reading processes control frames and detects a disconnect.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	sess, err := s.streamer.Stream(ctx, query, stream.NewWSWriter(conn))
	logDone(log.With().Str("session_id", sess.ID).Logger(), start, sess.EventsSent(), err)
	if err != nil {
		return
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseTimeout))
}

// handleAGUI runs one conversation and streams it as AG-UI events. GET takes
// the question from ?query; POST takes an AG-UI RunAgentInput body whose last
// user message is the question.
func (s *Server) handleAGUI(w http.ResponseWriter, r *http.Request) {
	defer s.metrics.RequestStarted(EndpointAGUI)()
	start := time.Now()

	var input agui.RunAgentInput
	var query string
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
			return
		}
		q, err := input.Query()
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
			return
		}
		query = q
	} else {
		q, ok := queryParam(r)
		if !ok {
			missingQuery(w)
			return
		}
		query = q
	}

	m := agui.NewMapper(input.ThreadID, input.RunID)
	log := httplog.LogEntry(r.Context()).With().
		Str("run_id", m.RunID()).
		Str("thread_id", m.ThreadID()).
		Logger()

	writer, err := agui.NewSSEWriter(w)
	if err != nil {
		log.Error().Err(err).Msg("streaming not supported")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "streaming not supported"})
		return
	}

	conv := s.agent.NewConversation(m.RunID())
	n, err := agui.Run(r.Context(), conv, query, m, writer.Write)
	logDone(log, start, n, err)
}

func logDone(log zerolog.Logger, start time.Time, sent int, err error) {
	duration := time.Since(start)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().
			Err(err).
			Int64("duration_ms", duration.Milliseconds()).
			Int("events_sent", sent).
			Msg("request failed")
		return
	}
	log.Info().
		Int64("duration_ms", duration.Milliseconds()).
		Int("events_sent", sent).
		Msg("request completed")
}

// Package server exposes the conversion agent over HTTP: the SSE convert
// stream, its WebSocket and AG-UI variants, health and metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/spetersoncode/convagent/agent"
	"github.com/spetersoncode/convagent/metrics"
	"github.com/spetersoncode/convagent/stream"
)

// Metric endpoint labels.
const (
	EndpointConvert = "convert"
	EndpointWS      = "ws"
	EndpointAGUI    = "agui"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithStreamOptions passes options to the underlying stream.Streamer.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(s *Server) {
		s.streamOpts = append(s.streamOpts, opts...)
	}
}

// Server routes requests to a shared agent. Every request gets its own
// conversation.
type Server struct {
	agent    *agent.Agent
	streamer *stream.Streamer
	metrics  *metrics.Recorder
	log      zerolog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	streamOpts []stream.Option
}

// New builds the router. rec may be shared with the agent's observer.
func New(a *agent.Agent, rec *metrics.Recorder, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		agent:   a,
		metrics: rec,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streamer = stream.New(a, append([]stream.Option{stream.WithLogger(logger)}, s.streamOpts...)...)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(s.log, []string{"/api/v1/health", "/metrics"}))
	r.Use(corsMiddleware)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler)
		r.Get("/convert", s.handleConvert)
		r.Get("/ws", s.handleWebSocket)
		r.Get("/agui/convert", s.handleAGUI)
		r.Post("/agui/convert", s.handleAGUI)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. In-flight streams see their request context cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

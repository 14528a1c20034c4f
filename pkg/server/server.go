// Package server exposes calculator sessions over HTTP and WebSocket.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
)

// Config holds service settings.
type Config struct {
	Addr        string            `yaml:"addr"`
	MaxSessions int               `yaml:"max_sessions"` // 0 = unlimited
	SessionTTL  time.Duration     `yaml:"session_ttl"`  // 0 = never expire
	Calculator  calculator.Config `yaml:"-"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		MaxSessions: 1000,
		SessionTTL:  30 * time.Minute,
		Calculator:  calculator.DefaultConfig(),
	}
}

const maxBodyBytes = 64 << 10

// Server is the calculator session service.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	logger   zerolog.Logger
	sessions *sessionStore
	metrics  *Metrics
	tracer   trace.Tracer
	upgrader websocket.Upgrader
}

// NewServer creates a server with all routes registered.
func NewServer(cfg Config, logger zerolog.Logger) (*Server, error) {
	if err := cfg.Calculator.Validate(); err != nil {
		return nil, err
	}
	metrics := NewMetrics()
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		logger:   logger,
		sessions: newSessionStore(cfg, logger, metrics),
		metrics:  metrics,
		tracer:   otel.Tracer(tracerName),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.registerRoutes()
	return s, nil
}

// Metrics returns the server's metrics collector (for tests).
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /internal/metrics", s.handleMetrics)

	// Stateless evaluation
	s.mux.HandleFunc("POST /v1/eval", s.handleEval)

	// Sessions (handlers.go)
	s.mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	s.mux.HandleFunc("POST /v1/sessions/{id}/input", s.handleInput)
	s.mux.HandleFunc("POST /v1/sessions/{id}/delete", s.handleDeleteLast)
	s.mux.HandleFunc("POST /v1/sessions/{id}/clear", s.handleClear)
	s.mux.HandleFunc("POST /v1/sessions/{id}/evaluate", s.handleEvaluate)
	s.mux.HandleFunc("GET /v1/sessions/{id}/history", s.handleHistory)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}/history", s.handleHistoryClear)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}/history/{index}", s.handleHistoryRemove)

	// Keypad stream (ws.go)
	s.mux.HandleFunc("GET /v1/sessions/{id}/ws", s.handleWebSocket)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.loggingMiddleware(s.mux), "sci_calc")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "sci_calc"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	host, port, _ := net.SplitHostPort(s.cfg.Addr)
	if host == "" {
		host = "localhost"
	}
	s.logger.Info().Msgf("sci_calc listening on http://%s:%s", host, port)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(rw, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack is required by the WebSocket upgrader.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

// writeJSON marshals v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Package web serves the country search page. The page streams its text
// field over a websocket; each connection gets its own debouncer and the
// lookup results come back as clear, prepend and notify operations that the
// page applies to its list and info containers.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/metrics"
	"github.com/studiowebux/countrysearch/internal/render"
	"github.com/studiowebux/countrysearch/internal/version"
)

const shutdownTimeout = 15 * time.Second

//go:embed static/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Options configures a Server
type Options struct {
	Settings  config.Settings
	Searcher  lookup.Searcher
	Analytics *analytics.Manager // nil disables lookup recording
	Logger    *zap.Logger
}

// Server is the browser surface
type Server struct {
	settings  config.Settings
	searcher  lookup.Searcher
	analytics *analytics.Manager
	logger    *zap.Logger
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	closing  bool
	sessions map[string]*session
	handlers sync.WaitGroup
}

// New creates a server
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		settings:  opts.Settings,
		searcher:  opts.Searcher,
		analytics: opts.Analytics,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: make(map[string]*session),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.logged(http.HandlerFunc(s.handleIndex)))
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.Handle("GET /api/lookup", s.logged(http.HandlerFunc(s.handleLookup)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// Run listens on addr and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully and
// closes every open session
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		s.closeSessions()
		if err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// closeSessions disconnects every page and waits for their handlers
func (s *Server) closeSessions() {
	s.mu.Lock()
	s.closing = true
	for _, sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.mu.Unlock()

	s.handlers.Wait()
}

// SessionCount returns the number of open websocket sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// controller builds the pipeline for one session
func (s *Server) controller(surface, sessionID string) *lookup.Controller {
	opts := []lookup.Option{
		lookup.WithMaxListSize(s.settings.MaxListSize),
		lookup.WithLogger(s.logger),
		lookup.WithObserver(metrics.Observer{}),
	}
	if s.analytics != nil {
		opts = append(opts, lookup.WithObserver(analytics.NewRecorder(s.analytics, surface, sessionID, s.logger)))
	}
	return lookup.NewController(s.searcher, render.HTML{}, opts...)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, struct{ Version string }{version.Version}); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	sess := s.openSession(id, conn)

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.sessions[id] = sess
	s.handlers.Add(1)
	s.mu.Unlock()

	metrics.ActiveSessions.Inc()
	s.logger.Debug("session opened", zap.String("session", id), zap.String("remote", r.RemoteAddr))

	defer func() {
		sess.close()

		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()

		metrics.ActiveSessions.Dec()
		s.logger.Debug("session closed", zap.String("session", id))
		s.handlers.Done()
	}()

	sess.run()
}

// openSession builds the session state for a new connection
func (s *Server) openSession(id string, conn *websocket.Conn) *session {
	return newSession(id, conn, s.controller("web", id), s.settings.DebounceDelay(), s.settings.NotifyTimeout, s.logger)
}

// lookupResponse is the JSON form of one lookup through /api/lookup
type lookupResponse struct {
	Query string      `json:"query"`
	State string      `json:"state"`
	Ops   []lookup.Op `json:"ops"`
	List  string      `json:"list"`
	Info  string      `json:"info"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("name") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'name' is required"})
		return
	}
	name := r.URL.Query().Get("name")

	surface := lookup.NewTranscript()
	state := s.controller("api", "").Handle(r.Context(), surface, name)

	writeJSON(w, http.StatusOK, lookupResponse{
		Query: lookup.Normalize(name),
		State: state.String(),
		Ops:   surface.Ops(),
		List:  surface.List(),
		Info:  surface.Info(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version.Version,
		"sessions": s.SessionCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logged logs each request handled by next
func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

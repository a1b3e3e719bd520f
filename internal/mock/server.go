package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxLogs is how many requests the server remembers
const maxLogs = 1000

// Server is a local stand-in for the country name-search API
type Server struct {
	config     *Config
	fixtures   []fixture
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
	logs       []RequestLog
	logsMutex  sync.RWMutex
	notifyCh   chan struct{} // Signalled when a new log arrives
}

// NewServer creates a mock server serving the configured fixtures
func NewServer(config *Config, logger *zap.Logger) (*Server, error) {
	if config.Port == 0 {
		config.Port = 8089
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fixtures, err := loadFixtures(config.Fixtures)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   config,
		fixtures: fixtures,
		logger:   logger,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
	}, nil
}

// Handler returns the HTTP handler, for embedding or tests
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v3.1/name/{name}", s.handleName)
	mux.HandleFunc("GET /name/{name}", s.handleName)
	return mux
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock server error", zap.Error(err))
		}
	}()

	s.logger.Info("mock country API listening", zap.String("address", s.GetAddress()))
	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// handleName answers a name search: a case-insensitive substring match on
// the common and official names, or an exact match with fullText=true
func (s *Server) handleName(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := strings.ToLower(r.PathValue("name"))
	fields := parseFields(r.URL.Query())
	fullText := r.URL.Query().Get("fullText") == "true"

	if s.config.Delay > 0 {
		select {
		case <-time.After(time.Duration(s.config.Delay) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
	}

	var matches []map[string]json.RawMessage
	status := http.StatusOK
	if s.config.FailWith != 0 {
		status = s.config.FailWith
	} else {
		matches = s.search(query, fullText, fields)
		if len(matches) == 0 {
			status = http.StatusNotFound
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_ = json.NewEncoder(w).Encode(matches)
	} else {
		_ = json.NewEncoder(w).Encode(notFound{Status: status, Message: statusMessage(status)})
	}

	duration := time.Since(start)
	s.logger.Debug("name search",
		zap.String("query", query),
		zap.Int("status", status),
		zap.Int("matches", len(matches)),
		zap.Duration("duration", duration))

	if s.config.Logging {
		s.logRequest(RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     query,
			Fields:    fields,
			Status:    status,
			Matches:   len(matches),
			Duration:  duration,
		})
	}
}

// search returns the matching records, restricted to fields when given
func (s *Server) search(query string, fullText bool, fields []string) []map[string]json.RawMessage {
	var out []map[string]json.RawMessage
	for _, f := range s.fixtures {
		var hit bool
		if fullText {
			hit = f.common == query || f.official == query
		} else {
			hit = strings.Contains(f.common, query) || strings.Contains(f.official, query)
		}
		if !hit {
			continue
		}
		out = append(out, project(f.fields, fields))
	}
	return out
}

// project keeps only the requested top-level fields
func project(record map[string]json.RawMessage, fields []string) map[string]json.RawMessage {
	if len(fields) == 0 {
		return record
	}
	out := make(map[string]json.RawMessage, len(fields))
	for _, name := range fields {
		if v, ok := record[name]; ok {
			out[name] = v
		}
	}
	return out
}

func parseFields(values url.Values) []string {
	raw := values.Get("fields")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func statusMessage(status int) string {
	if status == http.StatusNotFound {
		return "Not Found"
	}
	return http.StatusText(status)
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	// Notify listeners without blocking
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

// GetAddress returns the base URL clients should use
func (s *Server) GetAddress() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

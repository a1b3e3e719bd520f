package web

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/studiowebux/countrysearch/internal/debounce"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/metrics"
	"github.com/studiowebux/countrysearch/internal/notify"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Operation sent only when a session opens
const opHello = "hello"

// inbound is a text-field change sent by the page
type inbound struct {
	Value string `json:"value"`
}

// message is one surface operation pushed to the page
type message struct {
	Op        string `json:"op"`
	Target    string `json:"target,omitempty"`
	HTML      string `json:"html,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message,omitempty"`
	ID        uint64 `json:"id,omitempty"`
	TimeoutMs int64  `json:"timeout_ms,omitempty"`
	Session   string `json:"session,omitempty"`
}

// session is one connected page. Input is debounced per session; every
// debounced value runs the pipeline in its own goroutine, so a slow lookup
// may finish after a newer one.
type session struct {
	id         string
	conn       *websocket.Conn
	controller *lookup.Controller
	debouncer  *debounce.Debouncer
	toasts     *notify.Center
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	writeMu  sync.Mutex
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func newSession(id string, conn *websocket.Conn, controller *lookup.Controller, debounceDelay, toastTimeout time.Duration, logger *zap.Logger) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:         id,
		conn:       conn,
		controller: controller,
		debouncer:  debounce.New(debounceDelay),
		toasts:     notify.NewCenter(toastTimeout),
		logger:     logger.With(zap.String("session", id)),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// run reads input until the connection fails or closes
func (s *session) run() {
	s.conn.SetReadLimit(maxMessageSize)
	s.send(message{Op: opHello, Session: s.id})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			s.logger.Debug("ignoring malformed input", zap.Error(err))
			continue
		}

		value := in.Value
		s.debouncer.Trigger(func() { s.handle(value) })
	}
}

// handle runs one debounced value through the pipeline
func (s *session) handle(value string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	state := s.controller.Handle(s.ctx, s, value)
	if state == lookup.StateSkipped {
		metrics.SkippedInputsTotal.Inc()
	}
}

// close stops pending input, cancels running lookups and waits for them
func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.inflight.Wait()
	_ = s.conn.Close()
}

func (s *session) send(msg message) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write failed", zap.String("op", msg.Op), zap.Error(err))
	}
}

func (s *session) Clear() {
	s.send(message{Op: lookup.OpClear})
}

func (s *session) PrependList(fragment string) {
	s.send(message{Op: lookup.OpPrepend, Target: lookup.TargetList, HTML: fragment})
}

func (s *session) PrependInfo(fragment string) {
	s.send(message{Op: lookup.OpPrepend, Target: lookup.TargetInfo, HTML: fragment})
}

func (s *session) Notify(kind notify.Kind, text string) {
	toast := s.toasts.Show(kind, text)
	s.send(message{
		Op:        lookup.OpNotify,
		Kind:      kind.String(),
		Message:   text,
		ID:        toast.ID,
		TimeoutMs: toast.Timeout.Milliseconds(),
	})
}

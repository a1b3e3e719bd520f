package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/mock"
	"github.com/studiowebux/countrysearch/internal/restcountries"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const testDebounce = 40 * time.Millisecond

type fixture struct {
	api    *mock.Server
	server *Server
	http   *httptest.Server
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()

	api, err := mock.NewServer(&mock.Config{Logging: true}, nil)
	require.NoError(t, err)
	apiServer := httptest.NewServer(api.Handler())
	t.Cleanup(apiServer.Close)

	settings := config.Default()
	settings.APIURL = apiServer.URL
	settings.Debounce = testDebounce

	o := Options{
		Settings: settings,
		Searcher: restcountries.NewClient(apiServer.URL),
	}
	for _, fn := range opts {
		fn(&o)
	}

	srv := New(o)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.closeSessions()
		ts.Close()
	})

	return &fixture{api: api, server: srv, http: ts}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	hello := readMessage(t, conn)
	require.Equal(t, opHello, hello.Op)
	require.NotEmpty(t, hello.Session)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// expectSilence asserts nothing arrives for d. The connection cannot be read
// again afterwards.
func expectSilence(t *testing.T, conn *websocket.Conn, d time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(d)))
	var msg message
	err := conn.ReadJSON(&msg)
	require.Error(t, err, "unexpected message %+v", msg)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func send(t *testing.T, conn *websocket.Conn, value string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(inbound{Value: value}))
}

func TestWebSocket_ListResult(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, "nig")

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	msg := readMessage(t, conn)
	assert.Equal(t, "prepend", msg.Op)
	assert.Equal(t, "list", msg.Target)
	assert.Equal(t, 2, strings.Count(msg.HTML, "<li"))
	assert.Less(t, strings.Index(msg.HTML, "Republic of Niger"), strings.Index(msg.HTML, "Federal Republic of Nigeria"))
}

func TestWebSocket_DebounceUsesLastValue(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	for _, v := range []string{"c", "ca", "can", "cana", "canad", "canada"} {
		send(t, conn, v)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	msg := readMessage(t, conn)
	assert.Equal(t, "info", msg.Target)
	assert.Contains(t, msg.HTML, "English, French")

	expectSilence(t, conn, 4*testDebounce)

	logs := f.api.GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "canada", logs[0].Query)
}

func TestWebSocket_WhitespaceOnlyClears(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, "   ")

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	expectSilence(t, conn, 4*testDebounce)
	assert.Empty(t, f.api.GetLogs())
}

func TestWebSocket_TooManyMatches(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, "a")

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	msg := readMessage(t, conn)
	assert.Equal(t, "notify", msg.Op)
	assert.Equal(t, "info", msg.Kind)
	assert.Equal(t, "Too many matches found. Please enter a more specific name.", msg.Message)
	assert.Equal(t, int64(3000), msg.TimeoutMs)
	assert.NotZero(t, msg.ID)
}

func TestWebSocket_NoCountry(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	send(t, conn, "atlantis")

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	msg := readMessage(t, conn)
	assert.Equal(t, "notify", msg.Op)
	assert.Equal(t, "failure", msg.Kind)
	assert.Equal(t, "Oops, there is no country with that name", msg.Message)
}

func TestWebSocket_MalformedInputIgnored(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, "peru")

	assert.Equal(t, "clear", readMessage(t, conn).Op)
	assert.Contains(t, readMessage(t, conn).HTML, "Republic of Peru")
}

func TestWebSocket_RecordsAnalytics(t *testing.T) {
	manager, err := analytics.NewManager(filepath.Join(t.TempDir(), "countrysearch.db"))
	require.NoError(t, err)
	defer manager.Close()

	f := newFixture(t, func(o *Options) { o.Analytics = manager })
	conn := f.dial(t)

	send(t, conn, "peru")
	readMessage(t, conn)
	readMessage(t, conn)

	require.Eventually(t, func() bool {
		entries, err := manager.LoadRecent(10)
		return err == nil && len(entries) == 1
	}, time.Second, 10*time.Millisecond)

	entries, err := manager.LoadRecent(1)
	require.NoError(t, err)
	assert.Equal(t, "web", entries[0].Surface)
	assert.Equal(t, "detail", entries[0].State)
	assert.NotEmpty(t, entries[0].SessionID)
}

func TestAPILookup(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.http.URL + "/api/lookup?name=%20nig%20")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body lookupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "nig", body.Query)
	assert.Equal(t, "list", body.State)
	require.Len(t, body.Ops, 2)
	assert.Equal(t, "clear", body.Ops[0].Op)
	assert.Equal(t, 2, strings.Count(body.List, "<li"))
	assert.Empty(t, body.Info)
}

func TestAPILookup_MissingName(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.http.URL + "/api/lookup")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.http.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, `id="search-box"`)
	assert.Contains(t, page, "data-country-list")
	assert.Contains(t, page, "data-country-info")
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.dial(t)

	resp, err := http.Get(f.http.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(1), health["sessions"])

	resp, err = http.Get(f.http.URL + "/metrics")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(data), "countrysearch_active_sessions")
}

func TestOpenSession_ZeroDebounceUsesDefault(t *testing.T) {
	settings := config.Default()
	settings.Debounce = 0
	srv := New(Options{Settings: settings, Searcher: restcountries.NewClient("http://127.0.0.1:0")})

	sess := srv.openSession("zero", nil)
	defer sess.cancel()

	assert.Equal(t, config.DefaultDebounce, sess.debouncer.Delay())
}

func TestServe_ShutdownClosesSessions(t *testing.T) {
	f := newFixture(t)
	srv := New(Options{Settings: f.server.settings, Searcher: f.server.searcher})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, opHello, readMessage(t, conn).Op)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Zero(t, srv.SessionCount())

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

package inspect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kakapo-ui/kakapo/pkg/app"
	"github.com/kakapo-ui/kakapo/pkg/view"
	"github.com/kakapo-ui/kakapo/pkg/widgets"
)

type fakePresser struct {
	pressed chan view.ID
	err     error
}

func newFakePresser() *fakePresser {
	return &fakePresser{pressed: make(chan view.ID, 8)}
}

func (p *fakePresser) Press(id view.ID) error {
	if p.err != nil {
		return p.err
	}
	p.pressed <- id
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var noop = view.PressFunc(func(*view.UserDataMut) {})

func build(cache *view.WidgetCache, color widgets.Color) *view.WidgetTree {
	return cache.Build(widgets.NewBox().
		Append(widgets.NewButton(color, noop).AddText(widgets.Text("Primary"))))
}

func TestHealthz(t *testing.T) {
	s := New("main", newFakePresser(), WithLogger(quietLogger()))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}

func TestTree(t *testing.T) {
	s := New("main", newFakePresser(), WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /tree before commit = %d, want 503", rec.Code)
	}

	cache := view.NewWidgetCache()
	if err := s.Commit(context.Background(), build(cache, widgets.Red)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := s.Commit(context.Background(), build(cache, widgets.Green)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tree = %d, want 200", rec.Code)
	}

	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Window != "main" || snap.Generation != 2 {
		t.Errorf("snapshot = %s gen %d, want main gen 2", snap.Window, snap.Generation)
	}
	if snap.Root == nil || snap.Root.Kind != "box" || len(snap.Root.Children) != 1 {
		t.Fatalf("root = %+v, want box with one child", snap.Root)
	}
	btn := snap.Root.Children[0]
	if !btn.Pressable || btn.Kind != "button" {
		t.Errorf("child = %+v, want pressable button", btn)
	}
	if len(snap.Patches) != 1 || snap.Patches[0].Op != "SetProp" || snap.Patches[0].Key != "color" {
		t.Errorf("patches = %+v, want one color SetProp", snap.Patches)
	}
}

func TestPress(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		err    error
		status int
	}{
		{"accepted", http.MethodPost, "/press/2", nil, http.StatusAccepted},
		{"bad id", http.MethodPost, "/press/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodPost, "/press/0", nil, http.StatusBadRequest},
		{"queue full", http.MethodPost, "/press/2", app.ErrQueueFull, http.StatusServiceUnavailable},
		{"closed", http.MethodPost, "/press/2", app.ErrWindowClosed, http.StatusGone},
		{"wrong method", http.MethodGet, "/press/2", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePresser()
			p.err = tt.err
			s := New("main", p, WithLogger(quietLogger()))

			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
			}
			if tt.status == http.StatusAccepted {
				if id := <-p.pressed; id != 2 {
					t.Errorf("pressed %v, want w2", id)
				}
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "kakapo_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := New("main", newFakePresser(), WithLogger(quietLogger()), WithGatherer(reg))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kakapo_test_total 1") {
		t.Errorf("GET /metrics body missing counter:\n%s", rec.Body.String())
	}

	// Without a gatherer the route does not exist.
	s = New("main", newFakePresser(), WithLogger(quietLogger()))
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without gatherer = %d, want 404", rec.Code)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestWebSocket(t *testing.T) {
	p := newFakePresser()
	s := New("main", p, WithLogger(quietLogger()))
	srv := httptest.NewServer(s)
	defer srv.Close()
	defer s.Close()

	cache := view.NewWidgetCache()
	if err := s.Commit(context.Background(), build(cache, widgets.Red)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// The current frame is sent on connect.
	msg := readMessage(t, conn)
	var snap Snapshot
	if msg.Type != "frame" || json.Unmarshal(msg.Frame, &snap) != nil || snap.Generation != 1 {
		t.Fatalf("first message = %s %s, want frame 1", msg.Type, msg.Frame)
	}

	if err := s.Commit(context.Background(), build(cache, widgets.Green)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	msg = readMessage(t, conn)
	if err := json.Unmarshal(msg.Frame, &snap); err != nil || snap.Generation != 2 {
		t.Errorf("second frame generation = %d (%v), want 2", snap.Generation, err)
	}

	if err := conn.WriteJSON(message{Type: "press", ID: 2}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	select {
	case id := <-p.pressed:
		if id != 2 {
			t.Errorf("pressed %v, want w2", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("press not delivered")
	}

	if s.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", s.Clients())
	}
}

func TestWebSocketFramesInOrderDuringCommits(t *testing.T) {
	s := New("main", newFakePresser(), WithLogger(quietLogger()))
	srv := httptest.NewServer(s)
	defer srv.Close()
	defer s.Close()

	cache := view.NewWidgetCache()
	if err := s.Commit(context.Background(), build(cache, widgets.Red)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	const last = 11
	done := make(chan struct{})
	go func() {
		defer close(done)
		colors := []widgets.Color{widgets.Green, widgets.Red}
		for g := 2; g <= last; g++ {
			s.Commit(context.Background(), build(cache, colors[g%2]))
			time.Sleep(time.Millisecond)
		}
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	var conns []*websocket.Conn
	for i := 0; i < 4; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}
	<-done

	for i, conn := range conns {
		var prev uint64
		for prev < last {
			msg := readMessage(t, conn)
			var snap Snapshot
			if err := json.Unmarshal(msg.Frame, &snap); err != nil {
				t.Fatalf("client %d: bad frame %s: %v", i, msg.Frame, err)
			}
			if snap.Generation <= prev {
				t.Fatalf("client %d: generation %d after %d", i, snap.Generation, prev)
			}
			prev = snap.Generation
		}
	}
}

func TestWebSocketPressError(t *testing.T) {
	p := newFakePresser()
	p.err = app.ErrQueueFull
	s := New("main", p, WithLogger(quietLogger()))
	srv := httptest.NewServer(s)
	defer srv.Close()
	defer s.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(message{Type: "press", ID: 7}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != "error" || msg.ID != 7 || msg.Error == "" {
		t.Errorf("reply = %+v, want error for 7", msg)
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"http://evil.com", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(r); got != tt.want {
			t.Errorf("SameOriginCheck(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

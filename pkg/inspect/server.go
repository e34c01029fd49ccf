package inspect

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kakapo-ui/kakapo/pkg/app"
	"github.com/kakapo-ui/kakapo/pkg/view"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	clientBuffer   = 16
)

// Presser receives presses from HTTP and WebSocket clients. *app.Window
// implements it.
type Presser interface {
	Press(id view.ID) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes gatherer on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithCheckOrigin replaces the WebSocket origin check. The default only
// accepts same-origin requests.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// Server is an inspector for one window.
type Server struct {
	window   string
	presser  Presser
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.RWMutex
	snapshot []byte
	clients  map[*client]struct{}
}

// New creates an inspector for the named window.
func New(window string, presser Presser, opts ...Option) *Server {
	s := &Server{
		window:  window,
		presser: presser,
		logger:  slog.Default(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     SameOriginCheck,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "inspect", "window", window)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/tree", s.handleTree)
	r.Post("/press/{id}", s.handlePress)
	r.Get("/ws", s.handleWebSocket)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Name returns the renderer name used in metrics.
func (s *Server) Name() string {
	return "inspect"
}

// Commit implements app.Renderer. It encodes the tree and pushes it to
// every connected client.
func (s *Server) Commit(_ context.Context, tree *view.WidgetTree) error {
	data, err := json.Marshal(NewSnapshot(s.window, tree))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	msg, err := json.Marshal(message{Type: "frame", Frame: data})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	s.snapshot = data
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if !c.enqueue(msg) {
			s.logger.Warn("dropping slow client", "remote", c.conn.RemoteAddr().String())
			s.removeClient(c)
		}
	}
	return nil
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.Close()
	}()

	s.logger.Info("inspector listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("inspector: %w", err)
	}
	return nil
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	data := s.snapshot
	s.mu.RUnlock()

	if data == nil {
		http.Error(w, "no frame committed yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid widget id", http.StatusBadRequest)
		return
	}

	if err := s.presser.Press(view.ID(id)); err != nil {
		http.Error(w, err.Error(), pressStatus(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// pressStatus maps a Press error to an HTTP status.
func pressStatus(err error) int {
	switch {
	case stderrors.Is(err, app.ErrQueueFull):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, app.ErrWindowClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn)

	// The current frame is queued under the lock so a concurrent Commit
	// cannot deliver a newer frame ahead of it.
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.snapshot != nil {
		if msg, err := json.Marshal(message{Type: "frame", Frame: s.snapshot}); err == nil {
			c.enqueue(msg)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("client connected", "remote", conn.RemoteAddr().String())

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

// message is the WebSocket envelope in both directions.
type message struct {
	Type  string          `json:"type"`
	ID    uint64          `json:"id,omitempty"`
	Frame json.RawMessage `json:"frame,omitempty"`
	Error string          `json:"error,omitempty"`
}

// readLoop handles press messages until the connection closes.
func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("message decode error", "error", err)
			continue
		}

		switch msg.Type {
		case "press":
			if err := s.presser.Press(view.ID(msg.ID)); err != nil {
				s.reply(c, message{Type: "error", ID: msg.ID, Error: err.Error()})
			}
		default:
			s.logger.Warn("unknown message type", "type", msg.Type)
		}
	}
}

func (s *Server) reply(c *client, msg message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// writeLoop writes queued messages and keeps the connection alive.
func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

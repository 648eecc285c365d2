package wshost

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/routepath"
	"github.com/vango-dev/waypoint/pkg/router"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the observer passed to every tab's State.
func WithObserver(obs nav.Observer) Option {
	return func(s *Server) {
		s.observer = obs
	}
}

// WithHostWrapper decorates every tab before it is handed to its State,
// typically with middleware.Metrics.InstrumentHost.
func WithHostWrapper(wrap func(nav.Host) nav.Host) Option {
	return func(s *Server) {
		s.wrapHosts = append(s.wrapHosts, wrap)
	}
}

// Server accepts tab connections and keeps one navigation state per tab.
type Server struct {
	config   *Config
	upgrader websocket.Upgrader

	routesMu sync.RWMutex
	routes   router.Routes

	mu   sync.RWMutex
	tabs map[string]*Tab

	observer  nav.Observer
	wrapHosts []func(nav.Host) nav.Host
	logger    *slog.Logger
}

// New creates a Server routing tabs through routes. A nil config uses
// DefaultConfig.
func New(routes router.Routes, config *Config, opts ...Option) *Server {
	config = config.withDefaults()

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		routes: routes,
		tabs:   make(map[string]*Tab),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "wshost")
	return s
}

// SetRoutes replaces the route list. Tabs connected afterwards use the new
// routes; connected tabs keep theirs until they reconnect.
func (s *Server) SetRoutes(routes router.Routes) {
	s.routesMu.Lock()
	s.routes = routes
	s.routesMu.Unlock()
	s.logger.Info("routes replaced", "routes", len(routes))
}

// Routes returns the current route list.
func (s *Server) Routes() router.Routes {
	s.routesMu.RLock()
	defer s.routesMu.RUnlock()
	return s.routes
}

// Tab returns the connected tab with id, or nil.
func (s *Server) Tab(id string) *Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tabs[id]
}

// TabCount returns the number of connected tabs.
func (s *Server) TabCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tabs)
}

// Close disconnects every tab.
func (s *Server) Close() {
	s.mu.Lock()
	tabs := make([]*Tab, 0, len(s.tabs))
	for _, t := range s.tabs {
		tabs = append(tabs, t)
	}
	s.tabs = make(map[string]*Tab)
	s.mu.Unlock()

	for _, t := range tabs {
		t.close()
	}
}

// Handler returns the HTTP routes:
//   - GET /ws       tab WebSocket
//   - GET /healthz  liveness and tab count
//   - GET /*        shell page for any other path
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Mount(r)
	return r
}

// Mount registers the server's routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Get("/*", s.handleShell)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"tabs":   s.TabCount(),
	})
}

// HandleWebSocket upgrades the request and serves the tab until it
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(s.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.config.HandshakeTimeout))

	hello, err := s.readHello(conn)
	if err != nil {
		s.logger.Warn("tab handshake failed", "error", err)
		s.sendHandshakeError(conn, err)
		conn.Close()
		return
	}

	tab := s.open(conn, hello.Location)
	defer s.release(tab)

	s.readLoop(tab)
}

func (s *Server) readHello(conn *websocket.Conn) (Frame, error) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return Frame{}, errors.FromError(err, "E501")
	}
	f, err := DecodeFrame(msg)
	if err != nil {
		return Frame{}, errors.FromError(err, "E501")
	}
	if f.Type != FrameHello {
		return Frame{}, errors.New("E501")
	}
	loc, err := routepath.Canonicalize(f.Location)
	if err != nil {
		return Frame{}, err
	}
	f.Location = loc
	return f, nil
}

func (s *Server) sendHandshakeError(conn *websocket.Conn, err error) {
	data, _ := json.Marshal(errorFrame(err))
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	conn.WriteMessage(websocket.TextMessage, data)
}

// open registers a tab at location, announces it and renders the initial
// match.
func (s *Server) open(conn *websocket.Conn, location string) *Tab {
	id := uuid.NewString()
	logger := s.logger.With("tab", id)

	tab := &Tab{
		id:           id,
		conn:         conn,
		writeTimeout: s.config.WriteTimeout,
		location:     location,
		logger:       logger,
	}

	var host nav.Host = tab
	for _, wrap := range s.wrapHosts {
		host = wrap(host)
	}

	opts := []nav.Option{nav.WithLogger(logger)}
	if s.observer != nil {
		opts = append(opts, nav.WithObserver(s.observer))
	}
	tab.state = nav.New(host, opts...)

	s.mu.Lock()
	s.tabs[id] = tab
	s.mu.Unlock()

	if err := tab.send(Frame{Type: FrameReady, Tab: id}); err != nil {
		logger.Warn("ready frame write failed", "error", err)
	}

	// The outlet subscribes first, so by the time the render subscription
	// runs the outlet already holds the match for the new path.
	outlet := nav.NewOutlet(tab.state, s.Routes())
	tab.mu.Lock()
	tab.outlet = outlet
	tab.mu.Unlock()

	// The emitted value is the remainder the outlet staged, so the render
	// reports the full current path instead.
	stop := tab.state.PathSignal().Subscribe(func([]string) {
		tab.render(tab.state.CurrentPath(), outlet.Current())
	})
	tab.mu.Lock()
	tab.stopRender = stop
	tab.mu.Unlock()

	logger.Info("tab connected", "location", location)
	return tab
}

func (s *Server) release(tab *Tab) {
	s.mu.Lock()
	delete(s.tabs, tab.id)
	s.mu.Unlock()

	tab.close()
	tab.logger.Info("tab disconnected")
}

// readLoop handles client frames until the connection fails. All
// navigation of a tab happens on this goroutine.
func (s *Server) readLoop(tab *Tab) {
	for {
		tab.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := tab.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				tab.logger.Error("read error", "error", err)
			}
			return
		}

		f, err := DecodeFrame(msg)
		if err != nil {
			tab.logger.Warn("frame decode error", "error", err)
			tab.send(errorFrame(err))
			continue
		}

		switch f.Type {
		case FrameNavigate:
			path, err := routepath.Canonicalize(f.Path)
			if err != nil {
				tab.logger.Warn("rejected navigation", "error", err)
				tab.send(errorFrame(err))
				continue
			}
			if err := tab.Goto(path); err != nil {
				tab.logger.Error("navigation failed", "path", path, "error", err)
				return
			}
		default:
			err := errors.New("E503").WithDetail("hello is only valid as the first frame")
			tab.send(errorFrame(err))
		}
	}
}

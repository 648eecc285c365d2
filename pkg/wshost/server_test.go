package wshost

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/router"
)

func testRoutes() router.Routes {
	return router.Routes{
		router.NewRoute("users/{id}", func() router.View { return "user" }),
		router.NewRoute("docs/...", func() router.View { return "docs" }),
	}
}

func startServer(t *testing.T, srv *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, f Frame) {
	t.Helper()
	if err := conn.WriteJSON(f); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
}

func read(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	return f
}

func expectType(t *testing.T, f Frame, want FrameType) {
	t.Helper()
	if f.Type != want {
		t.Fatalf("frame type = %q, want %q (frame %+v)", f.Type, want, f)
	}
}

// handshake connects a tab at location and returns it with its ID and
// initial render frame.
func handshake(t *testing.T, ts *httptest.Server, location string) (*websocket.Conn, string, Frame) {
	t.Helper()
	conn := dial(t, ts)
	send(t, conn, Frame{Type: FrameHello, Location: location})

	ready := read(t, conn)
	expectType(t, ready, FrameReady)
	if ready.Tab == "" {
		t.Fatal("ready frame has no tab id")
	}

	render := read(t, conn)
	expectType(t, render, FrameRender)
	return conn, ready.Tab, render
}

func TestServer_InitialRender(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	_, id, render := handshake(t, ts, "/users/7")

	if render.View != "user" || render.Pattern != "users/{id}" {
		t.Errorf("render = %+v, want view user at users/{id}", render)
	}
	if render.Params["id"] != "7" {
		t.Errorf("params = %v, want id=7", render.Params)
	}

	tab := srv.Tab(id)
	if tab == nil {
		t.Fatal("tab not registered")
	}
	if got := tab.Location(); got != "/users/7" {
		t.Errorf("Location() = %q, want /users/7", got)
	}
	if got := srv.TabCount(); got != 1 {
		t.Errorf("TabCount() = %d, want 1", got)
	}
}

func TestServer_NavigatePushesThenRenders(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, id, _ := handshake(t, ts, "/users/1")
	send(t, conn, Frame{Type: FrameNavigate, Path: "/docs/guide/intro"})

	push := read(t, conn)
	expectType(t, push, FramePush)
	if push.Path != "/docs/guide/intro" {
		t.Errorf("push path = %q", push.Path)
	}

	render := read(t, conn)
	expectType(t, render, FrameRender)
	if render.View != "docs" {
		t.Errorf("view = %q, want docs", render.View)
	}
	if len(render.Remainder) != 2 || render.Remainder[0] != "guide" || render.Remainder[1] != "intro" {
		t.Errorf("remainder = %v, want [guide intro]", render.Remainder)
	}

	tab := srv.Tab(id)
	if got := tab.Location(); got != "/docs/guide/intro" {
		t.Errorf("Location() = %q, want /docs/guide/intro", got)
	}
	if got := router.JoinPath(tab.State().CurrentPath()); got != "docs/guide/intro" {
		t.Errorf("CurrentPath() = %q", got)
	}
}

func TestServer_RenderCarriesPath(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, _, render := handshake(t, ts, "/users/7")
	if render.Path != "/users/7" {
		t.Errorf("initial render path = %q, want /users/7", render.Path)
	}

	send(t, conn, Frame{Type: FrameNavigate, Path: "/docs/guide/intro"})
	expectType(t, read(t, conn), FramePush)
	render = read(t, conn)
	expectType(t, render, FrameRender)
	if render.Path != "/docs/guide/intro" {
		t.Errorf("render path = %q, want /docs/guide/intro", render.Path)
	}

	send(t, conn, Frame{Type: FrameNavigate, Path: "/nowhere/else"})
	expectType(t, read(t, conn), FramePush)
	render = read(t, conn)
	expectType(t, render, FrameRender)
	if !render.NotFound || render.Path != "/nowhere/else" {
		t.Errorf("render = %+v, want notFound at /nowhere/else", render)
	}
}

func TestRenderFrame(t *testing.T) {
	route := router.NewRoute("users/{id}/...", func() router.View { return "user" })
	m, ok := route.Matches([]string{"users", "7", "edit"})
	if !ok {
		t.Fatal("route should match")
	}

	f := renderFrame([]string{"users", "7", "edit"}, m)
	if f.Path != "/users/7/edit" || f.View != "user" || f.Pattern != "users/{id}/..." {
		t.Errorf("renderFrame() = %+v", f)
	}

	f = renderFrame(nil, nil)
	if f.Path != "/" || !f.NotFound {
		t.Errorf("renderFrame(nil) = %+v, want notFound at /", f)
	}
}

func TestServer_RendersRemainderChangesUnderSameRoute(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, _, _ := handshake(t, ts, "/docs/a")
	send(t, conn, Frame{Type: FrameNavigate, Path: "/docs/b"})

	expectType(t, read(t, conn), FramePush)
	render := read(t, conn)
	expectType(t, render, FrameRender)
	if len(render.Remainder) != 1 || render.Remainder[0] != "b" {
		t.Errorf("remainder = %v, want [b]", render.Remainder)
	}
}

func TestServer_NotFound(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	_, _, render := handshake(t, ts, "/nowhere")
	if !render.NotFound {
		t.Errorf("render = %+v, want notFound", render)
	}
}

func TestServer_RejectsMissingHello(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn := dial(t, ts)
	send(t, conn, Frame{Type: FrameNavigate, Path: "/x"})

	f := read(t, conn)
	expectType(t, f, FrameError)
	if f.Code != "E501" {
		t.Errorf("code = %q, want E501", f.Code)
	}
	if got := srv.TabCount(); got != 0 {
		t.Errorf("TabCount() = %d, want 0", got)
	}
}

func TestServer_BadFrameKeepsTabOpen(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, _, _ := handshake(t, ts, "/users/1")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage() error: %v", err)
	}
	f := read(t, conn)
	expectType(t, f, FrameError)
	if f.Code != "E503" {
		t.Errorf("code = %q, want E503", f.Code)
	}

	send(t, conn, Frame{Type: FrameHello, Location: "/again"})
	expectType(t, read(t, conn), FrameError)

	send(t, conn, Frame{Type: FrameNavigate, Path: "/users/2"})
	expectType(t, read(t, conn), FramePush)
}

func TestServer_CanonicalizesPaths(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, id, render := handshake(t, ts, "/users//7/?tab=posts")
	if render.Params["id"] != "7" {
		t.Errorf("params = %v, want id=7", render.Params)
	}
	if got := srv.Tab(id).Location(); got != "/users/7" {
		t.Errorf("Location() = %q, want /users/7", got)
	}

	send(t, conn, Frame{Type: FrameNavigate, Path: "/docs/./a/../b#top"})
	push := read(t, conn)
	expectType(t, push, FramePush)
	if push.Path != "/docs/b" {
		t.Errorf("push path = %q, want /docs/b", push.Path)
	}
}

func TestServer_RejectsInvalidNavigation(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, id, _ := handshake(t, ts, "/users/1")
	send(t, conn, Frame{Type: FrameNavigate, Path: "https://evil.example/"})

	f := read(t, conn)
	expectType(t, f, FrameError)
	if f.Code != "E504" {
		t.Errorf("code = %q, want E504", f.Code)
	}
	if got := srv.Tab(id).Location(); got != "/users/1" {
		t.Errorf("Location() = %q, want unchanged /users/1", got)
	}

	send(t, conn, Frame{Type: FrameNavigate, Path: "/users/2"})
	expectType(t, read(t, conn), FramePush)
}

func TestServer_RejectsInvalidHelloLocation(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn := dial(t, ts)
	send(t, conn, Frame{Type: FrameHello, Location: "/../secret"})

	f := read(t, conn)
	expectType(t, f, FrameError)
	if f.Code != "E504" {
		t.Errorf("code = %q, want E504", f.Code)
	}
}

func TestServer_DisconnectReleasesTab(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	conn, id, _ := handshake(t, ts, "/users/1")
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Tab(id) != nil {
		if time.Now().After(deadline) {
			t.Fatal("tab still registered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type countingHost struct {
	nav.Host

	mu     sync.Mutex
	pushes []string
}

func (h *countingHost) PushState(path string) error {
	h.mu.Lock()
	h.pushes = append(h.pushes, path)
	h.mu.Unlock()
	return h.Host.PushState(path)
}

type countingObserver struct {
	mu         sync.Mutex
	navigated  int
	matchCalls int
}

func (o *countingObserver) Navigated(string, []string) {
	o.mu.Lock()
	o.navigated++
	o.mu.Unlock()
}

func (o *countingObserver) Matched([]string, *router.RouteMatch) {
	o.mu.Lock()
	o.matchCalls++
	o.mu.Unlock()
}

func TestServer_HostWrapperAndObserver(t *testing.T) {
	wrapped := &countingHost{}
	obs := &countingObserver{}

	srv := New(testRoutes(), nil,
		WithObserver(obs),
		WithHostWrapper(func(h nav.Host) nav.Host {
			wrapped.Host = h
			return wrapped
		}),
	)
	ts := startServer(t, srv)

	conn, _, _ := handshake(t, ts, "/users/1")
	send(t, conn, Frame{Type: FrameNavigate, Path: "/users/2"})
	expectType(t, read(t, conn), FramePush)
	expectType(t, read(t, conn), FrameRender)

	wrapped.mu.Lock()
	pushes := append([]string(nil), wrapped.pushes...)
	wrapped.mu.Unlock()
	if len(pushes) != 1 || pushes[0] != "/users/2" {
		t.Errorf("wrapped pushes = %v, want [/users/2]", pushes)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.navigated != 1 {
		t.Errorf("navigated = %d, want 1", obs.navigated)
	}
	if obs.matchCalls != 2 {
		t.Errorf("match calls = %d, want 2", obs.matchCalls)
	}
}

func TestServer_SetRoutesAffectsNewTabs(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	srv.SetRoutes(router.Routes{
		router.NewRoute("settings", func() router.View { return "settings" }),
	})

	_, _, render := handshake(t, ts, "/settings")
	if render.View != "settings" {
		t.Errorf("view = %q, want settings", render.View)
	}
}

func TestServer_Health(t *testing.T) {
	srv := New(testRoutes(), nil)
	ts := startServer(t, srv)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
		Tabs   int    `json:"tabs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Tabs != 0 {
		t.Errorf("health = %+v", body)
	}
}

func TestServer_ShellForAnyPath(t *testing.T) {
	srv := New(testRoutes(), &Config{Title: "demo"})
	ts := startServer(t, srv)

	for _, path := range []string{"/", "/users/7", "/docs/a/b"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error: %v", path, err)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
		if !strings.Contains(string(data), "<title>demo</title>") {
			t.Errorf("GET %s: shell page missing title", path)
		}
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"https://example.com", true},
		{"http://evil.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := sameOrigin(r); got != tt.want {
			t.Errorf("sameOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

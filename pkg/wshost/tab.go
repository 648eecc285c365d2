package wshost

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/router"
)

// Tab is one connected browser tab. It is the nav.Host of its own State.
type Tab struct {
	id   string
	conn *websocket.Conn

	writeMu      sync.Mutex
	writeTimeout time.Duration

	locMu    sync.RWMutex
	location string

	state *nav.State

	// mu guards outlet and stopRender, which are set once the tab is
	// already visible to Server.Close.
	mu         sync.Mutex
	outlet     *nav.Outlet
	stopRender func()

	closeOnce sync.Once
	logger    *slog.Logger
}

var _ nav.Host = (*Tab)(nil)

// ID returns the tab's identifier.
func (t *Tab) ID() string {
	return t.id
}

// Location implements nav.Host.
func (t *Tab) Location() string {
	t.locMu.RLock()
	defer t.locMu.RUnlock()
	return t.location
}

// PushState implements nav.Host by sending a push frame. The tab's
// location only changes once the frame is written.
func (t *Tab) PushState(path string) error {
	if err := t.send(Frame{Type: FramePush, Path: path}); err != nil {
		return err
	}
	t.locMu.Lock()
	t.location = path
	t.locMu.Unlock()
	return nil
}

// State returns the tab's navigation state.
func (t *Tab) State() *nav.State {
	return t.state
}

// Current returns the tab's current route match, or nil.
func (t *Tab) Current() *router.RouteMatch {
	t.mu.Lock()
	outlet := t.outlet
	t.mu.Unlock()

	if outlet == nil {
		return nil
	}
	return outlet.Current()
}

// Goto navigates the tab. A failed push is returned instead of panicking,
// since one broken tab must not take down the server.
func (t *Tab) Goto(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			werr, ok := r.(*errors.WaypointError)
			if !ok {
				panic(r)
			}
			err = werr
		}
	}()
	t.state.Goto(path)
	return nil
}

func (t *Tab) send(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return errors.FromError(err, "E502")
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.FromError(err, "E502")
	}
	return nil
}

func (t *Tab) render(path []string, m *router.RouteMatch) {
	if err := t.send(renderFrame(path, m)); err != nil {
		t.logger.Warn("render frame write failed", "error", err)
	}
}

func (t *Tab) close() {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		stop, outlet := t.stopRender, t.outlet
		t.mu.Unlock()

		if stop != nil {
			stop()
		}
		if outlet != nil {
			outlet.Close()
		}

		t.writeMu.Lock()
		t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
		t.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		t.writeMu.Unlock()

		t.conn.Close()
	})
}

package nav

import (
	"sync"

	"github.com/vango-dev/waypoint/internal/errors"
)

// Host is the environment that owns the visible address.
type Host interface {
	// Location returns the path the app is currently displayed at.
	Location() string

	// PushState records a new history entry for path and shows it as the
	// current address, without reloading the app.
	PushState(path string) error
}

// HostFuncs adapts a pair of functions to Host. A nil PushStateFunc makes
// every push fail with E201.
type HostFuncs struct {
	LocationFunc  func() string
	PushStateFunc func(path string) error
}

// Location implements Host.
func (h HostFuncs) Location() string {
	if h.LocationFunc == nil {
		return ""
	}
	return h.LocationFunc()
}

// PushState implements Host.
func (h HostFuncs) PushState(path string) error {
	if h.PushStateFunc == nil {
		return errors.New("E201")
	}
	return h.PushStateFunc(path)
}

// MemoryHost is a Host that keeps its history in memory. It backs headless
// runs and tests.
type MemoryHost struct {
	mu       sync.Mutex
	location string
	history  []string
	err      error
}

// NewMemoryHost creates a host displaying location.
func NewMemoryHost(location string) *MemoryHost {
	return &MemoryHost{location: location}
}

// Location implements Host.
func (h *MemoryHost) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// PushState implements Host.
func (h *MemoryHost) PushState(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.history = append(h.history, path)
	h.location = path
	return nil
}

// History returns the pushed paths, oldest first.
func (h *MemoryHost) History() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.history))
	copy(out, h.history)
	return out
}

// FailWith makes every following push return err. Pass nil to recover.
func (h *MemoryHost) FailWith(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

package nav

import (
	"sync"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/reactive"
)

// The process-wide state is created lazily from the installed host and
// lives until the process exits.
var (
	defaultMu    sync.Mutex
	defaultHost  Host
	defaultOpts  []Option
	defaultState *State
)

// Install registers the host and options for the process-wide State. It
// returns false, changing nothing, once the State has been created.
func Install(host Host, opts ...Option) bool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultState != nil {
		defaultState.logger.Warn("navigation host already in use, install ignored")
		return false
	}
	defaultHost = host
	defaultOpts = opts
	return true
}

// Default returns the process-wide State, creating it on first call from
// the installed host. It panics with E200 if Install has not been called.
func Default() *State {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultState == nil {
		if defaultHost == nil {
			panic(errors.New("E200").WithSuggestion("Call nav.Install(host) during startup"))
		}
		defaultState = New(defaultHost, defaultOpts...)
	}
	return defaultState
}

// PathSignal returns the path signal of the process-wide State.
func PathSignal() *reactive.Mapped[[]string] {
	return Default().PathSignal()
}

// SetRemainder sets the remainder of the process-wide State.
func SetRemainder(segments []string) {
	Default().SetRemainder(segments)
}

// Goto navigates the process-wide State.
func Goto(path string) {
	Default().Goto(path)
}

package nav

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/reactive"
	"github.com/vango-dev/waypoint/pkg/router"
)

// Option configures a State.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets the observer notified about navigations and matches.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// State is the navigation state of one address bar.
//
// The current path changes only through Goto. The remainder changes through
// Goto and SetRemainder; immediately after New or Goto it equals the current
// path.
type State struct {
	host Host

	// current is the full path last navigated to.
	current *reactive.Signal[[]string]

	// remainder is the slice of the path staged for the next nested router.
	remainder []string
	mu        sync.RWMutex

	path *reactive.Mapped[[]string]

	logger   *slog.Logger
	observer Observer
}

// New creates a State at the host's current location. A nil host yields a
// state at the root path whose Goto panics.
func New(host Host, opts ...Option) *State {
	o := options{
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}

	var location string
	if host != nil {
		location = host.Location()
	}
	segments := router.SplitPath(location)

	s := &State{
		host:      host,
		current:   reactive.NewSliceSignal(segments),
		remainder: router.ClonePath(segments),
		logger:    o.logger,
		observer:  o.observer,
	}
	s.path = reactive.Map[[]string, []string](s.current, func([]string) []string {
		return s.Remainder()
	})

	s.logger.Debug("navigation state created", "location", location)
	return s
}

// PathSignal returns a read-only view that emits the remainder each time
// the current path changes. Subscribers receive the remainder at subscribe
// time and after every Goto, in subscription order.
func (s *State) PathSignal() *reactive.Mapped[[]string] {
	return s.path
}

// CurrentPath returns a copy of the full current path.
func (s *State) CurrentPath() []string {
	return s.current.Get()
}

// Remainder returns a copy of the staged remainder.
func (s *State) Remainder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return router.ClonePath(s.remainder)
}

// SetRemainder replaces the remainder. It does not change the current path,
// notify subscribers or touch the host. A router calls it after consuming
// its prefix so nested routers see only the rest.
func (s *State) SetRemainder(segments []string) {
	s.mu.Lock()
	s.remainder = router.ClonePath(segments)
	s.mu.Unlock()
}

// Goto navigates to path: the host records a history entry showing path,
// then both the remainder and the current path become the split path and
// subscribers are notified.
//
// The host is asked first so that a navigation started by a subscriber
// during notification leaves the host at the latest path. Goto panics with
// a *errors.WaypointError, leaving the state untouched, if the state has no
// host (E201) or the host rejects the push (E202).
func (s *State) Goto(path string) {
	if s.host == nil {
		s.fail(path, errors.New("E201"))
	}
	if err := s.host.PushState(path); err != nil {
		s.fail(path, errors.FromError(err, "E202"))
	}

	segments := router.SplitPath(path)

	s.mu.Lock()
	s.remainder = router.ClonePath(segments)
	s.mu.Unlock()

	s.logger.Debug("navigated", "path", path, "segments", len(segments))
	s.observer.Navigated(path, segments)

	// Replace notifies even when the path is unchanged, since a previous
	// SetRemainder may have narrowed what subscribers last saw.
	s.current.Replace(segments)
}

func (s *State) fail(path string, err *errors.WaypointError) {
	s.logger.Error("navigation host failure",
		"code", err.Code,
		"path", path,
		"error", err,
	)
	panic(err)
}

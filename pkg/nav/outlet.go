package nav

import (
	"sync"

	"github.com/vango-dev/waypoint/pkg/reactive"
	"github.com/vango-dev/waypoint/pkg/router"
)

// Outlet matches a list of routes against a State's path signal.
//
// On every path change the first matching route wins. Its wildcard
// remainder is staged with SetRemainder, so an Outlet created afterwards
// (typically by the matched view) routes only the unconsumed suffix. When
// nothing matches an empty remainder is staged, and nested outlets see an
// empty path rather than the parent's.
type Outlet struct {
	state  *State
	routes router.Routes

	mu     sync.RWMutex
	latest *router.RouteMatch

	// changes holds the last match whose consumed path differed.
	changes *reactive.Signal[*router.RouteMatch]

	stop func()
}

// NewOutlet subscribes an outlet for routes to state's path signal. The
// routes are matched immediately.
func NewOutlet(state *State, routes router.Routes) *Outlet {
	o := &Outlet{
		state:  state,
		routes: routes,
		changes: reactive.NewSignal[*router.RouteMatch](nil).WithEquals(func(a, b *router.RouteMatch) bool {
			return a.Equal(b)
		}),
	}
	o.stop = state.PathSignal().Subscribe(o.update)
	return o
}

func (o *Outlet) update(observed []string) {
	m, _ := o.routes.First(observed)
	o.state.observer.Matched(observed, m)

	if m != nil {
		o.state.SetRemainder(m.Remainder())
	} else {
		o.state.SetRemainder(nil)
	}

	o.mu.Lock()
	o.latest = m
	o.mu.Unlock()

	o.changes.Set(m)
}

// Current returns the latest match, or nil if no route matched.
func (o *Outlet) Current() *router.RouteMatch {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest
}

// View resolves the view of the latest match. It returns nil if no route
// matched; callers render their not-found view in that case.
func (o *Outlet) View() router.View {
	m := o.Current()
	if m == nil {
		return nil
	}
	return m.Resolve()
}

// Subscribe calls fn with the current match and again whenever the consumed
// path changes. Navigations that only change the remainder below the match
// are not delivered; read Current for the latest remainder.
func (o *Outlet) Subscribe(fn func(*router.RouteMatch)) func() {
	return o.changes.Subscribe(fn)
}

// Close detaches the outlet from the path signal.
func (o *Outlet) Close() {
	o.stop()
}

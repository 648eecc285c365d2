package nav

import "github.com/vango-dev/waypoint/pkg/router"

// Observer is notified about navigation and route matching. Implementations
// must not call back into the State synchronously.
type Observer interface {
	// Navigated is called once the host has accepted a push, before path
	// subscribers are notified.
	Navigated(path string, segments []string)

	// Matched is called each time an Outlet evaluates its routes. m is nil
	// when no route matched.
	Matched(observed []string, m *router.RouteMatch)
}

type nopObserver struct{}

func (nopObserver) Navigated(string, []string)           {}
func (nopObserver) Matched([]string, *router.RouteMatch) {}

// Observers fans notifications out to several observers in order.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) Navigated(path string, segments []string) {
	for _, o := range m {
		o.Navigated(path, segments)
	}
}

func (m multiObserver) Matched(observed []string, match *router.RouteMatch) {
	for _, o := range m {
		o.Matched(observed, match)
	}
}

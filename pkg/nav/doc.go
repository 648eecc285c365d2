// Package nav holds the navigation state: the current path as an observable
// value, the remainder handed to nested routers, and Goto.
//
// # Host
//
// The state talks to its environment through a Host, which reports the
// location the app was opened at and records new history entries:
//
//	type Host interface {
//	    Location() string
//	    PushState(path string) error
//	}
//
// A failing Host breaks the contract between the app and whatever shows its
// address bar; Goto panics rather than continue with a path the user cannot
// see.
//
// # Path Signal
//
// PathSignal re-emits the remainder every time the current path changes.
// After Goto the remainder is the whole path. A router that consumes a
// prefix calls SetRemainder with what is left, so routers subscribed after
// it observe only the suffix:
//
//	state := nav.New(host)
//	state.PathSignal().Subscribe(func(p []string) { ... })
//	state.Goto("/projects/42/tasks")
//
// Outlet packages that pattern: it matches a list of routes against the path
// signal and hands the wildcard remainder on.
//
// # Process-wide State
//
// Apps with a single address bar can use the package-level functions, which
// share one State created on first use from the Host registered by Install:
//
//	nav.Install(host, nav.WithLogger(logger))
//	nav.Goto("/about")
package nav

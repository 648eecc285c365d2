// Package router compiles route patterns and matches paths against them.
//
// A pattern is a slash-separated list of segments:
//
//	users              → static: matches the segment "users" exactly
//	{id}               → parameter: matches any one segment, bound to "id"
//	...                → wildcard: absorbs the rest of the path as the remainder
//
// The wildcard must be last; anything after it is never compiled.
//
// # Parsing
//
// Parse never fails. Fragments that cannot form a segment ({} or a dot run
// other than ...) are dropped from the compiled pattern. Lint reports those
// fragments without changing how Parse behaves:
//
//	router.Parse("a/{}/b")   // [a b]
//	router.Lint("a/{}/b")    // W101: Empty parameter name ("{}" at offset 2)
//
// # Matching
//
// Matching walks the pattern and the observed path in lockstep, left to
// right, without backtracking:
//
//	r := router.NewRoute("projects/{id}/...", projectView)
//
//	m, ok := r.Matches(router.SplitPath("/projects/42/tasks/7"))
//	// ok == true
//	// m.Path() == "projects/42"
//	// m.Params()["id"] == "42"
//	// m.Remainder() == []string{"tasks", "7"}
//
// A Route answers for one pattern only. Choosing among candidates is up to
// the caller; Routes.First tries them in registration order and returns the
// first match.
//
// # Nested Routing
//
// The remainder of a match is meant to be handed to a nested router, which
// matches its own patterns against it. See package nav for the navigation
// state that carries the remainder between levels.
package router

package router

// RouteMatch is the result of one successful match. It is not shared: every
// call to Route.Matches returns a fresh value.
type RouteMatch struct {
	path      []string
	params    map[string]string
	remainder []string
	route     *Route
}

func newRouteMatch(r *Route) *RouteMatch {
	return &RouteMatch{
		path:      []string{},
		params:    make(map[string]string),
		remainder: []string{},
		route:     r,
	}
}

// Path returns the consumed segments joined with "/".
func (m *RouteMatch) Path() string {
	return JoinPath(m.path)
}

// Segments returns a copy of the consumed segments.
func (m *RouteMatch) Segments() []string {
	return ClonePath(m.path)
}

// Params returns a copy of the captured parameters. If a pattern reuses a
// name, the last binding wins.
func (m *RouteMatch) Params() map[string]string {
	out := make(map[string]string, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

// Param returns a single captured parameter.
func (m *RouteMatch) Param(name string) (string, bool) {
	v, ok := m.params[name]
	return v, ok
}

// Remainder returns a copy of the segments the wildcard absorbed. It is
// empty unless the pattern ends in "...".
func (m *RouteMatch) Remainder() []string {
	return ClonePath(m.remainder)
}

// Route returns the route that produced the match.
func (m *RouteMatch) Route() *Route {
	return m.route
}

// Resolve resolves the matched route's view.
func (m *RouteMatch) Resolve() View {
	if m.route == nil {
		return nil
	}
	return m.route.Resolve()
}

// Equal reports whether two matches consumed the same path. Params,
// remainder and route identity are not compared: a view keyed on the match
// is left alone while only the remainder below it changes. Two nil matches
// are equal.
func (m *RouteMatch) Equal(other *RouteMatch) bool {
	if m == nil || other == nil {
		return m == other
	}
	return EqualPaths(m.path, other.path)
}

// Decode fills the param-tagged fields of target, which must be a pointer to
// a struct. A []string field tagged `param:"..."` receives the remainder.
//
//	var p struct {
//	    ID   int      `param:"id"`
//	    Rest []string `param:"..."`
//	}
//	err := m.Decode(&p)
func (m *RouteMatch) Decode(target any) error {
	return decodeParams(m.params, m.remainder, target)
}

package router

// Routes is an ordered list of candidate routes.
type Routes []*Route

// First returns the match of the first route, in list order, that matches
// observed. Later routes are not tried once one matches, so overlapping
// patterns resolve by their position in the list.
func (rs Routes) First(observed []string) (*RouteMatch, bool) {
	for _, r := range rs {
		if m, ok := r.Matches(observed); ok {
			return m, true
		}
	}
	return nil, false
}

// Lint runs Lint over every route pattern and returns the diagnostics keyed
// by pattern. Patterns without diagnostics are omitted.
func (rs Routes) Lint() map[string]error {
	out := make(map[string]error)
	for _, r := range rs {
		if err := Lint(r.pattern); err != nil {
			out[r.pattern] = err
		}
	}
	return out
}

package router

// View is the opaque value a route's resolver produces. The router never
// inspects it.
type View = any

// Resolver produces the view for a matched route.
type Resolver func() View

// Route is a compiled pattern plus the resolver for its view. Routes are
// immutable and safe to share; register them once and match them against
// as many paths as needed.
type Route struct {
	pattern  string
	segments []Segment
	resolver Resolver
}

// NewRoute compiles pattern and attaches resolver. It performs no I/O and
// never fails; see Parse for how malformed fragments are treated.
func NewRoute(pattern string, resolver Resolver) *Route {
	return &Route{
		pattern:  pattern,
		segments: Parse(pattern),
		resolver: resolver,
	}
}

// Pattern returns the pattern string the route was built from.
func (r *Route) Pattern() string {
	return r.pattern
}

// Segments returns a copy of the compiled pattern.
func (r *Route) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// HasWildcard reports whether the pattern ends in "...".
func (r *Route) HasWildcard() bool {
	n := len(r.segments)
	return n > 0 && r.segments[n-1].kind == KindContinue
}

// Resolve calls the route's resolver. A route without a resolver resolves
// to nil.
func (r *Route) Resolve() View {
	if r.resolver == nil {
		return nil
	}
	return r.resolver()
}

// String returns the canonical form of the compiled pattern.
func (r *Route) String() string {
	return Compile(r.segments)
}

// Matches matches observed against the route's pattern.
//
// Static and parameter segments each consume exactly one observed segment;
// the wildcard absorbs everything that is left into the remainder. Observed
// segments left over without a wildcard, or a pattern left over after the
// path runs out, are a mismatch. Matching is greedy and never backtracks.
func (r *Route) Matches(observed []string) (*RouteMatch, bool) {
	m := newRouteMatch(r)
	remainderOpen := false
	pi, oi := 0, 0

	for {
		hasToken := oi < len(observed)
		var token string
		if hasToken {
			token = observed[oi]
		}

		if pi >= len(r.segments) {
			switch {
			case !hasToken:
				return m, true
			case remainderOpen:
				m.remainder = append(m.remainder, token)
				oi++
				continue
			default:
				return nil, false
			}
		}

		seg := r.segments[pi]
		switch seg.kind {
		case KindStatic:
			if !hasToken || token != seg.value {
				return nil, false
			}
			m.path = append(m.path, token)

		case KindParam:
			if !hasToken {
				return nil, false
			}
			m.params[seg.value] = token
			m.path = append(m.path, token)

		case KindContinue:
			if !hasToken {
				return m, true
			}
			remainderOpen = true
			m.remainder = append(m.remainder, token)
		}

		pi++
		oi++
	}
}

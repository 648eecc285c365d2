package router

import (
	"reflect"
	"strings"
	"testing"
)

func TestRouteMatches(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		observed  []string
		wantOK    bool
		wantPath  string
		wantRest  []string
		wantParam map[string]string
	}{
		{
			name:      "param and wildcard",
			pattern:   "a/{id}/...",
			observed:  []string{"a", "42", "x", "y"},
			wantOK:    true,
			wantPath:  "a/42",
			wantRest:  []string{"x", "y"},
			wantParam: map[string]string{"id": "42"},
		},
		{
			name:      "wildcard with nothing left",
			pattern:   "a/...",
			observed:  []string{"a"},
			wantOK:    true,
			wantPath:  "a",
			wantRest:  []string{},
			wantParam: map[string]string{},
		},
		{
			name:      "bare wildcard absorbs everything",
			pattern:   "...",
			observed:  []string{"x", "y", "z"},
			wantOK:    true,
			wantPath:  "",
			wantRest:  []string{"x", "y", "z"},
			wantParam: map[string]string{},
		},
		{
			name:      "exact static",
			pattern:   "users/list",
			observed:  []string{"users", "list"},
			wantOK:    true,
			wantPath:  "users/list",
			wantRest:  []string{},
			wantParam: map[string]string{},
		},
		{
			name:      "empty pattern matches empty path",
			pattern:   "",
			observed:  []string{},
			wantOK:    true,
			wantPath:  "",
			wantRest:  []string{},
			wantParam: map[string]string{},
		},
		{
			name:     "static mismatch",
			pattern:  "users/list",
			observed: []string{"users", "show"},
		},
		{
			name:     "observed too long without wildcard",
			pattern:  "users",
			observed: []string{"users", "42"},
		},
		{
			name:     "observed too short for static",
			pattern:  "users/list",
			observed: []string{"users"},
		},
		{
			name:     "observed too short for param",
			pattern:  "users/{id}",
			observed: []string{"users"},
		},
		{
			name:     "static before wildcard must match",
			pattern:  "a/...",
			observed: []string{"b", "c"},
		},
		{
			name:     "empty pattern rejects non-empty path",
			pattern:  "",
			observed: []string{"a"},
		},
		{
			name:      "duplicate param last write wins",
			pattern:   "{x}/{x}",
			observed:  []string{"one", "two"},
			wantOK:    true,
			wantPath:  "one/two",
			wantRest:  []string{},
			wantParam: map[string]string{"x": "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoute(tt.pattern, nil)
			m, ok := r.Matches(tt.observed)
			if ok != tt.wantOK {
				t.Fatalf("Matches(%v) ok = %v, want %v", tt.observed, ok, tt.wantOK)
			}
			if !ok {
				if m != nil {
					t.Errorf("failed match should return nil, got %+v", m)
				}
				return
			}
			if m.Path() != tt.wantPath {
				t.Errorf("Path() = %q, want %q", m.Path(), tt.wantPath)
			}
			if !reflect.DeepEqual(m.Remainder(), tt.wantRest) {
				t.Errorf("Remainder() = %v, want %v", m.Remainder(), tt.wantRest)
			}
			if !reflect.DeepEqual(m.Params(), tt.wantParam) {
				t.Errorf("Params() = %v, want %v", m.Params(), tt.wantParam)
			}
			if m.Route() != r {
				t.Error("Route() should point back at the matching route")
			}
		})
	}
}

func TestRouteLengthMismatchAlwaysFails(t *testing.T) {
	patterns := []string{"a", "a/b", "{x}", "a/{x}/c", "{a}/{b}/{c}"}
	paths := [][]string{
		{},
		{"a"},
		{"a", "b"},
		{"a", "x", "c"},
		{"a", "b", "c", "d"},
	}

	for _, p := range patterns {
		r := NewRoute(p, nil)
		n := len(r.Segments())
		for _, path := range paths {
			if len(path) == n {
				continue
			}
			if _, ok := r.Matches(path); ok {
				t.Errorf("%q matched %v despite length %d != %d", p, path, len(path), n)
			}
		}
	}
}

func TestRouteMatchesIsIdempotent(t *testing.T) {
	r := NewRoute("docs/{section}/...", nil)
	path := []string{"docs", "intro", "a", "b"}

	first, ok := r.Matches(path)
	if !ok {
		t.Fatal("expected match")
	}
	for i := 0; i < 5; i++ {
		again, ok := r.Matches(path)
		if !ok || !again.Equal(first) {
			t.Fatalf("match %d differs: %v vs %v", i, again, first)
		}
		if again == first {
			t.Fatal("each match should be a fresh value")
		}
	}
}

func TestRouteMatchesDoesNotAliasInput(t *testing.T) {
	r := NewRoute("{id}/...", nil)
	path := []string{"1", "2"}

	m, _ := r.Matches(path)
	path[0], path[1] = "changed", "changed"

	if m.Path() != "1" || m.Remainder()[0] != "2" {
		t.Errorf("match changed with input: %q %v", m.Path(), m.Remainder())
	}
}

func TestRouteMatchAccessorsReturnCopies(t *testing.T) {
	r := NewRoute("{id}/...", nil)
	m, _ := r.Matches([]string{"7", "rest"})

	m.Params()["id"] = "mutated"
	m.Remainder()[0] = "mutated"
	m.Segments()[0] = "mutated"

	if v, _ := m.Param("id"); v != "7" {
		t.Errorf("Param(id) = %q after mutating copy", v)
	}
	if m.Remainder()[0] != "rest" || m.Segments()[0] != "7" {
		t.Error("accessors should return copies")
	}
	if _, ok := m.Param("missing"); ok {
		t.Error("Param(missing) should report false")
	}
}

func TestRouteMatchEqual(t *testing.T) {
	a := NewRoute("users/{id}/...", nil)
	b := NewRoute("users/{uid}", nil)

	m1, _ := a.Matches([]string{"users", "1", "x"})
	m2, _ := b.Matches([]string{"users", "1"})
	m3, _ := b.Matches([]string{"users", "2"})

	if !m1.Equal(m2) {
		t.Error("matches with the same consumed path should be equal regardless of params, remainder and route")
	}
	if m1.Equal(m3) {
		t.Error("matches with different consumed paths should differ")
	}

	var nilMatch *RouteMatch
	if !nilMatch.Equal(nil) {
		t.Error("nil matches should be equal")
	}
	if m1.Equal(nil) || nilMatch.Equal(m1) {
		t.Error("nil and non-nil matches should differ")
	}
}

func TestRouteResolve(t *testing.T) {
	calls := 0
	r := NewRoute("about", func() View {
		calls++
		return "about-view"
	})

	m, ok := r.Matches([]string{"about"})
	if !ok {
		t.Fatal("expected match")
	}
	if got := m.Resolve(); got != "about-view" {
		t.Errorf("Resolve() = %v, want about-view", got)
	}
	if calls != 1 {
		t.Errorf("resolver called %d times, want 1", calls)
	}

	if NewRoute("x", nil).Resolve() != nil {
		t.Error("route without resolver should resolve to nil")
	}
}

func TestRouteAccessors(t *testing.T) {
	r := NewRoute("/a//{id}/.../z", nil)
	if r.Pattern() != "/a//{id}/.../z" {
		t.Errorf("Pattern() = %q", r.Pattern())
	}
	if r.String() != "a/{id}/..." {
		t.Errorf("String() = %q", r.String())
	}
	if !r.HasWildcard() {
		t.Error("HasWildcard() = false")
	}
	if NewRoute("a/b", nil).HasWildcard() {
		t.Error("HasWildcard() = true for static pattern")
	}

	segs := r.Segments()
	segs[0] = Static("mutated")
	if !strings.HasPrefix(r.String(), "a/") {
		t.Error("Segments() should return a copy")
	}
}

func TestRoutesFirstMatchWins(t *testing.T) {
	param := NewRoute("a/{id}", func() View { return "param" })
	static := NewRoute("a/b", func() View { return "static" })
	path := []string{"a", "b"}

	if _, ok := param.Matches(path); !ok {
		t.Fatal("param route should match on its own")
	}
	if _, ok := static.Matches(path); !ok {
		t.Fatal("static route should match on its own")
	}

	m, ok := Routes{param, static}.First(path)
	if !ok || m.Route() != param {
		t.Errorf("First = %v, want param route", m)
	}

	m, ok = Routes{static, param}.First(path)
	if !ok || m.Route() != static {
		t.Errorf("First = %v, want static route", m)
	}

	if _, ok := (Routes{static}).First([]string{"nope"}); ok {
		t.Error("First should report no match")
	}
	if _, ok := (Routes{}).First(path); ok {
		t.Error("empty Routes should never match")
	}
}

func TestRoutesLint(t *testing.T) {
	rs := Routes{NewRoute("ok/{id}", nil), NewRoute("bad/{}", nil)}
	diags := rs.Lint()
	if len(diags) != 1 {
		t.Fatalf("Lint() = %v, want one entry", diags)
	}
	if diags["bad/{}"] == nil {
		t.Error("expected diagnostics for bad/{}")
	}
}

package router

import "strings"

// SplitPath splits a raw path on "/" and drops empty components, so
// leading, trailing and repeated slashes collapse:
//
//	SplitPath("//users/42/") == []string{"users", "42"}
//
// The result is never nil.
func SplitPath(raw string) []string {
	segments := make([]string, 0, strings.Count(raw, "/")+1)
	start := 0

	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '/' {
			if i > start {
				segments = append(segments, raw[start:i])
			}
			start = i + 1
		}
	}

	return segments
}

// JoinPath joins segments with "/". It is the inverse of SplitPath for
// paths without empty components.
func JoinPath(segments []string) string {
	return strings.Join(segments, "/")
}

// ClonePath returns an independent copy of segments. A nil input yields an
// empty, non-nil slice.
func ClonePath(segments []string) []string {
	out := make([]string, len(segments))
	copy(out, segments)
	return out
}

// EqualPaths reports whether two segment lists are identical.
func EqualPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package routepath

import (
	"fmt"
	"strings"

	"github.com/vango-dev/waypoint/internal/errors"
)

// Canonicalize validates a browser path and returns its canonical form.
//
// The query and fragment are dropped. Repeated slashes collapse, "." is
// removed and ".." pops the previous segment. A trailing slash is
// dropped except for the root. The result always starts with "/".
//
// Input is rejected when it is not site-relative (scheme or "//" host),
// contains a backslash, a NUL byte or a malformed percent escape, or
// when ".." would climb above the root.
func Canonicalize(input string) (string, error) {
	path := stripQuery(input)

	switch {
	case path == "":
		return "/", nil
	case !strings.HasPrefix(path, "/"):
		return "", invalid(input, "path must start with /")
	case strings.HasPrefix(path, "//"):
		return "", invalid(input, "absolute URLs are not allowed")
	case strings.ContainsRune(path, '\\'):
		return "", invalid(input, "backslash in path")
	case strings.IndexByte(path, 0) >= 0:
		return "", invalid(input, "NUL byte in path")
	}
	if !validEscapes(path) {
		return "", invalid(input, "malformed percent escape")
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", invalid(input, "path escapes root")
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

func stripQuery(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

func validEscapes(path string) bool {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func invalid(input, reason string) error {
	return errors.New("E504").WithDetail(fmt.Sprintf("%s: %q", reason, input))
}

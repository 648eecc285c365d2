package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Severity Severity
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Pattern Diagnostics (W100-W199)
	// ============================================

	"W101": {
		Category: CategoryPattern,
		Severity: SeverityWarning,
		Message:  "Empty parameter name",
		Detail:   "A parameter segment has no name, so the segment is dropped from the compiled pattern and matches nothing.",
	},
	"W102": {
		Category: CategoryPattern,
		Severity: SeverityWarning,
		Message:  "Dot run is not a wildcard",
		Detail:   "Only exactly three dots (...) form the trailing wildcard. Other dot runs are dropped from the compiled pattern.",
	},
	"W103": {
		Category: CategoryPattern,
		Severity: SeverityWarning,
		Message:  "Segments after wildcard are ignored",
		Detail:   "The trailing wildcard (...) absorbs the rest of the path, so nothing after it is ever compiled.",
	},
	"W104": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Route is unreachable",
		Detail:   "An earlier route compiles to the same pattern. The first match wins, so this route never matches.",
	},

	// ============================================
	// Navigation Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryNavigation,
		Message:  "Navigation host not installed",
		Detail:   "The process-wide navigation state was accessed before nav.Install registered a host.",
	},
	"E201": {
		Category: CategoryNavigation,
		Message:  "History capability unavailable",
		Detail:   "Goto needs a host that can push history entries. The hosting environment does not provide one.",
	},
	"E202": {
		Category: CategoryNavigation,
		Message:  "History push failed",
		Detail:   "The host refused to record a new history entry. The visible address no longer matches the navigation state.",
	},

	// ============================================
	// Config Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Manifest not found",
		Detail:   "No waypoint.json or waypoint.toml was found at the given location.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Invalid manifest",
		Detail:   "The route manifest could not be decoded.",
	},
	"E303": {
		Category: CategoryConfig,
		Message:  "Invalid manifest value",
		Detail:   "A manifest field has a value outside its allowed range.",
	},
	"E304": {
		Category: CategoryConfig,
		Message:  "Remote manifest unavailable",
		Detail:   "The manifest could not be fetched from object storage.",
	},

	// ============================================
	// CLI Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "No route matched",
		Detail:   "None of the given patterns matched the path.",
	},
	"E402": {
		Category: CategoryCLI,
		Message:  "Pattern has diagnostics",
		Detail:   "At least one pattern contains fragments that are silently dropped.",
	},

	// ============================================
	// Transport Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryTransport,
		Message:  "Invalid tab handshake",
		Detail:   "The first frame of a tab connection must be a hello frame carrying the current location.",
	},
	"E502": {
		Category: CategoryTransport,
		Message:  "Tab frame write failed",
		Detail:   "A frame could not be delivered to the browser tab. The tab is disconnected.",
	},
	"E503": {
		Category: CategoryTransport,
		Message:  "Invalid tab frame",
		Detail:   "A frame from the browser tab could not be decoded or has an unknown type.",
	},
	"E504": {
		Category: CategoryTransport,
		Message:  "Invalid navigation path",
		Detail:   "Paths received from a tab must be site-relative, start with / and stay inside the root.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Package errors provides structured, actionable error messages for Waypoint.
//
// Every error carries a short code (e.g. "W101") that maps to a registered
// template with a message, a longer explanation and a category. Errors that
// point at a fragment of a route pattern carry a Span so the terminal output
// can underline the offending text.
//
// # Error Categories
//
//   - pattern: route patterns that parse, but not the way they read
//   - navigation: broken host contract (missing history capability, failed push)
//   - config: route manifest loading and validation
//   - cli: command-line usage
//
// # Usage
//
//	err := errors.New("W101").
//	    WithSpan("users/{}/edit", 6, 8).
//	    WithSuggestion("Name the parameter, e.g. {id}")
//
//	fmt.Println(err.Format())
//	// Output:
//	// WARNING W101: Empty parameter name
//	//
//	//     users/{}/edit
//	//           ^^
//	//
//	//   Hint: Name the parameter, e.g. {id}
package errors

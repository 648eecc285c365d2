package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryPattern    Category = "pattern"
	CategoryNavigation Category = "navigation"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
	CategoryTransport  Category = "transport"
)

// Severity distinguishes advisory diagnostics from hard failures.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Span marks a byte range inside an input string, usually a route pattern.
type Span struct {
	Input string
	Start int
	End   int
}

// String returns the spanned text.
func (s *Span) String() string {
	if s == nil || s.Start < 0 || s.End > len(s.Input) || s.Start > s.End {
		return ""
	}
	return s.Input[s.Start:s.End]
}

// WaypointError is a structured error with an optional source span and a
// suggestion on how to fix it.
type WaypointError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (pattern, navigation, ...).
	Category Category

	// Severity is SeverityWarning for advisory diagnostics.
	Severity Severity

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Span points at the offending input, if any.
	Span *Span

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *WaypointError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if frag := e.Span.String(); frag != "" {
		fmt.Fprintf(&b, " (%q at offset %d)", frag, e.Span.Start)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WaypointError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a WaypointError with the same code.
func (e *WaypointError) Is(target error) bool {
	t, ok := target.(*WaypointError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSpan points the error at input[start:end].
func (e *WaypointError) WithSpan(input string, start, end int) *WaypointError {
	e.Span = &Span{Input: input, Start: start, End: end}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WaypointError) WithSuggestion(s string) *WaypointError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *WaypointError) WithDetail(d string) *WaypointError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *WaypointError) Wrap(err error) *WaypointError {
	e.Wrapped = err
	return e
}

// IsWarning reports whether the error is advisory.
func (e *WaypointError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// New creates a WaypointError from a registered error code.
func New(code string) *WaypointError {
	template, ok := registry[code]
	if !ok {
		return &WaypointError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WaypointError{
		Code:     code,
		Category: template.Category,
		Severity: template.Severity,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// FromError wraps a standard error in a WaypointError.
func FromError(err error, code string) *WaypointError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WaypointError); ok {
		return we
	}
	return New(code).Wrap(err)
}

// List collects several errors, typically diagnostics for one pattern.
type List []*WaypointError

// Error joins the member errors one per line.
func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the members to errors.Is/As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// ErrOrNil returns nil for an empty list so callers can return it directly.
func (l List) ErrOrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

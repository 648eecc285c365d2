package router

import "strings"

// Kind identifies which rule a Segment applies.
type Kind uint8

const (
	// KindStatic matches one observed segment equal to the literal text.
	KindStatic Kind = iota

	// KindParam matches any one observed segment and binds it to a name.
	KindParam

	// KindContinue matches zero or more trailing segments. It always ends
	// a pattern.
	KindContinue
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindParam:
		return "param"
	case KindContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Segment is one compiled rule of a route pattern. Segments are values and
// never change after construction.
type Segment struct {
	kind  Kind
	value string
}

// Static returns a segment matching the literal text.
func Static(text string) Segment {
	return Segment{kind: KindStatic, value: text}
}

// Param returns a segment binding one observed segment to name.
func Param(name string) Segment {
	return Segment{kind: KindParam, value: name}
}

// Continue returns the trailing wildcard segment.
func Continue() Segment {
	return Segment{kind: KindContinue}
}

// Kind returns the segment kind.
func (s Segment) Kind() Kind {
	return s.kind
}

// Value returns the literal text of a static segment or the name of a
// parameter. It is empty for the wildcard.
func (s Segment) Value() string {
	return s.value
}

// String renders the segment in pattern syntax.
func (s Segment) String() string {
	switch s.kind {
	case KindParam:
		return "{" + s.value + "}"
	case KindContinue:
		return continueToken
	default:
		return s.value
	}
}

// Compile renders segments back into their canonical pattern string.
//
//	Compile(Parse("/a//{id}/.../x")) == "a/{id}/..."
func Compile(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.String())
		if seg.kind == KindContinue {
			break
		}
	}
	return strings.Join(parts, "/")
}

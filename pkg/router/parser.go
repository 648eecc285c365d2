package router

import (
	"strings"

	"github.com/vango-dev/waypoint/internal/errors"
)

// continueToken is the only dot run that forms a wildcard.
const continueToken = "..."

// parser scans a pattern left to right. When lint is set it records every
// fragment it drops instead of staying silent.
type parser struct {
	input string
	pos   int

	lint  bool
	diags errors.List
}

// Parse compiles a route pattern into segments.
//
// Parse never fails: an empty parameter ({}) or a dot run other than "..."
// is dropped, and scanning stops after the wildcard. An empty pattern
// compiles to no segments.
func Parse(pattern string) []Segment {
	p := &parser{input: pattern}
	return p.run()
}

// Lint reports the fragments of pattern that Parse drops. It returns nil
// when the pattern compiles exactly as written, otherwise an errors.List of
// warnings (W101 empty parameter, W102 bad dot run, W103 text after the
// wildcard).
func Lint(pattern string) error {
	p := &parser{input: pattern, lint: true}
	p.run()
	return p.diags.ErrOrNil()
}

func (p *parser) run() []Segment {
	var segments []Segment

	for {
		if p.peek() == '/' {
			p.pos++
		}
		if p.eol() {
			break
		}

		seg, ok := p.segment()
		if !ok {
			continue
		}
		segments = append(segments, seg)

		if seg.kind == KindContinue {
			p.checkTrailing()
			break
		}
	}

	return segments
}

func (p *parser) segment() (Segment, bool) {
	switch p.peek() {
	case '{':
		return p.param()
	case '.':
		return p.dots()
	default:
		return p.static()
	}
}

func (p *parser) static() (Segment, bool) {
	text := p.consumeWhile(func(c byte) bool { return c != '/' })
	if text == "" {
		return Segment{}, false
	}
	return Static(text), true
}

func (p *parser) param() (Segment, bool) {
	start := p.pos
	p.pos++ // {

	name := p.consumeWhile(func(c byte) bool { return c != '}' && c != '/' })
	if !p.eol() {
		p.pos++ // } or /
	}

	if name == "" {
		p.report("W101", start, p.pos, "Name the parameter, e.g. {id}")
		return Segment{}, false
	}
	return Param(name), true
}

func (p *parser) dots() (Segment, bool) {
	start := p.pos
	run := p.consumeWhile(func(c byte) bool { return c == '.' })
	if run == continueToken {
		return Continue(), true
	}

	p.report("W102", start, p.pos, "Use exactly three dots (...) for the trailing wildcard")
	return Segment{}, false
}

// checkTrailing reports any pattern text after the wildcard.
func (p *parser) checkTrailing() {
	if !p.lint {
		return
	}
	if strings.Trim(p.input[p.pos:], "/") == "" {
		return
	}
	p.report("W103", p.pos, len(p.input), "Move the wildcard to the end of the pattern")
}

func (p *parser) report(code string, start, end int, suggestion string) {
	if !p.lint {
		return
	}
	p.diags = append(p.diags, errors.New(code).
		WithSpan(p.input, start, end).
		WithSuggestion(suggestion))
}

func (p *parser) consumeWhile(cond func(byte) bool) string {
	start := p.pos
	for !p.eol() && cond(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) eol() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eol() {
		return 0
	}
	return p.input[p.pos]
}

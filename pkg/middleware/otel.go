package middleware

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/router"
)

// Default tracer name for waypoint.
const defaultTracerName = "waypoint"

// Span names.
const (
	spanPush     = "waypoint.push"
	spanNavigate = "waypoint.navigate"
	spanMatch    = "waypoint.match"
)

// Attribute keys.
const (
	attrPath      = attribute.Key("waypoint.path")
	attrSegments  = attribute.Key("waypoint.segments")
	attrObserved  = attribute.Key("waypoint.observed")
	attrPattern   = attribute.Key("waypoint.route.pattern")
	attrMatched   = attribute.Key("waypoint.route.matched")
	attrRemainder = attribute.Key("waypoint.remainder")
)

// OTelConfig configures the OpenTelemetry tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "waypoint").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Context returns the parent context for spans started outside a
	// request. Defaults to context.Background.
	Context func() context.Context

	// AttributeExtractor adds custom attributes to navigation spans.
	AttributeExtractor func(path string) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the function supplying the parent span context.
func WithParentContext(fn func() context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = fn
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(path string) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
		Context:    context.Background,
	}
}

// Tracer records navigation as OpenTelemetry spans. It implements
// nav.Observer.
type Tracer struct {
	config OTelConfig
	tracer trace.Tracer
}

var _ nav.Observer = (*Tracer)(nil)

// NewTracer resolves a tracer from the configured provider.
func NewTracer(opts ...OTelOption) *Tracer {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return &Tracer{config: config, tracer: tracer}
}

// Navigated implements nav.Observer.
func (t *Tracer) Navigated(path string, segments []string) {
	attrs := []attribute.KeyValue{
		attrPath.String(path),
		attrSegments.StringSlice(segments),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(path)...)
	}

	_, span := t.tracer.Start(t.config.Context(), spanNavigate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	span.End()
}

// Matched implements nav.Observer.
func (t *Tracer) Matched(observed []string, m *router.RouteMatch) {
	attrs := []attribute.KeyValue{
		attrObserved.String(strings.Join(observed, "/")),
		attrMatched.Bool(m != nil),
	}
	if m != nil {
		if r := m.Route(); r != nil {
			attrs = append(attrs, attrPattern.String(r.Pattern()))
		}
		attrs = append(attrs, attrRemainder.StringSlice(m.Remainder()))
	}

	_, span := t.tracer.Start(t.config.Context(), spanMatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	span.End()
}

// InstrumentHost wraps host so that every push runs inside a span.
func (t *Tracer) InstrumentHost(host nav.Host) nav.Host {
	return &tracedHost{next: host, tracer: t}
}

type tracedHost struct {
	next   nav.Host
	tracer *Tracer
}

func (h *tracedHost) Location() string {
	return h.next.Location()
}

func (h *tracedHost) PushState(path string) error {
	t := h.tracer
	_, span := t.tracer.Start(t.config.Context(), spanPush,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrPath.String(path)),
	)
	defer span.End()

	err := h.next.PushState(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

package middleware

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/router"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "waypoint").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for push duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "waypoint",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Label values used when no route matched and for push outcomes.
const (
	unmatchedPattern = "<none>"
	resultMatched    = "matched"
	resultUnmatched  = "unmatched"
	statusOK         = "ok"
	statusError      = "error"
)

// Metrics collects navigation metrics. It implements nav.Observer.
type Metrics struct {
	navigations  prometheus.Counter
	matches      *prometheus.CounterVec
	pushes       *prometheus.CounterVec
	pushDuration prometheus.Histogram
}

var _ nav.Observer = (*Metrics)(nil)

// NewMetrics registers the navigation metrics with the configured registry.
// Registering twice against the same registry panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations accepted by the host",
			ConstLabels: config.ConstLabels,
		}),

		matches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "route_matches_total",
			Help:        "Total number of outlet evaluations by route pattern and result",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "result"}),

		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_pushes_total",
			Help:        "Total number of history pushes by status and error code",
			ConstLabels: config.ConstLabels,
		}, []string{"status", "code"}),

		pushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_push_duration_seconds",
			Help:        "History push duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Navigated implements nav.Observer.
func (m *Metrics) Navigated(string, []string) {
	m.navigations.Inc()
}

// Matched implements nav.Observer. The pattern label is bounded by the
// number of registered routes.
func (m *Metrics) Matched(_ []string, match *router.RouteMatch) {
	if match == nil || match.Route() == nil {
		m.matches.WithLabelValues(unmatchedPattern, resultUnmatched).Inc()
		return
	}
	m.matches.WithLabelValues(match.Route().Pattern(), resultMatched).Inc()
}

// InstrumentHost wraps host so that every push is counted and timed.
func (m *Metrics) InstrumentHost(host nav.Host) nav.Host {
	return &metricsHost{next: host, metrics: m}
}

func (m *Metrics) recordPush(d time.Duration, err error) {
	m.pushDuration.Observe(d.Seconds())
	if err != nil {
		m.pushes.WithLabelValues(statusError, errorCode(err)).Inc()
		return
	}
	m.pushes.WithLabelValues(statusOK, "").Inc()
}

type metricsHost struct {
	next    nav.Host
	metrics *Metrics
}

func (h *metricsHost) Location() string {
	return h.next.Location()
}

func (h *metricsHost) PushState(path string) error {
	start := time.Now()
	err := h.next.PushState(path)
	h.metrics.recordPush(time.Since(start), err)
	return err
}

// errorCode keeps the error label bounded: coded errors report their code,
// everything else reports "unknown".
func errorCode(err error) string {
	var werr *errors.WaypointError
	if stderrors.As(err, &werr) && werr.Code != "" {
		return werr.Code
	}
	return "unknown"
}

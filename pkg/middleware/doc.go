// Package middleware instruments navigation with Prometheus metrics and
// OpenTelemetry tracing.
//
// Both integrations come in two halves: an Observer that is passed to
// nav.New (or nav.Install) through nav.WithObserver, and a Host decorator
// that wraps the nav.Host the State pushes to.
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	host := m.InstrumentHost(nav.NewMemoryHost("/"))
//	state := nav.New(host, nav.WithObserver(m))
//
// Metrics collected (namespace "waypoint" by default):
//   - waypoint_navigations_total: Goto calls accepted by the host
//   - waypoint_route_matches_total: outlet evaluations by route pattern and result
//   - waypoint_host_pushes_total: history pushes by status
//   - waypoint_host_push_duration_seconds: history push latency
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
//	tracer := middleware.NewTracer(middleware.WithTracerName("my-app"))
//	state := nav.New(tracer.InstrumentHost(host), nav.WithObserver(tracer))
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given with WithTracerProvider.
package middleware

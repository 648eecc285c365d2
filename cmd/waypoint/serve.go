package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/waypoint/internal/config"
	"github.com/vango-dev/waypoint/pkg/middleware"
	"github.com/vango-dev/waypoint/pkg/nav"
	"github.com/vango-dev/waypoint/pkg/wshost"
)

func serveCmd() *cobra.Command {
	var (
		manifest string
		addr     string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve browser tabs routed by a manifest",
		Long: `Start the tab server. Every browser tab connects over WebSocket and
gets its own navigation state; link clicks navigate on the server and
the browser address follows through history pushes.

Routes:
  /ws        tab connection
  /healthz   liveness and tab count
  /metrics   Prometheus metrics (when enabled in the manifest)
  /*         shell page

Examples:
  waypoint serve
  waypoint serve --manifest ./site/waypoint.toml --addr :9000 --watch
  waypoint serve --manifest s3://routes/prod/waypoint.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), manifest, addr, watch)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", ".", "Manifest directory, file or s3:// URI")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from manifest)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload routes when a local manifest changes")

	return cmd
}

func runServe(ctx context.Context, out io.Writer, source, addr string, watch bool) error {
	cfg, err := config.Open(ctx, source, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if watch {
		cfg.Server.Watch = true
	}

	logger := cfg.NewLogger(os.Stderr)
	cfg.LogLint(logger)

	handler, srv := newServeHandler(cfg, logger)
	defer srv.Close()

	if cfg.Server.Watch {
		if config.IsRemote(cfg.Source()) {
			warn(out, "--watch ignored for remote manifest %s", cfg.Source())
		} else {
			go func() {
				err := config.Watch(ctx, cfg.Source(), logger, func(next *config.Config) {
					srv.SetRoutes(next.BuildRoutes())
				})
				if err != nil {
					logger.Warn("manifest watch disabled", "error", err)
				}
			}()
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	success(out, "serving %d routes on %s", len(cfg.Routes), cfg.Server.Addr)
	info(out, "manifest: %s", cfg.Source())

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Close()
	return httpServer.Shutdown(shutdownCtx)
}

// newServeHandler wires the tab server, metrics and tracing described by
// cfg into one chi router.
func newServeHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, *wshost.Server) {
	var (
		observers []nav.Observer
		wrappers  []wshost.Option
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		opts := []middleware.MetricsOption{middleware.WithRegistry(reg)}
		if cfg.Metrics.Namespace != "" {
			opts = append(opts, middleware.WithNamespace(cfg.Metrics.Namespace))
		}
		metrics := middleware.NewMetrics(opts...)

		observers = append(observers, metrics)
		wrappers = append(wrappers, wshost.WithHostWrapper(metrics.InstrumentHost))
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	if cfg.Tracing.Enabled {
		var opts []middleware.OTelOption
		if cfg.Tracing.TracerName != "" {
			opts = append(opts, middleware.WithTracerName(cfg.Tracing.TracerName))
		}
		tracer := middleware.NewTracer(opts...)

		observers = append(observers, tracer)
		wrappers = append(wrappers, wshost.WithHostWrapper(tracer.InstrumentHost))
	}

	opts := append([]wshost.Option{
		wshost.WithLogger(logger),
		wshost.WithObserver(nav.Observers(observers...)),
	}, wrappers...)

	srv := wshost.New(cfg.BuildRoutes(), &wshost.Config{
		Title:        cfg.Server.Title,
		WriteTimeout: cfg.WriteTimeout(),
		ReadTimeout:  cfg.ReadTimeout(),
	}, opts...)
	srv.Mount(r)

	return r, srv
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

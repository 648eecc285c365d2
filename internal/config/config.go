package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/router"
)

const (
	// JSONFileName is the JSON manifest name.
	JSONFileName = "waypoint.json"

	// TOMLFileName is the TOML manifest name.
	TOMLFileName = "waypoint.toml"

	// DefaultAddr is the default listen address of the tab server.
	DefaultAddr = ":8080"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultWriteTimeout is the default tab frame write timeout.
	DefaultWriteTimeout = "10s"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the manifest format implied by a file name.
func FormatOf(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// Config is a route manifest.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" toml:"name,omitempty"`

	// Routes are the candidate routes in match order.
	Routes []RouteConfig `json:"routes" toml:"routes"`

	// Server configures the tab server.
	Server ServerConfig `json:"server,omitempty" toml:"server,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics,omitempty"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing,omitempty" toml:"tracing,omitempty"`

	// Log configures the process logger.
	Log LogConfig `json:"log,omitempty" toml:"log,omitempty"`

	// source is where the manifest was loaded from.
	source string
}

// RouteConfig binds a route pattern to a view name.
type RouteConfig struct {
	Pattern string `json:"pattern" toml:"pattern"`
	View    string `json:"view" toml:"view"`
}

// ServerConfig contains tab server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" toml:"addr,omitempty"`

	// Title is the shell page title.
	Title string `json:"title,omitempty" toml:"title,omitempty"`

	// WriteTimeout bounds each frame write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" toml:"writeTimeout,omitempty"`

	// ReadTimeout closes silent tabs (e.g., "60s"). Empty uses the server
	// default.
	ReadTimeout string `json:"readTimeout,omitempty" toml:"readTimeout,omitempty"`

	// Watch reloads routes when a local manifest changes.
	Watch bool `json:"watch,omitempty" toml:"watch,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" toml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" toml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" toml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" toml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" toml:"tracerName,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format,omitempty"`
}

// New creates a Config with default values and no routes.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			WriteTimeout: DefaultWriteTimeout,
		},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
	}
}

// Load reads the manifest in dir, preferring waypoint.json over
// waypoint.toml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E301").
		WithDetail("No " + JSONFileName + " or " + TOMLFileName + " found in " + dir).
		WithSuggestion("Run 'waypoint lint' on a manifest or create " + JSONFileName + " manually")
}

// LoadFile reads the manifest at path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E301").
				WithDetail("No manifest found at " + path)
		}
		return nil, errors.New("E302").Wrap(err)
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	cfg.source = path
	return cfg, nil
}

// Parse decodes a manifest and fills in defaults.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := New()

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E302").
			WithDetail(fmt.Sprintf("Failed to parse %s manifest: %v", format, err)).
			WithSuggestion("Check that the manifest is valid " + strings.ToUpper(string(format)))
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Source returns where the manifest was loaded from.
func (c *Config) Source() string {
	return c.source
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the manifest values. It returns an errors.List of E303
// errors, or nil.
func (c *Config) Validate() error {
	var errs errors.List

	for i, r := range c.Routes {
		if r.View == "" {
			errs = append(errs, errors.New("E303").
				WithDetail(fmt.Sprintf("routes[%d] (%q) has no view", i, r.Pattern)))
		}
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		errs = append(errs, errors.New("E303").
			WithDetail(fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level)))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, errors.New("E303").
			WithDetail(fmt.Sprintf("log.format %q is not text or json", c.Log.Format)))
	}

	for name, value := range map[string]string{
		"server.writeTimeout": c.Server.WriteTimeout,
		"server.readTimeout":  c.Server.ReadTimeout,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			errs = append(errs, errors.New("E303").
				WithDetail(fmt.Sprintf("%s %q is not a positive duration", name, value)))
		}
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, errors.New("E303").
			WithDetail(fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path)))
	}

	return errs.ErrOrNil()
}

// Lint returns the pattern diagnostics of every route plus a W104 warning
// for each route shadowed by an earlier one of the same shape.
func (c *Config) Lint() errors.List {
	var out errors.List
	seen := make(map[string]int)

	for i, r := range c.Routes {
		if err := router.Lint(r.Pattern); err != nil {
			if list, ok := err.(errors.List); ok {
				out = append(out, list...)
			}
		}

		shape := shapeOf(router.Parse(r.Pattern))
		if first, ok := seen[shape]; ok {
			out = append(out, errors.New("W104").
				WithDetail(fmt.Sprintf("routes[%d] (%q) is shadowed by routes[%d] (%q)",
					i, r.Pattern, first, c.Routes[first].Pattern)))
			continue
		}
		seen[shape] = i
	}
	return out
}

// shapeOf renders segments with parameter names erased, so patterns that
// match exactly the same paths share a shape.
func shapeOf(segments []router.Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		if seg.Kind() == router.KindParam {
			parts[i] = "{}"
			continue
		}
		parts[i] = seg.String()
	}
	return strings.Join(parts, "/")
}

// LogLint logs every Lint diagnostic as a warning.
func (c *Config) LogLint(logger *slog.Logger) {
	for _, d := range c.Lint() {
		logger.Warn("route diagnostic", "code", d.Code, "error", d.Error())
	}
}

// BuildRoutes compiles the manifest routes in order. Each route resolves to
// its view name.
func (c *Config) BuildRoutes() router.Routes {
	routes := make(router.Routes, 0, len(c.Routes))
	for _, r := range c.Routes {
		view := r.View
		routes = append(routes, router.NewRoute(r.Pattern, func() router.View {
			return view
		}))
	}
	return routes
}

// WriteTimeout returns the parsed frame write timeout, or 0 when unset.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// ReadTimeout returns the parsed tab read timeout, or 0 when unset.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// NewLogger builds a logger writing to w with the configured level and
// format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

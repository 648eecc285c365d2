package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/router"
)

func errorCode(t *testing.T, err error) string {
	t.Helper()
	werr, ok := err.(*errors.WaypointError)
	if !ok {
		t.Fatalf("error %T (%v) is not a *errors.WaypointError", err, err)
	}
	return werr.Code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleJSON = `{
  "name": "docs-site",
  "routes": [
    {"pattern": "users/{id}", "view": "user"},
    {"pattern": "docs/...", "view": "docs"}
  ],
  "server": {"addr": ":9000", "title": "Docs"},
  "metrics": {"enabled": true},
  "log": {"level": "debug", "format": "json"}
}
`

const sampleTOML = `
name = "docs-site"

[[routes]]
pattern = "users/{id}"
view = "user"

[[routes]]
pattern = "docs/..."
view = "docs"

[server]
addr = ":9000"
writeTimeout = "5s"

[tracing]
enabled = true
tracerName = "docs"
`

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.WriteTimeout() != 10*time.Second {
		t.Errorf("WriteTimeout() = %v, want 10s", cfg.WriteTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, JSONFileName, sampleJSON)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
	if cfg.Name != "docs-site" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if len(cfg.Routes) != 2 || cfg.Routes[1].Pattern != "docs/..." {
		t.Errorf("Routes = %+v", cfg.Routes)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.Title != "Docs" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics = %+v, want enabled with default path", cfg.Metrics)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %q, want default", cfg.Server.WriteTimeout)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFileName, sampleTOML)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(cfg.Routes) != 2 || cfg.Routes[0].View != "user" {
		t.Errorf("Routes = %+v", cfg.Routes)
	}
	if cfg.WriteTimeout() != 5*time.Second {
		t.Errorf("WriteTimeout() = %v, want 5s", cfg.WriteTimeout())
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.TracerName != "docs" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
	}
}

func TestLoad_PrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"name": "from-json"}`)
	writeFile(t, dir, TOMLFileName, `name = "from-toml"`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "from-json" {
		t.Errorf("Name = %q, want from-json", cfg.Name)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if code := errorCode(t, err); code != "E301" {
		t.Errorf("code = %s, want E301", code)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if code := errorCode(t, err); code != "E301" {
		t.Errorf("LoadFile code = %s, want E301", code)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", `{"routes": [`, FormatJSON},
		{"toml", `[[routes]`, FormatTOML},
		{"json wrong type", `{"routes": "users"}`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if code := errorCode(t, err); code != "E302" {
				t.Errorf("code = %s, want E302", code)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"waypoint.json":      FormatJSON,
		"waypoint.toml":      FormatTOML,
		"conf/routes.TOML":   FormatTOML,
		"manifest":           FormatJSON,
		"s3/bucket/key.toml": FormatTOML,
	}
	for name, want := range tests {
		if got := FormatOf(name); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing view", func(c *Config) {
			c.Routes = []RouteConfig{{Pattern: "users"}}
		}, `routes[0] ("users") has no view`},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad timeout", func(c *Config) { c.Server.WriteTimeout = "soon" }, "server.writeTimeout"},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = "-1s" }, "server.readTimeout"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			list, ok := err.(errors.List)
			if !ok || len(list) != 1 {
				t.Fatalf("Validate() = %#v, want one error", err)
			}
			if list[0].Code != "E303" {
				t.Errorf("code = %s, want E303", list[0].Code)
			}
			if !strings.Contains(list[0].Detail, tt.wantErr) {
				t.Errorf("detail = %q, want it to mention %q", list[0].Detail, tt.wantErr)
			}
		})
	}
}

func TestLint(t *testing.T) {
	cfg := New()
	cfg.Routes = []RouteConfig{
		{Pattern: "users/{id}", View: "user"},
		{Pattern: "a/{}/b", View: "broken"},
		{Pattern: "/users/{name}/", View: "shadowed"},
		{Pattern: "docs/...", View: "docs"},
	}

	diags := cfg.Lint()
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	if strings.Join(codes, ",") != "W101,W104" {
		t.Errorf("codes = %v, want [W101 W104]", codes)
	}

	var buf bytes.Buffer
	cfg.LogLint(cfg.NewLogger(&buf))
	if got := strings.Count(buf.String(), "route diagnostic"); got != 2 {
		t.Errorf("logged %d diagnostics, want 2:\n%s", got, buf.String())
	}
}

func TestBuildRoutes(t *testing.T) {
	cfg, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	routes := cfg.BuildRoutes()
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}

	m, ok := routes.First(router.SplitPath("/docs/a/b"))
	if !ok {
		t.Fatal("expected docs route to match")
	}
	if m.Resolve() != "docs" {
		t.Errorf("view = %v, want docs", m.Resolve())
	}

	m, ok = routes.First(router.SplitPath("/users/7"))
	if !ok || m.Resolve() != "user" {
		t.Errorf("users route: match=%v view=%v", ok, m)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json record missing: %s", out)
	}
}

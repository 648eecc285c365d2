package wshost

import (
	"net/http"
	"time"
)

// Config configures a Server.
type Config struct {
	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 1024
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 1024
	WriteBufferSize int

	// CheckOrigin validates the Origin header of upgrade requests.
	// Default: same-origin only.
	CheckOrigin func(r *http.Request) bool

	// HandshakeTimeout bounds the wait for the hello frame.
	// Default: 5s
	HandshakeTimeout time.Duration

	// ReadTimeout closes tabs that stay silent this long.
	// Default: 60s
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	// Default: 10s
	WriteTimeout time.Duration

	// MaxMessageSize is the largest accepted client frame in bytes.
	// Default: 4096
	MaxMessageSize int64

	// Title is the shell page title.
	// Default: "waypoint"
	Title string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      sameOrigin,
		HandshakeTimeout: 5 * time.Second,
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		MaxMessageSize:   4096,
		Title:            "waypoint",
	}
}

// withDefaults fills the unset fields of c from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.HandshakeTimeout == 0 {
		out.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}
	return &out
}

// sameOrigin accepts requests without an Origin header and requests whose
// Origin host equals the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, scheme := range []string{"http://", "https://"} {
		if origin == scheme+r.Host {
			return true
		}
	}
	return false
}

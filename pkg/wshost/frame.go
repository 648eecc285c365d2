package wshost

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/waypoint/internal/errors"
	"github.com/vango-dev/waypoint/pkg/router"
)

// FrameType identifies a frame on the tab connection.
type FrameType string

const (
	FrameHello    FrameType = "hello"
	FrameReady    FrameType = "ready"
	FrameNavigate FrameType = "navigate"
	FramePush     FrameType = "push"
	FrameRender   FrameType = "render"
	FrameError    FrameType = "error"
)

// Frame is a single JSON message exchanged with a tab. Only the fields
// relevant to Type are set.
type Frame struct {
	Type FrameType `json:"type"`

	// hello
	Location string `json:"location,omitempty"`

	// ready
	Tab string `json:"tab,omitempty"`

	// navigate, push, render
	Path string `json:"path,omitempty"`

	// render
	View      string            `json:"view,omitempty"`
	Pattern   string            `json:"pattern,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	Remainder []string          `json:"remainder,omitempty"`
	NotFound  bool              `json:"notFound,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// DecodeFrame parses a client frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.FromError(err, "E503")
	}
	switch f.Type {
	case FrameHello, FrameNavigate:
		return f, nil
	default:
		return Frame{}, errors.New("E503").WithDetail(fmt.Sprintf("unexpected frame type %q", f.Type))
	}
}

// renderFrame describes m, the match for path. A nil match renders as not
// found.
func renderFrame(path []string, m *router.RouteMatch) Frame {
	location := "/" + router.JoinPath(path)
	if m == nil {
		return Frame{Type: FrameRender, Path: location, NotFound: true}
	}

	f := Frame{
		Type:      FrameRender,
		Path:      location,
		View:      viewName(m.Resolve()),
		Params:    m.Params(),
		Remainder: m.Remainder(),
	}
	if r := m.Route(); r != nil {
		f.Pattern = r.Pattern()
	}
	return f
}

func errorFrame(err error) Frame {
	f := Frame{Type: FrameError, Message: err.Error()}
	if werr, ok := err.(*errors.WaypointError); ok {
		f.Code = werr.Code
		f.Message = werr.Message
	}
	return f
}

// viewName renders a resolved view for the wire. Routes built from a
// manifest resolve to the view name string.
func viewName(v router.View) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

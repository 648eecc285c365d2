package wshost

import (
	"html/template"
	"net/http"
)

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main id="view"></main>
<script>
(function () {
  var view = document.getElementById("view");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");

  ws.onopen = function () {
    ws.send(JSON.stringify({type: "hello", location: location.pathname}));
  };

  ws.onmessage = function (ev) {
    var f = JSON.parse(ev.data);
    switch (f.type) {
    case "push":
      history.pushState(null, "", f.path);
      break;
    case "render":
      view.dataset.view = f.view || "";
      view.textContent = f.notFound ? "not found" : JSON.stringify(f);
      break;
    case "error":
      console.error(f.code, f.message);
      break;
    }
  };

  document.addEventListener("click", function (ev) {
    var a = ev.target.closest && ev.target.closest("a[href^='/']");
    if (!a || ev.metaKey || ev.ctrlKey) {
      return;
    }
    ev.preventDefault();
    ws.send(JSON.stringify({type: "navigate", path: a.getAttribute("href")}));
  });
})();
</script>
</body>
</html>
`))

// handleShell serves the page that connects a tab. Every path gets the same
// page; the tab reports its own location in the hello frame.
func (s *Server) handleShell(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellTemplate.Execute(w, struct{ Title string }{s.config.Title}); err != nil {
		s.logger.Error("shell render failed", "error", err)
	}
}

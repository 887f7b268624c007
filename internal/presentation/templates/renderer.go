package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// ReloadPath is the websocket endpoint the live reload script connects to.
const ReloadPath = "/ws/reload"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}">
{{- end}}
<meta property="og:title" content="{{.Title}}">
<link rel="stylesheet" href="{{.Stylesheet}}">
<link rel="icon" href="{{.Favicon}}">
</head>
<body data-slug="{{.Slug}}">
<div id="quartz-root" class="page">
<header>{{.Header}}</header>
<article class="popover-hint">
{{.BeforeBody}}
{{.Body}}
</article>
</div>
{{- if .LiveReload}}
<script>
(function () {
  const proto = location.protocol === "https:" ? "wss://" : "ws://";
  const socket = new WebSocket(proto + location.host + {{.ReloadPath}});
  socket.addEventListener("message", (event) => {
    if (event.data === "rebuild") location.reload();
  });
})();
</script>
{{- end}}
</body>
</html>
`))

// PageData holds everything the page layout needs. Header, BeforeBody and
// Body are trusted, already rendered markup.
type PageData struct {
	Lang        string
	Title       string
	Description string
	Slug        string
	Stylesheet  string
	Favicon     string
	Header      template.HTML
	BeforeBody  template.HTML
	Body        template.HTML
	LiveReload  bool
	ReloadPath  string
}

// RenderPage writes a complete HTML document.
func RenderPage(w io.Writer, data PageData) error {
	if data.ReloadPath == "" {
		data.ReloadPath = ReloadPath
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute page template: %w", err)
	}
	return nil
}

// RenderPageBytes is RenderPage into a new buffer.
func RenderPageBytes(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/store"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// IndexPageData is the template data for the blip index page.
type IndexPageData struct {
	PageData
	Entries []store.IndexEntry
}

// DetailPageData is the template data for the blip detail page.
type DetailPageData struct {
	PageData
	Blip         *blip.Blip
	SourceType   string
	SourceRef    string
	RenderedHTML template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - blip</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
a { color: #2b6cb0; text-decoration: none; }
a:hover { text-decoration: underline; }
.state { font-size: 0.85em; color: #666; }
.meta { color: #666; font-size: 0.9em; margin-bottom: 1rem; }
footer { margin-top: 3rem; color: #999; font-size: 0.8em; }
</style>
</head>
<body>
<header><a href="/blips"><strong>blips</strong></a></header>
<main>{{template "content" .}}</main>
<footer>blip {{.Version}}</footer>
</body>
</html>`

const indexTemplate = `{{define "content"}}
<h1>Blips</h1>
{{if not .Entries}}<p>No blips yet.</p>{{else}}
<table>
<tr><th>Captured</th><th>State</th><th>Category</th><th>Summary</th></tr>
{{range .Entries}}
<tr>
<td>{{formatTime .CapturedAt}}</td>
<td class="state">{{.State}}</td>
<td>{{.Category}}</td>
<td><a href="/blips/{{.ID}}">{{.Summary}}</a></td>
</tr>
{{end}}
</table>
{{end}}
{{end}}`

const detailTemplate = `{{define "content"}}
<h1>{{.Blip.ID}}</h1>
<p class="meta">
{{.Blip.State}}{{if .Blip.Category}} / {{.Blip.Category}}{{end}}
&middot; captured {{formatTime .Blip.CapturedAt}}
&middot; surfaced {{.Blip.SurfaceCount}}x
{{if .SourceRef}}&middot; {{.SourceType}}: {{.SourceRef}}{{end}}
</p>
<article>{{.RenderedHTML}}</article>
{{if .Blip.Notes}}
<h2>Notes</h2>
<ul>{{range .Blip.Notes}}<li>{{.}}</li>{{end}}</ul>
{{end}}
{{if .Blip.Tags}}<p class="meta">tags: {{range .Blip.Tags}}{{.}} {{end}}</p>{{end}}
{{end}}`

const errorTemplate = `{{define "content"}}
<h1>{{.StatusCode}}</h1>
<p>{{.Message}}</p>
{{end}}`

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

func newRenderer(version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
	}

	pages := map[string]string{
		"index":  indexTemplate,
		"detail": detailTemplate,
		"error":  errorTemplate,
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, page := range pages {
		t := template.Must(template.New("layout").Funcs(funcMap).Parse(layoutTemplate))
		templates[name] = template.Must(t.Parse(page))
	}
	return &Renderer{templates: templates, version: version}
}

// Render writes the named page. Template failures are logged and reported as
// a bare 500 since the error page itself may be broken.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := r.templates[name]
	if !ok {
		log.Printf("unknown template %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// RenderError writes the error page with the given status code.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := ErrorPageData{
		PageData:   PageData{Title: http.StatusText(status), Version: r.version},
		StatusCode: status,
		Message:    message,
	}
	tmpl := r.templates["error"]
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("render error page: %v", err)
		return
	}
	_, _ = buf.WriteTo(w)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a timestamp as "2006-01-02 15:04" UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

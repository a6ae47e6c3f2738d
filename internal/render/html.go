package render

import (
	"html/template"
	"io"

	"github.com/josephgoksu/PlanWise/internal/plantext"
)

const htmlTemplates = `
{{- define "spans"}}{{range .}}{{if eq .Kind "emphasis"}}<strong>{{.Text}}</strong>{{else}}{{.Text}}{{end}}{{end}}{{end}}

{{- define "blocks"}}
{{- range .Blocks}}
{{- if eq .Kind "heading"}}
{{- if eq .Level 1}}
<h1 id="line-{{.Line}}">{{template "spans" .Spans}}</h1>
{{- else if eq .Level 2}}
<h2 id="line-{{.Line}}">{{template "spans" .Spans}}</h2>
{{- else}}
<h3 id="line-{{.Line}}">{{template "spans" .Spans}}</h3>
{{- end}}
{{- else if eq .Kind "list"}}
<ul id="line-{{.Line}}">
{{- range .Items}}
  <li>{{template "spans" .}}</li>
{{- end}}
</ul>
{{- else if eq .Kind "paragraph"}}
<p id="line-{{.Line}}">{{template "spans" .Spans}}</p>
{{- else}}
<div class="spacer" id="line-{{.Line}}"></div>
{{- end}}
{{- end}}
{{end}}

{{- define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
h1 { font-size: 1.6rem; } h2 { font-size: 1.3rem; } h3 { font-size: 1.1rem; }
ul { padding-left: 1.5rem; } .spacer { height: 0.5rem; }
</style>
</head>
<body>
<article class="plan">
{{- template "blocks" .Doc}}
</article>
</body>
</html>
{{end}}`

var htmlTmpl = template.Must(template.New("plan").Parse(htmlTemplates))

// HTML renders blocks as HTML elements: h1-h3, ul/li, p and spacer divs.
// Emphasis becomes <strong>. All text is escaped.
type HTML struct {
	opts Options
}

func (h *HTML) Render(w io.Writer, blocks []plantext.Block) error {
	doc := NewDocument(blocks, h.opts.vocab())
	if !h.opts.Standalone {
		return htmlTmpl.ExecuteTemplate(w, "blocks", doc)
	}
	title := h.opts.Title
	if title == "" {
		title = "Plan"
	}
	return htmlTmpl.ExecuteTemplate(w, "page", struct {
		Title string
		Doc   Document
	}{Title: title, Doc: doc})
}

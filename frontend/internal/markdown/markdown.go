// Package markdown renders inspection notes to safe HTML.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/repospector/repospector/shared/logger"
)

// Renderer turns notes into HTML. Raw HTML in the source is never passed
// through: goldmark drops it and the output is sanitized again regardless.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{md: md, policy: policy}
}

// Render returns sanitized HTML for notes. On a render failure the notes are
// shown escaped as plain text.
func (r *Renderer) Render(notes string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(notes), &buf); err != nil {
		logger.Log.Warn("failed to render notes", "error", err)
		return template.HTML("<p>" + template.HTMLEscapeString(notes) + "</p>")
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

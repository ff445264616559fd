package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// sanitizer runs over every rendered document; raw HTML from goldmark is only
// safe because of this pass.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target", "rel").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}()

// RenderMarkdown converts stored markdown content to sanitized HTML.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		if Sugar != nil {
			Sugar.Warnf("markdown render failed: %v", err)
		}
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

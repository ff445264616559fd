package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownBasics(t *testing.T) {
	out := RenderMarkdown("# Заголовок\n\nПервый *абзац*.")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Заголовок")
	assert.Contains(t, out, "<em>абзац</em>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := RenderMarkdown("hello\n\n<script>alert(1)</script>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, "hello")
}

func TestRenderMarkdownKeepsGFMTables(t *testing.T) {
	out := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "<td>1</td>")
}

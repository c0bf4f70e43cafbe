package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// RenderMarkdown falls back to plain text.
		markdownRenderer = nil
	}
}

// RenderMarkdown renders markdown with terminal styling and syntax
// highlighting, falling back to the raw text if rendering fails.
func RenderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

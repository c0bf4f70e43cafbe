package ui

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Renderer formats all user-facing output.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// WelcomeMessage returns the styled startup banner.
func (r *Renderer) WelcomeMessage() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s - %s\n", TitleStyle.Render("minicode"), Subtle.Render("AI coding assistant")))
	sb.WriteString(Subtle.Render("Type '/help' for commands, 'exit' to quit"))
	sb.WriteString("\n")
	return sb.String()
}

// FormatToolStatus returns a one-line styled summary of a tool execution.
func (r *Renderer) FormatToolStatus(tool string, params map[string]interface{}, result string, isError bool) string {
	if isError {
		return ToolError.Render(fmt.Sprintf("%s %s failed: %s", IconError, tool, firstLine(result)))
	}

	switch tool {
	case "read":
		path, _ := params["path"].(string)
		lines := strings.Count(result, "\n")
		return ToolRead.Render(fmt.Sprintf("%s Read %s (%d lines)", IconArrow, filepath.Base(path), lines))

	case "write":
		path, _ := params["path"].(string)
		return ToolWrite.Render(fmt.Sprintf("%s Wrote %s", IconSuccess, filepath.Base(path)))

	case "edit":
		path, _ := params["path"].(string)
		return ToolWrite.Render(fmt.Sprintf("%s Edited %s", IconSuccess, filepath.Base(path)))

	case "glob":
		pattern, _ := params["pattern"].(string)
		if result == "none" {
			return ToolRead.Render(fmt.Sprintf("%s Glob %q (no matches)", IconArrow, pattern))
		}
		files := strings.Count(result, "\n") + 1
		return ToolRead.Render(fmt.Sprintf("%s Glob %q (%d files)", IconArrow, pattern, files))

	case "grep":
		pattern, _ := params["pattern"].(string)
		if result == "none" {
			return ToolRead.Render(fmt.Sprintf("%s Grep %q (no matches)", IconArrow, pattern))
		}
		hits := strings.Count(result, "\n") + 1
		return ToolRead.Render(fmt.Sprintf("%s Grep %q (%d matches)", IconArrow, pattern, hits))

	case "bash":
		cmd, _ := params["cmd"].(string)
		if len(cmd) > 40 {
			cmd = cmd[:37] + "..."
		}
		return ToolRead.Render(fmt.Sprintf("%s Ran: %s", IconArrow, cmd))

	case "diff":
		if result == "(empty)" {
			return ToolRead.Render(fmt.Sprintf("%s Diff: no changes", IconArrow))
		}
		lines := strings.Count(result, "\n") + 1
		return ToolRead.Render(fmt.Sprintf("%s Diff: %d lines", IconArrow, lines))

	case "undo":
		path, _ := params["path"].(string)
		if strings.Contains(result, "no uncommitted changes") {
			return ToolRead.Render(fmt.Sprintf("%s Undo %s: nothing to undo", IconArrow, filepath.Base(path)))
		}
		return ToolWrite.Render(fmt.Sprintf("%s Reverted %s", IconSuccess, filepath.Base(path)))

	default:
		return ToolRead.Render(fmt.Sprintf("%s %s completed", IconArrow, tool))
	}
}

// ErrorMessage formats an error for display.
func (r *Renderer) ErrorMessage(err error) string {
	return ToolError.Render(fmt.Sprintf("%s Error: %v", IconError, err))
}

// WarningMessage formats a warning for display.
func (r *Renderer) WarningMessage(msg string) string {
	return WarningStyle.Render(fmt.Sprintf("%s %s", IconWarning, msg))
}

// SuccessMessage formats a success notice for display.
func (r *Renderer) SuccessMessage(msg string) string {
	return SuccessStyle.Render(fmt.Sprintf("%s %s", IconSuccess, msg))
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

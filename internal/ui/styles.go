package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary = lipgloss.Color("#2563EB") // Blue
	Success = lipgloss.Color("#10B981") // Green
	Error   = lipgloss.Color("#EF4444") // Red
	Warning = lipgloss.Color("#F59E0B") // Amber
	Muted   = lipgloss.Color("#6B7280") // Gray
)

var (
	Subtle = lipgloss.NewStyle().Foreground(Muted)

	ToolRead  = lipgloss.NewStyle().Foreground(Muted)
	ToolWrite = lipgloss.NewStyle().Foreground(Success)
	ToolError = lipgloss.NewStyle().Foreground(Error)

	PromptStyle  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconArrow   = "→"
	IconWarning = "⚠"
)

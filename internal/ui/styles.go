package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // delivered, complete
	ErrorColor   = lipgloss.Color("#FF5555") // failures
	WarningColor = lipgloss.Color("#FFA500") // corrupt frames, running steps, trailers
	MutedColor   = lipgloss.Color("#626262") // secondary text
	TextColor    = lipgloss.Color("#FFFFFF")
	AccentColor  = lipgloss.Color("#56B6F4") // frame tags
)

// Output is never narrower than minWidth or wider than maxWidth columns.
const (
	minWidth = 60
	maxWidth = 100
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func bold(c lipgloss.Color) lipgloss.Style { return fg(c).Bold(true) }

// Header styles
var (
	HeaderTitleStyle      = bold(TextColor).PaddingLeft(2)
	HeaderCommandStyle    = fg(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = fg(MutedColor).PaddingLeft(2)
	HeaderParamValueStyle = fg(TextColor)
	dividerStyle          = fg(PrimaryColor)
)

// Step styles
var (
	StepCompleteStyle = fg(SuccessColor)
	StepRunningStyle  = fg(WarningColor)
	StepPendingStyle  = fg(MutedColor)
	StepNoteStyle     = fg(MutedColor).Italic(true)
)

// Result box styles
var (
	SuccessTitleStyle         = bold(SuccessColor)
	ErrorTitleStyle           = bold(ErrorColor)
	WarningTitleStyle         = bold(WarningColor)
	ErrorMessageStyle         = fg(ErrorColor)
	ResultKeyStyle            = fg(MutedColor).Width(22)
	ResultValueStyle          = fg(TextColor)
	TroubleshootingTitleStyle = bold(MutedColor)
	TroubleshootingItemStyle  = fg(MutedColor)
)

// Frame trace styles. Markers come from protocol.Tags.Describe.
var (
	TraceTitleStyle   = bold(MutedColor)
	TraceTagStyle     = fg(AccentColor)  // <start> <stop> <esc>
	TraceTrailerStyle = fg(WarningColor) // <trailer 0x..>
	TraceByteStyle    = fg(MutedColor)   // <0x..>
)

// Status markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// GetTerminalWidth returns the width of stdout clamped to the supported
// range. Non-terminals get the minimum width.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return minWidth
	}
	return min(max(width, minWidth), maxWidth)
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func clampWidth(width int) int {
	return max(width, minWidth)
}

func bordered(border lipgloss.Border, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(border).BorderForeground(color)
}

// HeaderBorderStyle is the rounded box around command headers.
func HeaderBorderStyle(width int) lipgloss.Style {
	return bordered(lipgloss.RoundedBorder(), PrimaryColor).Width(width - 2)
}

// ResultBoxStyle is the double box around results and confirmations.
func ResultBoxStyle(width int, color lipgloss.Color) lipgloss.Style {
	return bordered(lipgloss.DoubleBorder(), color).Width(width-2).Padding(0, 2)
}

// TroubleshootingBoxStyle is the box nested inside a failure result.
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	return bordered(lipgloss.RoundedBorder(), MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3)
}

// TraceBoxStyle is the box around frame traces.
func TraceBoxStyle(width int) lipgloss.Style {
	return bordered(lipgloss.RoundedBorder(), MutedColor).
		Width(max(width-4, 40)).
		Padding(0, 1).
		MarginLeft(2)
}

// RenderHorizontalDivider draws width copies of char.
func RenderHorizontalDivider(width int, char string) string {
	return dividerStyle.Render(strings.Repeat(char, width))
}

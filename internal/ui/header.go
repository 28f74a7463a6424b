package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line in a header or result box.
type Param struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
type Header struct {
	Title   string  // e.g., "SIMULATION"
	Command string  // e.g., "linksim simulate"
	Params  []Param // Shown in order
	Width   int     // Terminal width for responsive rendering
	Plain   bool    // Render without styling or borders
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params []Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// SetPlain switches plain rendering on or off
func (h *Header) SetPlain(plain bool) *Header {
	h.Plain = plain
	return h
}

// Render returns the header as a string
func (h *Header) Render() string {
	if h.Plain {
		return h.renderPlain()
	}
	width := clampWidth(h.Width)

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(topSection)
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := RenderHorizontalDivider(dividerWidth, "─")

	keyWidth := h.keyWidth()
	paramLines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		keyStyled := HeaderParamKeyStyle.Render(padRight(p.Key+":", keyWidth))
		valueStyled := HeaderParamValueStyle.Render(p.Value)
		paramLines = append(paramLines, keyStyled+" "+valueStyled)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

func (h *Header) renderPlain() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(h.Title))
	if h.Command != "" {
		b.WriteString(" (" + h.Command + ")")
	}
	keyWidth := h.keyWidth()
	for _, p := range h.Params {
		b.WriteString("\n  " + padRight(p.Key+":", keyWidth) + " " + p.Value)
	}
	return b.String()
}

// keyWidth is the widest "Key:" label, for aligned values.
func (h *Header) keyWidth() int {
	w := 0
	for _, p := range h.Params {
		w = max(w, lipgloss.Width(p.Key)+1)
	}
	return w
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

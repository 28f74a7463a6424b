package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// traceToken matches the markers produced by protocol.Tags.Describe.
var traceToken = regexp.MustCompile(`<(start|stop|esc|trailer 0x[0-9a-f]{2}|0x[0-9a-f]{2})>`)

// Trace is a box listing frame traces, one frame per line.
type Trace struct {
	Title    string   // e.g., "Frames"
	Lines    []string // Frame descriptions
	Width    int      // Terminal width
	MaxLines int      // Maximum lines to display (0 = unlimited)
	Plain    bool     // Render without styling or borders
}

// NewTrace creates a trace box for the given frame descriptions.
func NewTrace(title string, lines []string) *Trace {
	return &Trace{
		Title: title,
		Lines: lines,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *Trace) SetWidth(width int) *Trace {
	t.Width = width
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *Trace) SetMaxLines(n int) *Trace {
	t.MaxLines = n
	return t
}

// SetPlain switches plain rendering on or off
func (t *Trace) SetPlain(plain bool) *Trace {
	t.Plain = plain
	return t
}

func (t *Trace) visible() []string {
	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		lines = append(lines[:t.MaxLines:t.MaxLines],
			fmt.Sprintf("... (%d more)", len(t.Lines)-t.MaxLines))
	}
	return lines
}

// Render returns the trace box as a string
func (t *Trace) Render() string {
	lines := t.visible()
	if t.Plain {
		return t.Title + ":\n  " + strings.Join(lines, "\n  ")
	}

	highlighted := make([]string, len(lines))
	for i, line := range lines {
		highlighted[i] = HighlightTrace(line)
	}
	inner := lipgloss.JoinVertical(lipgloss.Left,
		TraceTitleStyle.Render(t.Title), "", strings.Join(highlighted, "\n"))
	return TraceBoxStyle(clampWidth(t.Width)).Render(inner)
}

// String implements fmt.Stringer
func (t *Trace) String() string {
	return t.Render()
}

// HighlightTrace colors the structural markers of a frame description.
func HighlightTrace(line string) string {
	return traceToken.ReplaceAllStringFunc(line, func(tok string) string {
		switch {
		case strings.HasPrefix(tok, "<trailer"):
			return TraceTrailerStyle.Render(tok)
		case strings.HasPrefix(tok, "<0x"):
			return TraceByteStyle.Render(tok)
		default:
			return TraceTagStyle.Render(tok)
		}
	})
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType selects the marker and color of a result box.
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is the closing box of a command.
type Result struct {
	Type            ResultType
	Title           string   // e.g., "Transmission succeeded"
	Details         []Param  // Shown in order
	Error           error    // Failure only
	Troubleshooting []string // Failure only
	Width           int
	Plain           bool // Render without styling or borders
}

func newResult(t ResultType, title string, details []Param) *Result {
	return &Result{Type: t, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewSuccessResult creates a success box.
func NewSuccessResult(title string, details []Param) *Result {
	return newResult(ResultSuccess, title, details)
}

// NewWarningResult creates a warning box, used when a command finished but
// lost data on the way.
func NewWarningResult(title string, details []Param) *Result {
	return newResult(ResultWarning, title, details)
}

// NewFailureResult creates a failure box with the error and troubleshooting
// tips.
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	r := newResult(ResultFailure, title, nil)
	r.Error = err
	r.Troubleshooting = troubleshooting
	return r
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// SetPlain switches plain rendering on or off
func (r *Result) SetPlain(plain bool) *Result {
	r.Plain = plain
	return r
}

// AddDetail appends a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Param{Key: key, Value: value})
	return r
}

func (r *Result) label() (marker, word string, style lipgloss.Style, color lipgloss.Color) {
	switch r.Type {
	case ResultFailure:
		return FailureMarker, "FAILED", ErrorTitleStyle, ErrorColor
	case ResultWarning:
		return WarningMarker, "WARNING", WarningTitleStyle, WarningColor
	default:
		return SuccessMarker, "SUCCESS", SuccessTitleStyle, SuccessColor
	}
}

// Render returns the result box as a string
func (r *Result) Render() string {
	if r.Plain {
		return r.renderPlain()
	}
	width := clampWidth(r.Width)
	marker, word, titleStyle, color := r.label()

	lines := []string{
		"",
		titleStyle.Render(fmt.Sprintf("   %s  %s  ─  %s", marker, word, r.Title)),
		"",
	}

	for _, d := range r.Details {
		keyStyled := ResultKeyStyle.Render("   " + d.Key + ":")
		valueStyled := ResultValueStyle.Render(d.Value)
		lines = append(lines, keyStyled+" "+valueStyled)
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, r.renderTroubleshootingBox(width), "")
	}

	return ResultBoxStyle(width, color).Render(strings.Join(lines, "\n"))
}

func (r *Result) renderPlain() string {
	marker, word, _, _ := r.label()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", marker, word, r.Title)
	for _, d := range r.Details {
		fmt.Fprintf(&b, "\n  %s: %s", d.Key, d.Value)
	}
	if r.Error != nil {
		fmt.Fprintf(&b, "\n  Error: %v", r.Error)
	}
	for _, tip := range r.Troubleshooting {
		b.WriteString("\n  - " + tip)
	}
	return b.String()
}

// renderTroubleshootingBox renders the inner troubleshooting box
func (r *Result) renderTroubleshootingBox(width int) string {
	lines := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, TroubleshootingItemStyle.Render("  • "+tip))
	}
	return TroubleshootingBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

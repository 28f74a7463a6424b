package ui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// onceModel shows its content for a single frame and quits.
type onceModel string

func (m onceModel) Init() tea.Cmd { return tea.Quit }

func (m onceModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

func (m onceModel) View() string { return string(m) }

// RenderOnce draws content to w through Bubble Tea's renderer and exits
// without reading input.
func RenderOnce(w io.Writer, content string) error {
	_, err := tea.NewProgram(onceModel(content), tea.WithOutput(w), tea.WithInput(nil)).Run()
	return err
}

// Printer writes UI components to a writer, styled or plain.
type Printer struct {
	out   io.Writer
	width int
	plain bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer, plain bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
		plain: plain,
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Plain reports whether the printer renders without styling.
func (p *Printer) Plain() bool {
	return p.plain
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Param) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).SetPlain(p.plain).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Param) {
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).SetPlain(p.plain).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details []Param) {
	p.Println(NewWarningResult(title, details).SetWidth(p.width).SetPlain(p.plain).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).SetPlain(p.plain).Render())
}

// PrintTrace prints a frame trace box
func (p *Printer) PrintTrace(title string, lines []string, maxLines int) {
	p.Println(NewTrace(title, lines).SetWidth(p.width).SetMaxLines(maxLines).SetPlain(p.plain).Render())
}

// Render shows styled content through Bubble Tea when writing to a terminal
// and prints it directly otherwise.
func (p *Printer) Render(content string) error {
	if !p.plain && p.out == os.Stdout && IsTerminal() {
		return RenderOnce(p.out, content+"\n")
	}
	p.Println(content)
	return nil
}

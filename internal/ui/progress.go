package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Step is one named stage of a command, e.g. "Transmit".
type Step struct {
	Number  int // 1-based
	Name    string
	Status  StepStatus
	Message string // Shown in parentheses, e.g. "12 frames"
}

// StepCallback reports progress from inside an Operation. A non-empty name
// renames the step.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)

// stepColumn is where status markers line up.
const stepColumn = 36

// Progress tracks a fixed list of steps and renders them with a completion
// bar.
type Progress struct {
	Steps   []Step
	Current int     // Step most recently started
	Percent float64 // Finished steps over total, 0.0 - 1.0
	Width   int
	Plain   bool // Render without styling or the bar
	bar     progress.Model
}

// NewProgress creates a progress display with one pending step per name.
func NewProgress(names []string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Number: i + 1, Name: name}
	}
	return (&Progress{Steps: steps}).SetWidth(GetTerminalWidth())
}

// SetWidth sizes the bar to leave room for the percentage and step count.
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(min(max(width-20, 20), 50)),
	)
	return p
}

// UpdateStep sets a step's status and note. Out-of-range steps are ignored.
func (p *Progress) UpdateStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	step := &p.Steps[stepNumber-1]
	step.Status = status
	step.Message = message

	if status == StepRunning {
		p.Current = stepNumber
		return
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	p.Percent = float64(done) / float64(len(p.Steps))
}

func (p *Progress) StartStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepRunning, message)
}

func (p *Progress) CompleteStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepComplete, message)
}

func (p *Progress) FailStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepFailed, message)
}

// RenderBar renders "<bar>  75%  [3/4]". Plain mode has no bar.
func (p *Progress) RenderBar() string {
	counts := fmt.Sprintf("%3.0f%%  [%d/%d]", p.Percent*100, p.Current, len(p.Steps))
	if p.Plain {
		return "  " + counts
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(p.bar.ViewAs(p.Percent) + "  " + counts)
}

// RenderStepLine renders "  [1/4] Name    ✓  (note)".
func (p *Progress) RenderStepLine(step Step) string {
	marker, style := StepMarkerPending, StepPendingStyle
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker = StepMarkerSkipped
	}
	style = p.style(style)

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] %s", step.Number, len(p.Steps), style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", max(1, stepColumn-lipgloss.Width(step.Name))))
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  " + p.style(StepNoteStyle).Render("("+step.Message+")"))
	}
	return b.String()
}

// Render returns the bar followed by every step line.
func (p *Progress) Render() string {
	lines := make([]string, 0, len(p.Steps)+2)
	lines = append(lines, p.RenderBar(), "")
	for _, step := range p.Steps {
		lines = append(lines, p.RenderStepLine(step))
	}
	return strings.Join(lines, "\n")
}

func (p *Progress) String() string {
	return p.Render()
}

// style drops all styling in plain mode.
func (p *Progress) style(s lipgloss.Style) lipgloss.Style {
	if p.Plain {
		return lipgloss.NewStyle()
	}
	return s
}

package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for one command execution
type RunnerConfig struct {
	Title           string    // Command title (e.g., "Simulation")
	Command         string    // Full command (e.g., "linksim simulate")
	Params          []Param   // Parameters to display in header
	StepNames       []string  // Names for each step
	Troubleshooting []string  // Tips shown when the operation fails
	Plain           bool      // Plain text output
	Output          io.Writer // Output writer (default: os.Stdout)
}

// Summary is what an operation reports on completion. Warning selects the
// warning box instead of the success box.
type Summary struct {
	Title   string
	Details []Param
	Warning bool
}

// Operation is the work a Runner wraps. It reports progress through onStep.
type Operation func(onStep StepCallback) (Summary, error)

// Runner orchestrates the header, step progress and result for a command.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a new runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	var prog *Progress
	if len(config.StepNames) > 0 {
		prog = NewProgress(config.StepNames).SetWidth(width)
		prog.Plain = config.Plain
	}

	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params).SetWidth(width).SetPlain(config.Plain),
		progress: prog,
		output:   config.Output,
		width:    width,
	}
}

// Run prints the header, executes the operation with live step updates and
// prints the result box. It returns the operation's error.
func (r *Runner) Run(operation Operation) (Summary, error) {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	summary, err := operation(r.stepCallback())
	duration := time.Since(start).Round(time.Millisecond).String()

	if r.progress != nil && !r.config.Plain {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	}
	_, _ = fmt.Fprintln(r.output)
	var result *Result
	switch {
	case err != nil:
		result = NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting)
	case summary.Warning:
		result = NewWarningResult(summary.Title, summary.Details)
	default:
		result = NewSuccessResult(summary.Title, summary.Details)
	}
	if err == nil {
		result.AddDetail("Duration", duration)
	}
	result.SetWidth(r.width).SetPlain(r.config.Plain)
	_, _ = fmt.Fprintln(r.output, result.Render())

	return summary, err
}

func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		line := r.progress.RenderStepLine(r.progress.Steps[stepNumber-1])
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, line)
		case StepRunning:
			if !r.config.Plain {
				// Overwritten when the step finishes
				_, _ = fmt.Fprint(r.output, line+"\r")
			}
		}
	}
}

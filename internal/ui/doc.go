// Package ui provides terminal UI components for the linksim CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output. The
// components follow a "run once and exit" pattern: they render output but
// don't require user interaction.
//
// # Architecture
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success, warning and failure boxes
//   - Trace: Frame traces with highlighted tags and trailers
//
// The Runner manages the header → progress → result flow for a command.
//
// # Usage Pattern
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Simulation",
//	    Command:   "linksim simulate",
//	    Params:    []ui.Param{{Key: "Medium", Value: "lownoise"}},
//	    StepNames: []string{"Read input", "Transmit", "Compare"},
//	})
//
//	_, err := runner.Run(func(onStep ui.StepCallback) (ui.Summary, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "4,096 bytes")
//	    return ui.Summary{Title: "Transmission succeeded"}, nil
//	})
//
// # Plain Output
//
// Every component has a Plain mode with no colors or borders, for pipes,
// logs and tests. Commands enable it with --plain.
//
// # Logging Integration
//
// Console logging is silent unless LINKFRAME_LOG_LEVEL or --log-level is set,
// so the UI output is displayed cleanly by default. Logs go to stderr.
package ui
